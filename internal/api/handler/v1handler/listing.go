package v1handler

import (
	"botlist/internal/listing"
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-faster/jx"
)

// maxBodyBytes bounds submission and edit bodies.
const maxBodyBytes = 1 << 20

// Register adds the v1 listing routes to mux. Every route resolves the
// principal through sec first.
func (h Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	handle := func(pattern string, f http.HandlerFunc) {
		mux.Handle(pattern, sec.Authenticate(f, h.writeError))
	}

	handle("GET /v1/listings", h.listApproved)
	handle("GET /v1/listings/queue", h.listQueued)
	handle("GET /v1/listings/all", h.listAll)
	handle("GET /v1/listings/{id}", h.getListing)
	handle("POST /v1/listings", h.submit)
	handle("PUT /v1/listings/{id}", h.edit)
	handle("DELETE /v1/listings/{id}", h.delete)
	handle("GET /v1/me/listings", h.listOwned)
}

func (h Handler) listApproved(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Listings.ListApproved(r.Context())
	h.writeListings(w, r, res, err)
}

func (h Handler) listQueued(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Listings.ListQueued(r.Context())
	h.writeListings(w, r, res, err)
}

func (h Handler) listAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Listings.ListAll(r.Context())
	h.writeListings(w, r, res, err)
}

func (h Handler) getListing(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Listings.Listing(r.Context(), domain.ListingID(r.PathValue("id")))
	h.writeListing(w, r, http.StatusOK, res, err)
}

func (h Handler) submit(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	res, err := h.deps.Listings.Submit(r.Context(), PrincipalFromContext(r.Context()), payload)
	h.writeListing(w, r, http.StatusCreated, res, err)
}

func (h Handler) edit(w http.ResponseWriter, r *http.Request) {
	payload, err := readPayload(w, r)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	res, err := h.deps.Listings.Edit(r.Context(),
		PrincipalFromContext(r.Context()),
		domain.ListingID(r.PathValue("id")),
		payload)
	h.writeListing(w, r, http.StatusOK, res, err)
}

func (h Handler) delete(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Listings.Delete(r.Context(),
		PrincipalFromContext(r.Context()),
		domain.ListingID(r.PathValue("id")))
	h.writeListing(w, r, http.StatusOK, res, err)
}

func (h Handler) listOwned(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Listings.ListOwnedBy(r.Context(), PrincipalFromContext(r.Context()).ID)
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("approved", func(e *jx.Encoder) { encodeListings(e, res.Approved) })
		e.Field("pending", func(e *jx.Encoder) { encodeListings(e, res.Pending) })
	})
	writeJSON(w, http.StatusOK, &e)
}

func (h Handler) writeListing(w http.ResponseWriter, r *http.Request, status int, l *domain.Listing, err error) {
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var e jx.Encoder
	encodeListing(&e, l)
	writeJSON(w, status, &e)
}

func (h Handler) writeListings(w http.ResponseWriter, r *http.Request, ls []domain.Listing, err error) {
	if err != nil {
		h.writeError(w, r, err)

		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("listings", func(e *jx.Encoder) { encodeListings(e, ls) })
	})
	writeJSON(w, http.StatusOK, &e)
}

// readPayload reads the submitted fields from a JSON object of strings or from
// a url-encoded form.
func readPayload(w http.ResponseWriter, r *http.Request) (listing.Payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not read body")
		}

		payload := listing.Payload{}
		if err := jx.DecodeBytes(body).Obj(func(d *jx.Decoder, key string) error {
			v, err := d.Str()
			payload[key] = v

			return err
		}); err != nil {
			return nil, serrors.Wrap(serrors.ErrBadRequest, err, "body must be a JSON object of strings")
		}

		return payload, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, serrors.Wrap(serrors.ErrBadRequest, err, "could not parse form")
	}
	payload := make(listing.Payload, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			payload[key] = values[0]
		}
	}

	return payload, nil
}

func encodeListings(e *jx.Encoder, ls []domain.Listing) {
	e.Arr(func(e *jx.Encoder) {
		for i := range ls {
			encodeListing(e, &ls[i])
		}
	})
}

func encodeListing(e *jx.Encoder, l *domain.Listing) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(string(l.ID)) })
		e.Field("invite", func(e *jx.Encoder) { e.Str(l.Invite) })
		e.Field("prefix", func(e *jx.Encoder) { e.Str(l.Prefix) })
		e.Field("shortDescription", func(e *jx.Encoder) { e.Str(l.ShortDescription) })
		e.Field("longDescription", func(e *jx.Encoder) { e.Str(l.LongDescription) })
		e.Field("ownerId", func(e *jx.Encoder) { e.Str(string(l.OwnerID)) })
		e.Field("additionalOwnerIds", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, id := range l.AdditionalOwnerIDs {
					e.Str(string(id))
				}
			})
		})
		e.Field("username", func(e *jx.Encoder) { e.Str(l.Username) })
		e.Field("discriminator", func(e *jx.Encoder) { e.Str(l.Discriminator) })
		e.Field("avatar", func(e *jx.Encoder) { e.Str(l.Avatar) })
		e.Field("approved", func(e *jx.Encoder) { e.Bool(l.Approved) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(l.Status())) })
		e.Field("addedAt", func(e *jx.Encoder) { e.Str(l.AddedAt.UTC().Format(time.RFC3339)) })
		if !l.UpdatedAt.IsZero() {
			e.Field("updatedAt", func(e *jx.Encoder) { e.Str(l.UpdatedAt.UTC().Format(time.RFC3339)) })
		}
	})
}
