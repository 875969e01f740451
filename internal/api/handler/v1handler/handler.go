package v1handler

import (
	"botlist/internal/listing"
	"botlist/pkg/logger"
	"botlist/pkg/serrors"
	"context"
	"errors"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// Deps are the services the v1 handlers delegate to.
type Deps struct {
	Listings listing.Service
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code      string
	Message   string
	Retryable bool
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

type category struct {
	kind    serrors.Kind
	status  int
	message string
}

// categories maps generic kinds to statuses. Order matters only for kinds
// derived from more than one category, which none are.
var categories = []category{
	{kind: serrors.ErrBadRequest, status: http.StatusBadRequest, message: "bad request"},
	{kind: serrors.ErrUnauthorized, status: http.StatusUnauthorized, message: "unauthorized"},
	{kind: serrors.ErrForbidden, status: http.StatusForbidden, message: "forbidden"},
	{kind: serrors.ErrNotFound, status: http.StatusNotFound, message: "resource not found"},
	{kind: serrors.ErrConflict, status: http.StatusConflict, message: "conflict"},
	{kind: serrors.ErrRateLimited, status: http.StatusTooManyRequests, message: "too many requests"},
	{kind: serrors.ErrTimeout, status: http.StatusGatewayTimeout, message: "timed out"},
	{kind: serrors.ErrUnavailable, status: http.StatusServiceUnavailable, message: "service unavailable"},
}

// NewError converts err into an error response. Only the outermost semantic
// kind of err decides the status; kinds of wrapped causes are ignored.
func (h Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	internal := &ErrorStatusCode{
		StatusCode: http.StatusInternalServerError,
		Response: ErrorResponse{
			Code:    serrors.ErrInternal.Error(),
			Message: "internal error",
		},
	}

	k := serrors.KindOf(err)
	if k == nil {
		logger.Error(ctx, "internal error", zap.Error(err))

		return internal
	}

	for _, c := range categories {
		if !errors.Is(k, c.kind) {
			continue
		}

		message := c.message
		var sErr *serrors.Error
		if errors.As(err, &sErr) && sErr.Message() != "" {
			message = sErr.Message()
		}

		return &ErrorStatusCode{
			StatusCode: c.status,
			Response: ErrorResponse{
				Code:      k.Error(),
				Message:   message,
				Retryable: serrors.IsRetryable(err),
			},
		}
	}

	logger.Error(ctx, "internal error", zap.Error(err))

	return internal
}

func (h Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(res.Response.Code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(res.Response.Message) })
		e.Field("retryable", func(e *jx.Encoder) { e.Bool(res.Response.Retryable) })
	})
	writeJSON(w, res.StatusCode, &e)
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
