package v1handler

import (
	"botlist/internal/config"
	"botlist/pkg/domain"
	"botlist/pkg/serrors"
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ctxKey is the type of context keys set by this package.
type ctxKey string

// PrincipalKey is the context key under which the authenticated principal is stored.
const PrincipalKey ctxKey = "principal"

type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key verifying bearer tokens.
	PublicKey string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler authenticates RS256 bearer tokens whose subject is the principal's
// account id.
type SecHandler struct {
	publicKey *rsa.PublicKey
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}

	return &SecHandler{publicKey: key}, nil
}

// HandleBearerAuth verifies the token and stores the principal in the returned context.
func (s SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	var claims jwt.RegisteredClaims
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()})); err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	ID := domain.PrincipalID(claims.Subject)
	if !ID.Valid() {
		return ctx, serrors.With(serrors.ErrUnauthorized, "invalid token subject")
	}

	return context.WithValue(ctx, PrincipalKey, domain.Principal{ID: ID}), nil
}

// Authenticate is a middleware resolving the principal from the Authorization
// header. Requests without the header continue anonymously and are rejected
// by operations that need a principal.
func (s SecHandler) Authenticate(next http.Handler, onError func(http.ResponseWriter, *http.Request, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)

			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			onError(w, r, serrors.With(serrors.ErrUnauthorized, "unsupported authorization scheme"))

			return
		}

		ctx, err := s.HandleBearerAuth(r.Context(), strings.TrimSpace(token))
		if err != nil {
			onError(w, r, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFromContext returns the authenticated principal, or the zero
// Principal for anonymous requests.
func PrincipalFromContext(ctx context.Context) domain.Principal {
	p, _ := ctx.Value(PrincipalKey).(domain.Principal)

	return p
}
