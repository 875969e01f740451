package api_test

import (
	"botlist/internal/api"
	"botlist/internal/api/handler/v1handler"
	mocklisting "botlist/internal/listing/mock"
	"botlist/pkg/domain"
	"botlist/pkg/logger"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func publicKeyPEM(t *testing.T) string {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// The prometheus exporter registers on the default registerer, so the server
// is built once for all subtests.
func TestNewServer(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	ctrl := gomock.NewController(t)
	listings := mocklisting.NewMockService(ctrl)
	listings.EXPECT().ListApproved(gomock.Any()).Return([]domain.Listing{}, nil)

	srv, err := api.NewServer(api.Deps{Deps: v1handler.Deps{Listings: listings}}, api.Options{
		SecHandlerOptions: &v1handler.SecHandlerOptions{PublicKey: publicKeyPEM(t)},
		Addr:              ":0",
		RequestTimeout:    5 * time.Second,
		MetricsPath:       "/metrics",
	})
	require.NoError(t, err)

	serve := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		srv.Handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))

		return rec
	}

	t.Run("listings", func(t *testing.T) {
		rec := serve(http.MethodGet, "/v1/listings")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"listings":[]}`, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("spec", func(t *testing.T) {
		rec := serve(http.MethodGet, "/specs/v1.yaml")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
		require.Contains(t, rec.Body.String(), "/v1/listings/{id}:")
	})

	t.Run("metrics", func(t *testing.T) {
		rec := serve(http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "http_server_request_duration")
	})

	t.Run("pprof", func(t *testing.T) {
		rec := serve(http.MethodGet, "/debug/pprof/cmdline")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("request id", func(t *testing.T) {
		rec := serve(http.MethodGet, "/specs/v1.yaml")
		require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	})
}
