package controller_test

import (
	"botlist/pkg/controller"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithCORS(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantCalled bool
		wantStatus int
	}{
		{
			name:       "preflight for deleting a listing",
			method:     http.MethodOptions,
			target:     "/v1/listings/123456789012345678",
			wantCalled: false,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "browsing approved listings",
			method:     http.MethodGet,
			target:     "/v1/listings",
			wantCalled: true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "submitting a listing",
			method:     http.MethodPost,
			target:     "/v1/listings",
			wantCalled: true,
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if r.Method == http.MethodPost {
					w.WriteHeader(http.StatusCreated)
				}
			})

			req := httptest.NewRequest(tt.method, tt.target, nil)
			req.Header.Set("Origin", "https://bots.example.org")
			rec := httptest.NewRecorder()

			controller.WithCORS(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantCalled, called)
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			require.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
				require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), m)
			}
			require.Equal(t, controller.RequestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
		})
	}
}
