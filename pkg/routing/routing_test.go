package routing

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalizedServeMux(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{name: "ExactMatch", path: "/health", wantStatus: http.StatusOK},
		{name: "DuplicateSeparators", path: "//health", wantStatus: http.StatusOK},
		{name: "TrailingSlash", path: "/health/", wantStatus: http.StatusOK},
		{name: "TrailingSlashes", path: "/health///", wantStatus: http.StatusOK},
		{name: "Unknown", path: "/missing", wantStatus: http.StatusNotFound},
		{name: "Root", path: "/", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mux := NewNormalizedServeMux()
			mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "not found", http.StatusNotFound)
			})

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
