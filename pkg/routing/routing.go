package routing

import (
	"net/http"
	"path"
	"strings"
)

// NormalizedServeMux is an http.ServeMux that normalizes request paths before
// routing. The gateway's routes are flat fixed paths, so duplicate separators
// and trailing slashes would otherwise fall through to the not-found handler.
type NormalizedServeMux struct {
	*http.ServeMux
}

func NewNormalizedServeMux() *NormalizedServeMux {
	return &NormalizedServeMux{http.NewServeMux()}
}

func (nm *NormalizedServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.URL.Path, "//") {
		r.URL.Path = path.Clean(r.URL.Path)
	}
	if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
		r.URL.Path = strings.TrimRight(r.URL.Path, "/")
	}

	nm.ServeMux.ServeHTTP(w, r)
}
