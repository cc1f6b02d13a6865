// Package module mounts self-contained HTTP handlers under single-segment
// path prefixes. Each module owns its middleware and sees request paths
// with its prefix removed.
package module

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/halalcheck/halalcheck/pkg/middleware"
)

// Module serves an inner handler below a path prefix such as "/api".
type Module struct {
	prefix  string
	inner   http.Handler
	chain   middleware.Chain
	once    sync.Once
	handler http.Handler
}

// New creates a Module. It panics when prefix is not a single segment
// with a leading slash, since that is a wiring mistake.
func New(prefix string, inner http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{prefix: prefix, inner: inner}
}

// Prefix returns the mount prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use adds middleware. The chain is frozen on the first request, so all
// middleware must be added before the module serves traffic.
func (m *Module) Use(mw middleware.Func) {
	m.chain.Use(mw)
}

// ServeHTTP strips the prefix and dispatches through the middleware chain.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.once.Do(func() {
		m.handler = m.chain.Then(m.inner)
	})

	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r := req.Clone(req.Context())
	r.URL.Path = path
	r.URL.RawPath = ""
	m.handler.ServeHTTP(w, r)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("module prefix must be a single path segment: %s", prefix)
	}
	return nil
}
