// Package api wires the domain systems into the module served under the
// configured base path, together with its OpenAPI document.
package api

import (
	"fmt"
	"net/http"

	"github.com/halalcheck/halalcheck/internal/config"
	"github.com/halalcheck/halalcheck/internal/infrastructure"
	"github.com/halalcheck/halalcheck/pkg/middleware"
	"github.com/halalcheck/halalcheck/pkg/module"
	"github.com/halalcheck/halalcheck/pkg/openapi"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	rt := NewRuntime(cfg, infra)
	groups := NewDomain(rt).groups()

	doc, err := document(cfg, groups)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	routes.Register(mux, groups...)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(doc))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.MaxBodySize(cfg.API.MaxBodySizeBytes()))
	m.Use(middleware.Logger(rt.Logger))
	return m, nil
}

func document(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	routes.Document(spec, cfg.API.BasePath, groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("render openapi document: %w", err)
	}
	return data, nil
}
