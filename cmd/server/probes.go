package main

import (
	"net/http"

	"github.com/halalcheck/halalcheck/internal/infrastructure"
	"github.com/halalcheck/halalcheck/pkg/handlers"
	"github.com/halalcheck/halalcheck/pkg/module"
)

type probeStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// registerProbes serves /healthz and /readyz outside the API base path.
// Readiness requires finished startup hooks and a reachable database.
func registerProbes(router *module.Router, infra *infrastructure.Infrastructure) {
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, probeStatus{Status: "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, probeStatus{Status: "starting"})
			return
		}
		if err := infra.Database.Check(r.Context()); err != nil {
			infra.Logger.Warn("readiness probe failed", "error", err)
			handlers.RespondJSON(w, http.StatusServiceUnavailable, probeStatus{Status: "unavailable", Reason: "database"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, probeStatus{Status: "ready"})
	})
}
