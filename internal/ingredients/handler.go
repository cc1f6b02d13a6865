package ingredients

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halalcheck/halalcheck/pkg/handlers"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest is the body of POST /ingredients/search.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "ingredients"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/ingredients",
		Tags:        []string{"Ingredients"},
		Description: "Reference ingredient table",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Summary: "List reference ingredients", Handler: h.List},
			{Method: "GET", Pattern: "/lookup", Summary: "Resolve a name against the reference table", Handler: h.Lookup},
			{Method: "GET", Pattern: "/{id}", Summary: "Get a reference ingredient", Handler: h.Find},
			{Method: "POST", Pattern: "", Summary: "Create a reference ingredient", Status: http.StatusCreated, Handler: h.Create},
			{Method: "POST", Pattern: "/search", Summary: "Search reference ingredients", Handler: h.Search},
			{Method: "PUT", Pattern: "/{id}", Summary: "Update a reference ingredient", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Summary: "Delete a reference ingredient", Handler: h.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	h.list(w, r, pagination.PageRequestFromQuery(values, h.pagination), FiltersFromQuery(values))
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := handlers.Bind(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.list(w, r, req.PageRequest, req.Filters)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, page pagination.PageRequest, f Filters) {
	result, err := h.sys.List(r.Context(), page, f)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Lookup runs the tiered reference lookup for ?name= in ?language=.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		err := fmt.Errorf("%w: name is required", handlers.ErrInvalidRequest)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	match, err := h.sys.Lookup(r.Context(), name, r.URL.Query().Get("language"))
	if err == nil && match == nil {
		err = ErrNoMatch
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, match)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ing, err := h.sys.Find(r.Context(), id)
	h.respond(w, http.StatusOK, ing, err)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := handlers.Bind(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ing, err := h.sys.Create(r.Context(), cmd)
	h.respond(w, http.StatusCreated, ing, err)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	id, err := handlers.PathID(r)
	if err == nil {
		err = handlers.Bind(r, &cmd)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ing, err := h.sys.Update(r.Context(), id, cmd)
	h.respond(w, http.StatusOK, ing, err)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err == nil {
		err = h.sys.Delete(r.Context(), id)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respond(w http.ResponseWriter, status int, ing *Ingredient, err error) {
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, status, ing)
}
