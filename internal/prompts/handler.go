package prompts

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/handlers"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest is the body of POST /prompts/search.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "prompts"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/prompts",
		Tags:        []string{"Prompts"},
		Description: "Instruction overrides for the parse and classify stages",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Summary: "List prompt overrides", Handler: h.List},
			{Method: "POST", Pattern: "/search", Summary: "Search prompt overrides", Handler: h.Search},
			{Method: "GET", Pattern: "/stages", Summary: "List overridable stages", Handler: h.Stages},
			{Method: "GET", Pattern: "/{stage}/instructions", Summary: "Effective instructions for a stage", Handler: h.stageText(h.sys.Instructions)},
			{Method: "GET", Pattern: "/{stage}/spec", Summary: "Fixed output contract for a stage", Handler: h.stageText(h.spec)},
			{Method: "GET", Pattern: "/{id}", Summary: "Get a prompt override", Handler: h.Find},
			{Method: "POST", Pattern: "", Summary: "Create a prompt override", Status: http.StatusCreated, Handler: h.Create},
			{Method: "PUT", Pattern: "/{id}", Summary: "Update a prompt override", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Summary: "Delete a prompt override", Handler: h.Delete},
			{Method: "POST", Pattern: "/{id}/activate", Summary: "Make a prompt the active override for its stage", Handler: h.byID(h.sys.Activate)},
			{Method: "POST", Pattern: "/{id}/deactivate", Summary: "Stop using a prompt override", Handler: h.byID(h.sys.Deactivate)},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	h.list(w, r, page, FiltersFromQuery(r.URL.Query()))
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

func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	h.byID(h.sys.Find)(w, r)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd Command
	if err := handlers.Bind(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd Command
	if err := handlers.Bind(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	p, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, p)
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

// byID adapts an id-keyed prompt operation into a handler.
func (h *Handler) byID(op func(context.Context, uuid.UUID) (*Prompt, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := handlers.PathID(r)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}

		p, err := op(r.Context(), id)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, p)
	}
}

// stageText serves text resolved for the {stage} path segment.
func (h *Handler) stageText(resolve func(context.Context, Stage) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stage, err := ParseStage(r.PathValue("stage"))
		if err == nil {
			var text string
			if text, err = resolve(r.Context(), stage); err == nil {
				handlers.RespondJSON(w, http.StatusOK, StageContent{Stage: stage, Content: text})
				return
			}
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
	}
}

func (h *Handler) spec(_ context.Context, stage Stage) (string, error) {
	return h.sys.Spec(stage)
}
