package analyses

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/halalcheck/halalcheck/pkg/handlers"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

// Handler provides HTTP endpoints for product analyses.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "analyses"),
		pagination: pagination,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/analyses",
		Tags:        []string{"Analyses"},
		Description: "Halal compliance analysis of ingredient lists",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Summary: "List analyses", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Summary: "Get an analysis with its ingredient verdicts", Handler: h.Find},
			{Method: "GET", Pattern: "/{id}/report", Summary: "Download an exported report", Handler: h.Report},
			{Method: "POST", Pattern: "", Summary: "Analyze an ingredient list", Status: http.StatusCreated, Handler: h.Analyze},
			{Method: "POST", Pattern: "/batch", Summary: "Analyze several ingredient lists", Handler: h.AnalyzeBatch},
			{Method: "POST", Pattern: "/search", Summary: "Search analyses", Handler: h.Search},
			{Method: "POST", Pattern: "/{id}/export", Summary: "Export an analysis report to storage", Handler: h.Export},
			{Method: "DELETE", Pattern: "/{id}", Summary: "Soft delete an analysis", Handler: h.Delete},
		},
	}
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var cmd AnalyzeCommand
	if err := handlers.Bind(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Analyze(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var cmd BatchCommand
	if err := handlers.Bind(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	items, err := h.sys.AnalyzeBatch(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
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

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, a)
}

// Delete soft deletes the analysis. The body names who deleted it and why.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var cmd DeleteCommand
	id, err := handlers.PathID(r)
	if err == nil {
		err = handlers.Bind(r, &cmd)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id, cmd); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	export, err := h.sys.Export(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, export)
}

// Report streams a previously exported report back as an attachment.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	obj, err := h.sys.Report(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer obj.Body.Close()

	header := w.Header()
	header.Set("Content-Type", cmp.Or(obj.ContentType, "application/json"))
	if obj.ContentLength > 0 {
		header.Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id.String()+".json"))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.logger.Warn("report stream interrupted", "id", id, "error", err)
	}
}
