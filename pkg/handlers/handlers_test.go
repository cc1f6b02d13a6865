package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/halalcheck/halalcheck/pkg/handlers"
)

type bindTarget struct {
	Name  string `json:"name" validate:"required,max=10"`
	Count int    `json:"count" validate:"min=1"`
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]string{"k": "v"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["k"] != "v" {
		t.Errorf("body = %v", got)
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handlers.RespondError(rec, logger, http.StatusNotFound, errors.New("missing"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["error"] != "missing" {
		t.Errorf("error = %q, want missing", got["error"])
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		msg     string
	}{
		{"valid", `{"name":"salt","count":2}`, false, ""},
		{"malformed json", `{"name":`, true, ""},
		{"unknown field", `{"name":"salt","count":1,"extra":true}`, true, ""},
		{"missing required", `{"count":1}`, true, "name is required"},
		{"too long", `{"name":"abcdefghijkl","count":1}`, true, "name exceeds maximum of 10"},
		{"below min", `{"name":"salt","count":0}`, true, "count below minimum of 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))

			var dst bindTarget
			err := handlers.Bind(req, &dst)

			if (err != nil) != tt.wantErr {
				t.Fatalf("Bind() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, handlers.ErrInvalidRequest) {
				t.Errorf("error %v does not wrap ErrInvalidRequest", err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.msg)
			}
		})
	}
}
