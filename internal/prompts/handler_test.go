package prompts_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/prompts"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

type mockSystem struct {
	listFn         func(ctx context.Context, page pagination.PageRequest, filters prompts.Filters) (*pagination.PageResult[prompts.Prompt], error)
	findFn         func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
	instructionsFn func(ctx context.Context, stage prompts.Stage) (string, error)
	createFn       func(ctx context.Context, cmd prompts.Command) (*prompts.Prompt, error)
	updateFn       func(ctx context.Context, id uuid.UUID, cmd prompts.Command) (*prompts.Prompt, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
	activateFn     func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
	deactivateFn   func(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error)
}

func (m *mockSystem) Handler() *prompts.Handler { return newTestHandler(m) }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd prompts.Command) (*prompts.Prompt, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd prompts.Command) (*prompts.Prompt, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Activate(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.activateFn(ctx, id)
}

func (m *mockSystem) Deactivate(ctx context.Context, id uuid.UUID) (*prompts.Prompt, error) {
	return m.deactivateFn(ctx, id)
}

func (m *mockSystem) Instructions(ctx context.Context, stage prompts.Stage) (string, error) {
	return m.instructionsFn(ctx, stage)
}

func (m *mockSystem) Spec(stage prompts.Stage) (string, error) {
	return prompts.Spec(stage)
}

func newTestHandler(sys prompts.System) *prompts.Handler {
	return prompts.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *prompts.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func samplePrompt() prompts.Prompt {
	return prompts.Prompt{
		ID:           uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Name:         "strict-classify",
		Stage:        prompts.StageClassify,
		Instructions: "Treat every animal-derived additive as MASHBOOH.",
		Description:  ptr("Stricter rubric for EU imports"),
	}
}

func TestHandlerList(t *testing.T) {
	p := samplePrompt()
	var gotFilters prompts.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f prompts.Filters) (*pagination.PageResult[prompts.Prompt], error) {
			gotFilters = f
			result := pagination.NewPageResult([]prompts.Prompt{p}, 1, 1, 20)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("GET", "/prompts?stage=classify", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var result pagination.PageResult[prompts.Prompt]
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Data) != 1 || result.Data[0].Name != p.Name {
		t.Errorf("data = %+v", result.Data)
	}
	if gotFilters.Stage == nil || *gotFilters.Stage != prompts.StageClassify {
		t.Errorf("stage filter = %v, want classify", gotFilters.Stage)
	}
}

func TestHandlerFind(t *testing.T) {
	p := samplePrompt()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*prompts.Prompt, error) {
			if id == p.ID {
				return &p, nil
			}
			return nil, prompts.ErrNotFound
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		path string
		want int
	}{
		{"found", "/prompts/" + p.ID.String(), http.StatusOK},
		{"missing", "/prompts/" + uuid.New().String(), http.StatusNotFound},
		{"invalid id", "/prompts/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerInstructions(t *testing.T) {
	sys := &mockSystem{
		instructionsFn: func(_ context.Context, stage prompts.Stage) (string, error) {
			return "override for " + string(stage), nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	t.Run("returns effective instructions", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/prompts/parse/instructions", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got prompts.StageContent
		json.NewDecoder(rec.Body).Decode(&got)
		if got.Stage != prompts.StageParse || got.Content != "override for parse" {
			t.Errorf("content = %+v", got)
		}
	})

	t.Run("unknown stage", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/prompts/enhance/instructions", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerSpec(t *testing.T) {
	rec := httptest.NewRecorder()
	setupMux(newTestHandler(&mockSystem{})).ServeHTTP(rec, httptest.NewRequest("GET", "/prompts/classify/spec", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got prompts.StageContent
	json.NewDecoder(rec.Body).Decode(&got)
	if !strings.Contains(got.Content, `"status"`) {
		t.Errorf("classify spec should describe the status field, got %q", got.Content)
	}
}

func TestHandlerCreate(t *testing.T) {
	var captured prompts.Command
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd prompts.Command) (*prompts.Prompt, error) {
			captured = cmd
			p := samplePrompt()
			p.Name = cmd.Name
			return &p, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "valid",
			body: `{"name":"strict","stage":"classify","instructions":"Be strict."}`,
			want: http.StatusCreated,
		},
		{
			name: "unknown stage",
			body: `{"name":"strict","stage":"enhance","instructions":"Be strict."}`,
			want: http.StatusBadRequest,
		},
		{
			name: "missing instructions",
			body: `{"name":"strict","stage":"classify"}`,
			want: http.StatusBadRequest,
		},
		{
			name: "unknown field",
			body: `{"name":"strict","stage":"classify","instructions":"x","extra":1}`,
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/prompts", strings.NewReader(tt.body))
			mux.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	if captured.Stage != prompts.StageClassify || captured.Name != "strict" {
		t.Errorf("captured command = %+v", captured)
	}
}

func TestHandlerCreateDuplicate(t *testing.T) {
	sys := &mockSystem{
		createFn: func(_ context.Context, _ prompts.Command) (*prompts.Prompt, error) {
			return nil, prompts.ErrDuplicate
		},
	}

	rec := httptest.NewRecorder()
	body := `{"name":"strict","stage":"parse","instructions":"x"}`
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("POST", "/prompts", strings.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandlerActivateDeactivate(t *testing.T) {
	p := samplePrompt()
	sys := &mockSystem{
		activateFn: func(_ context.Context, id uuid.UUID) (*prompts.Prompt, error) {
			out := p
			out.Active = true
			return &out, nil
		},
		deactivateFn: func(_ context.Context, id uuid.UUID) (*prompts.Prompt, error) {
			return &p, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	for _, tc := range []struct {
		action string
		active bool
	}{
		{"activate", true},
		{"deactivate", false},
	} {
		t.Run(tc.action, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/prompts/"+p.ID.String()+"/"+tc.action, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var got prompts.Prompt
			json.NewDecoder(rec.Body).Decode(&got)
			if got.Active != tc.active {
				t.Errorf("active = %v, want %v", got.Active, tc.active)
			}
		})
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error { return nil },
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("DELETE", "/prompts/"+uuid.New().String(), nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestHandlerUpdate(t *testing.T) {
	p := samplePrompt()
	sys := &mockSystem{
		updateFn: func(_ context.Context, id uuid.UUID, cmd prompts.Command) (*prompts.Prompt, error) {
			if id != p.ID {
				return nil, prompts.ErrNotFound
			}
			out := p
			out.Instructions = cmd.Instructions
			return &out, nil
		},
	}
	mux := setupMux(newTestHandler(sys))
	body := `{"name":"strict-classify","stage":"classify","instructions":"Reject gelatin."}`

	tests := []struct {
		name string
		path string
		want int
	}{
		{"updated", "/prompts/" + p.ID.String(), http.StatusOK},
		{"missing", "/prompts/" + uuid.New().String(), http.StatusNotFound},
		{"invalid id", "/prompts/42", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("PUT", tt.path, strings.NewReader(body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
