package ingredients_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/ingredients"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

type mockSystem struct {
	listFn   func(ctx context.Context, page pagination.PageRequest, filters ingredients.Filters) (*pagination.PageResult[ingredients.Ingredient], error)
	findFn   func(ctx context.Context, id uuid.UUID) (*ingredients.Ingredient, error)
	createFn func(ctx context.Context, cmd ingredients.CreateCommand) (*ingredients.Ingredient, error)
	updateFn func(ctx context.Context, id uuid.UUID, cmd ingredients.UpdateCommand) (*ingredients.Ingredient, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	lookupFn func(ctx context.Context, name, language string) (*ingredients.Match, error)
}

func (m *mockSystem) Handler() *ingredients.Handler { return newTestHandler(m) }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters ingredients.Filters) (*pagination.PageResult[ingredients.Ingredient], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*ingredients.Ingredient, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd ingredients.CreateCommand) (*ingredients.Ingredient, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Update(ctx context.Context, id uuid.UUID, cmd ingredients.UpdateCommand) (*ingredients.Ingredient, error) {
	return m.updateFn(ctx, id, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Lookup(ctx context.Context, name, language string) (*ingredients.Match, error) {
	return m.lookupFn(ctx, name, language)
}

func newTestHandler(sys ingredients.System) *ingredients.Handler {
	return ingredients.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func serve(sys *mockSystem, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerLookup(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		var gotName, gotLang string
		sys := &mockSystem{
			lookupFn: func(_ context.Context, name, language string) (*ingredients.Match, error) {
				gotName, gotLang = name, language
				return &ingredients.Match{
					Ingredient: ingredients.Ingredient{Name: "Carmine", Status: ingredients.StatusMashbooh, RiskLevel: ingredients.RiskMedium},
					Tier:       ingredients.TierENumber,
				}, nil
			},
		}

		rec := serve(sys, httptest.NewRequest(http.MethodGet, "/ingredients/lookup?name=E120&language=en", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if gotName != "E120" || gotLang != "en" {
			t.Errorf("lookup called with %q, %q", gotName, gotLang)
		}

		var m ingredients.Match
		if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if m.Tier != ingredients.TierENumber || m.Ingredient.Status != ingredients.StatusMashbooh {
			t.Errorf("match = %+v", m)
		}
	})

	t.Run("no match", func(t *testing.T) {
		sys := &mockSystem{
			lookupFn: func(context.Context, string, string) (*ingredients.Match, error) { return nil, nil },
		}
		rec := serve(sys, httptest.NewRequest(http.MethodGet, "/ingredients/lookup?name=unobtainium", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		sys := &mockSystem{}
		rec := serve(sys, httptest.NewRequest(http.MethodGet, "/ingredients/lookup?name=%20", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandlerCreate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd ingredients.CreateCommand) (*ingredients.Ingredient, error) {
				return &ingredients.Ingredient{ID: uuid.New(), Name: cmd.Name, Status: cmd.Status, RiskLevel: cmd.RiskLevel}, nil
			},
		}
		body := `{"name":"Salt","status":"halal","risk_level":"LOW","confidence":0.95,"reasoning":"Mineral."}`
		rec := serve(sys, httptest.NewRequest(http.MethodPost, "/ingredients", strings.NewReader(body)))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}

		var ing ingredients.Ingredient
		if err := json.NewDecoder(rec.Body).Decode(&ing); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ing.Status != ingredients.StatusHalal {
			t.Errorf("status = %q, want HALAL", ing.Status)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		sys := &mockSystem{}
		body := `{"name":"Salt","status":"kosher","risk_level":"LOW","reasoning":"Mineral."}`
		rec := serve(sys, httptest.NewRequest(http.MethodPost, "/ingredients", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(context.Context, ingredients.CreateCommand) (*ingredients.Ingredient, error) {
				return nil, ingredients.ErrDuplicate
			},
		}
		body := `{"name":"Salt","status":"HALAL","risk_level":"LOW","reasoning":"Mineral."}`
		rec := serve(sys, httptest.NewRequest(http.MethodPost, "/ingredients", strings.NewReader(body)))
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})
}

func TestHandlerFind(t *testing.T) {
	id := uuid.New()

	sys := &mockSystem{
		findFn: func(_ context.Context, got uuid.UUID) (*ingredients.Ingredient, error) {
			if got != id {
				return nil, ingredients.ErrNotFound
			}
			return &ingredients.Ingredient{ID: id, Name: "Beef"}, nil
		},
	}

	if rec := serve(sys, httptest.NewRequest(http.MethodGet, "/ingredients/"+id.String(), nil)); rec.Code != http.StatusOK {
		t.Errorf("found status = %d, want 200", rec.Code)
	}
	if rec := serve(sys, httptest.NewRequest(http.MethodGet, "/ingredients/"+uuid.NewString(), nil)); rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
	if rec := serve(sys, httptest.NewRequest(http.MethodGet, "/ingredients/not-a-uuid", nil)); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}

func TestHandlerSearch(t *testing.T) {
	var got ingredients.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, filters ingredients.Filters) (*pagination.PageResult[ingredients.Ingredient], error) {
			got = filters
			result := pagination.NewPageResult([]ingredients.Ingredient{}, 0, 1, 20)
			return &result, nil
		},
	}

	body := `{"page":1,"page_size":10,"status":"HARAM","category":"gelling agent"}`
	rec := serve(sys, httptest.NewRequest(http.MethodPost, "/ingredients/search", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if got.Status == nil || *got.Status != ingredients.StatusHaram {
		t.Errorf("status filter = %v", got.Status)
	}
	if got.Category == nil || *got.Category != "gelling agent" {
		t.Errorf("category filter = %v", got.Category)
	}
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(context.Context, uuid.UUID) error { return errors.New("db down") },
	}
	rec := serve(sys, httptest.NewRequest(http.MethodDelete, "/ingredients/"+uuid.NewString(), nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
