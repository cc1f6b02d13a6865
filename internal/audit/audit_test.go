package audit_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/internal/audit"
	"github.com/halalcheck/halalcheck/pkg/pagination"
	"github.com/halalcheck/halalcheck/pkg/routes"
)

var entryColumns = []string{"id", "entity_type", "entity_id", "action", "actor", "reason", "created_at"}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	entityID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO audit_logs (entity_type, entity_id, action, actor, reason)")).
		WithArgs("product_analysis", entityID, "delete", "auditor@example.com", "duplicate submission").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(uuid.NewString(), "product_analysis", entityID.String(), "delete", "auditor@example.com", "duplicate submission", now))

	e, err := audit.Record(context.Background(), db, audit.RecordCommand{
		EntityType: "product_analysis",
		EntityID:   entityID,
		Action:     audit.ActionDelete,
		Actor:      "auditor@example.com",
		Reason:     "duplicate submission",
	})
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if e.EntityID != entityID || e.Action != audit.ActionDelete || !e.CreatedAt.Equal(now) {
		t.Errorf("entry = %+v", e)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO audit_logs").WillReturnError(errors.New("relation does not exist"))

	if _, err := audit.Record(context.Background(), db, audit.RecordCommand{EntityID: uuid.New()}); err == nil {
		t.Fatal("expected error")
	}
}

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sys := audit.New(db, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	action := "delete"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM public.audit_logs l WHERE l.action = $1")).
		WithArgs("delete").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY l.created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("delete").
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(uuid.NewString(), "product_analysis", uuid.NewString(), "delete", "admin", "test data", time.Now()))

	result, err := sys.List(context.Background(), pagination.PageRequest{}, audit.Filters{Action: &action})
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if result.Total != 1 || len(result.Data) != 1 {
		t.Errorf("result = %+v", result)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	id := uuid.New()
	f := audit.FiltersFromQuery(url.Values{
		"entity_type": {"product_analysis"},
		"entity_id":   {id.String()},
		"actor":       {"admin"},
	})

	if f.EntityType == nil || *f.EntityType != "product_analysis" {
		t.Errorf("EntityType = %v", f.EntityType)
	}
	if f.EntityID == nil || *f.EntityID != id {
		t.Errorf("EntityID = %v", f.EntityID)
	}
	if f.Action != nil {
		t.Errorf("Action = %v, want nil", *f.Action)
	}
}

type mockSystem struct {
	listFn func(ctx context.Context, page pagination.PageRequest, filters audit.Filters) (*pagination.PageResult[audit.Entry], error)
	findFn func(ctx context.Context, id uuid.UUID) (*audit.Entry, error)
}

func (m *mockSystem) Handler() *audit.Handler {
	return audit.NewHandler(m, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters audit.Filters) (*pagination.PageResult[audit.Entry], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*audit.Entry, error) {
	return m.findFn(ctx, id)
}

func TestHandler(t *testing.T) {
	var got audit.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f audit.Filters) (*pagination.PageResult[audit.Entry], error) {
			got = f
			result := pagination.NewPageResult([]audit.Entry{}, 0, 1, 20)
			return &result, nil
		},
	}

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audit?action=delete", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	if got.Action == nil || *got.Action != "delete" {
		t.Errorf("action filter = %v", got.Action)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/audit/search", strings.NewReader(`{"bogus":true}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST unknown field status = %d, want 400", rec.Code)
	}
}

func TestFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	sys := audit.New(db, discard(), pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM public.audit_logs l WHERE l.id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(entryColumns).
			AddRow(id.String(), "product_analysis", uuid.NewString(), "delete", "admin", "", time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM public.audit_logs l WHERE l.id = $1")).
		WillReturnRows(sqlmock.NewRows(entryColumns))

	e, err := sys.Find(context.Background(), id)
	if err != nil {
		t.Fatalf("Find() error: %v", err)
	}
	if e.ID != id {
		t.Errorf("ID = %s, want %s", e.ID, id)
	}

	if _, err := sys.Find(context.Background(), uuid.New()); !errors.Is(err, audit.ErrNotFound) {
		t.Errorf("Find() missing error = %v, want ErrNotFound", err)
	}
}

func TestHandlerFind(t *testing.T) {
	known := uuid.New()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*audit.Entry, error) {
			if id != known {
				return nil, audit.ErrNotFound
			}
			return &audit.Entry{ID: id, Action: audit.ActionDelete}, nil
		},
	}

	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	tests := []struct {
		path string
		want int
	}{
		{"/audit/" + known.String(), http.StatusOK},
		{"/audit/" + uuid.NewString(), http.StatusNotFound},
		{"/audit/latest", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
}
