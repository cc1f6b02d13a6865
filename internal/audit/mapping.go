package audit

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audit_logs", "l").
	Project("id", "ID").
	Project("entity_type", "EntityType").
	Project("entity_id", "EntityID").
	Project("action", "Action").
	Project("actor", "Actor").
	Project("reason", "Reason").
	Project("created_at", "CreatedAt")

var newestFirst = query.SortField{Field: "CreatedAt", Descending: true}

// Filters narrows audit listings. Actor matches as a substring.
type Filters struct {
	EntityType *string    `json:"entity_type,omitempty"`
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Action     *string    `json:"action,omitempty"`
	Actor      *string    `json:"actor,omitempty"`
}

func (f Filters) apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("EntityType", f.EntityType).
		WhereEquals("EntityID", f.EntityID).
		WhereEquals("Action", f.Action).
		WhereContains("Actor", f.Actor)
}

// FiltersFromQuery reads entity_type, entity_id, action and actor. A
// malformed entity_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	f := Filters{
		EntityType: nonEmpty(values.Get("entity_type")),
		Action:     nonEmpty(values.Get("action")),
		Actor:      nonEmpty(values.Get("actor")),
	}
	if id, err := uuid.Parse(values.Get("entity_id")); err == nil {
		f.EntityID = &id
	}
	return f
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.Actor, &e.Reason, &e.CreatedAt)
	return e, err
}
