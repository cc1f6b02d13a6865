package prompts

import (
	"net/url"
	"strconv"

	"github.com/halalcheck/halalcheck/pkg/query"
	"github.com/halalcheck/halalcheck/pkg/repository"
)

var projection = query.NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("stage", "Stage").
	Project("instructions", "Instructions").
	Project("description", "Description").
	Project("active", "Active").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

const returning = "RETURNING id, name, stage, instructions, description, active, created_at, updated_at"

var byStageThenName = []query.SortField{{Field: "Stage"}, {Field: "Name"}}

// Filters narrows prompt listings. Name matches case-insensitively as a
// substring; the rest match exactly.
type Filters struct {
	Stage  *Stage  `json:"stage,omitempty"`
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

func (f Filters) apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Stage", f.Stage).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery reads stage, name and active. Unknown stages and
// unparseable booleans are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if st, err := ParseStage(values.Get("stage")); err == nil {
		f.Stage = &st
	}
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if b, err := strconv.ParseBool(values.Get("active")); err == nil {
		f.Active = &b
	}
	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(&p.ID, &p.Name, &p.Stage, &p.Instructions, &p.Description, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
