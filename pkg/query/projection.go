// Package query assembles parameterized PostgreSQL SELECT statements from
// a table projection and a set of optional filters.
package query

import "strings"

// ProjectionMap binds Go field names to alias-qualified columns of one
// table. Column order follows the Project calls, which is also the order
// rows must be scanned in.
type ProjectionMap struct {
	table   string
	alias   string
	byField map[string]string
	columns []string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		table:   schema + "." + table,
		alias:   alias,
		byField: map[string]string{},
	}
}

// Project maps column to field and appends it to the select list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.columns = append(p.columns, qualified)
	return p
}

func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Table is the FROM target, "schema.table alias".
func (p *ProjectionMap) Table() string {
	return p.table + " " + p.alias
}

// Column resolves a field name. Unknown names pass through unchanged so
// callers may hand in raw column expressions.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columns, ", ")
}

func (p *ProjectionMap) ColumnList() []string {
	return p.columns
}
