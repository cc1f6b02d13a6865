package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField orders results by a projected field.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads "product_name,-analyzed_at". A leading "-" sorts
// descending. Blank input yields nil.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// filter is a WHERE fragment whose "?" marks are replaced with numbered
// parameters when the statement is rendered.
type filter struct {
	sql  string
	args []any
}

// Builder accumulates filters and ordering for one projection. Filters
// given a nil or empty value are skipped, so optional query parameters
// can be passed straight through.
type Builder struct {
	p        *ProjectionMap
	filters  []filter
	sort     []SortField
	fallback []SortField
}

// NewBuilder starts a query. defaultSort applies when OrderByFields is
// never called with a non-empty list.
func NewBuilder(p *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{p: p, fallback: defaultSort}
}

func (b *Builder) add(sql string, args ...any) *Builder {
	b.filters = append(b.filters, filter{sql: sql, args: args})
	return b
}

// WhereEquals filters field = value.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(b.p.Column(field)+" = ?", value)
}

// WhereContains filters field ILIKE %value%.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(b.p.Column(field)+" ILIKE ?", "%"+*value+"%")
}

// WhereHas filters jsonb array fields containing value.
func (b *Builder) WhereHas(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(b.p.Column(field)+" ?? ?", *value)
}

// WhereNull filters field IS NULL.
func (b *Builder) WhereNull(field string) *Builder {
	return b.add(b.p.Column(field) + " IS NULL")
}

// WhereSearch matches search against any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	ors := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		ors[i] = b.p.Column(f) + " ILIKE ?"
		args[i] = pattern
	}
	return b.add("("+strings.Join(ors, " OR ")+")", args...)
}

// OrderByFields replaces the default ordering when fields is non-empty.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// BuildCount counts the rows matching the filters.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where(1, " WHERE ")
	return "SELECT COUNT(*) FROM " + b.p.Table() + where, args
}

// BuildPage selects one ordered page of matching rows.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where(1, " WHERE ")
	sql := fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d",
		b.selectFrom(), where, b.orderBy(), pageSize, (page-1)*pageSize)
	return sql, args
}

// BuildSingle selects the row whose idField equals id, narrowed by any
// filters already added. The id is always $1.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	where, args := b.where(2, " AND ")
	sql := b.selectFrom() + " WHERE " + b.p.Column(idField) + " = $1" + where
	return sql, append([]any{id}, args...)
}

// BuildSingleOrNull selects at most one matching row.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.where(1, " WHERE ")
	return b.selectFrom() + where + " LIMIT 1", args
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.p.Columns() + " FROM " + b.p.Table()
}

func (b *Builder) orderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.fallback
	}
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, len(fields))
	for i, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		terms[i] = b.p.Column(f.Field) + dir
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// where renders the filters joined by AND, numbering parameters from
// next. "??" renders as a literal "?" for the jsonb operator.
func (b *Builder) where(next int, lead string) (string, []any) {
	if len(b.filters) == 0 {
		return "", nil
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(lead)

	for i, f := range b.filters {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		for j := 0; j < len(f.sql); j++ {
			switch {
			case f.sql[j] != '?':
				sb.WriteByte(f.sql[j])
			case j+1 < len(f.sql) && f.sql[j+1] == '?':
				sb.WriteByte('?')
				j++
			default:
				sb.WriteString("$" + strconv.Itoa(next))
				next++
			}
		}
		args = append(args, f.args...)
	}
	return sb.String(), args
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
