// Package builder renders a parsed query into SQL text with positional
// placeholders and the ordered list of raw values to bind.
package builder

import (
	"strconv"
	"strings"

	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/query"
)

// Builder renders one query on top of a base statement such as
// "SELECT * FROM orders". It is meant to be created for a single Build call.
type Builder struct {
	base    string
	query   *query.Query
	naming  config.NamingConvention
	dialect Dialect
	tables  map[string]string
}

// New returns a Builder using Postgres placeholders and no case conversion.
// The base statement is trusted and used verbatim.
func New(base string, q *query.Query) *Builder {
	return &Builder{
		base:    base,
		query:   q,
		naming:  config.Identity,
		dialect: PostgresDialect{},
	}
}

func (b *Builder) WithNaming(naming config.NamingConvention) *Builder {
	b.naming = naming
	return b
}

func (b *Builder) WithDialect(dialect Dialect) *Builder {
	b.dialect = dialect
	return b
}

// WithTable qualifies field with a table name, e.g. orders.price.
func (b *Builder) WithTable(field, table string) *Builder {
	if b.tables == nil {
		b.tables = make(map[string]string)
	}
	b.tables[field] = table
	return b
}

// Build returns the statement and the values for its placeholders, values[i]
// belonging to placeholder i+1. Values are passed through unchanged.
func (b *Builder) Build() (string, []string) {
	var sb strings.Builder
	sb.WriteString(b.base)

	values := b.buildWhere(&sb)
	b.buildGroupBy(&sb)
	b.buildOrderBy(&sb)
	b.buildLimitOffset(&sb)

	return sb.String(), values
}

func (b *Builder) buildWhere(sb *strings.Builder) []string {
	filters := b.query.Filters()
	if len(filters) == 0 {
		return []string{}
	}

	values := make([]string, 0, len(filters))
	sb.WriteString(" WHERE ")
	for i, f := range filters {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		values = append(values, f.Value)
		sb.WriteString(b.column(f.Field))
		sb.WriteString(" ")
		sb.WriteString(f.Operator.SQL())
		sb.WriteString(" ")
		sb.WriteString(b.dialect.Placeholder(len(values)))
	}
	return values
}

func (b *Builder) buildGroupBy(sb *strings.Builder) {
	groups := b.query.Groups()
	if len(groups) == 0 {
		return
	}

	columns := make([]string, len(groups))
	for i, field := range groups {
		columns[i] = b.column(field)
	}
	sb.WriteString(" GROUP BY ")
	sb.WriteString(strings.Join(columns, ", "))
}

func (b *Builder) buildOrderBy(sb *strings.Builder) {
	sorts := b.query.Sorts()
	if len(sorts) == 0 {
		return
	}

	parts := make([]string, len(sorts))
	for i, s := range sorts {
		parts[i] = b.column(s.Field) + " " + s.Direction.SQL()
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(strings.Join(parts, ", "))
}

// buildLimitOffset inlines both numbers, they were validated as non-negative integers by the parser.
func (b *Builder) buildLimitOffset(sb *strings.Builder) {
	if limit, ok := b.query.Limit(); ok {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(limit))
	}
	if offset, ok := b.query.Offset(); ok {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(offset))
	}
}

func (b *Builder) column(field string) string {
	name := b.naming.Convert(field)
	if table, ok := b.tables[field]; ok && table != "" {
		return table + "." + name
	}
	return name
}
