package translator

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/datastax/urlquery/builder"
	"github.com/datastax/urlquery/config"
	e "github.com/datastax/urlquery/rest/errors"
	"github.com/datastax/urlquery/query"
	"github.com/datastax/urlquery/types"
)

// Paging parameters of the Cassandra driver. They are removed from the
// query-string before it is parsed against the resource.
const (
	PageStateKey = "pageState"
	PageSizeKey  = "pageSize"
)

// Page is the paging state and page size requested for a Cassandra statement.
type Page struct {
	State []byte
	Size  int
}

// APITranslator serves as a translator for going from the query-string of a
// list request to a parameterized statement of the resource
type APITranslator struct {
	Resource config.Resource
	Dialect  builder.Dialect
}

func (a APITranslator) cql() bool {
	_, ok := a.Dialect.(builder.CQLDialect)
	return ok
}

// SplitPage removes pageState and pageSize from the raw query-string. Only
// statements for Cassandra can be paged this way.
func (a APITranslator) SplitPage(rawQuery string) (string, Page, error) {
	var (
		page     Page
		segments []string
	)
	for _, segment := range strings.Split(rawQuery, "&") {
		key, value := segment, ""
		if i := strings.Index(segment, "="); i >= 0 {
			key, value = segment[:i], segment[i+1:]
		}
		if key != PageStateKey && key != PageSizeKey {
			segments = append(segments, segment)
			continue
		}

		if !a.cql() {
			return "", Page{}, e.NewBadRequestError(fmt.Sprintf("%s is only supported by the cassandra driver", key))
		}

		value, err := url.QueryUnescape(value)
		if err != nil {
			return "", Page{}, query.NewInvalidEncodingError(segment)
		}
		if key == PageStateKey {
			page.State, err = hex.DecodeString(value)
			if err != nil {
				return "", Page{}, e.NewBadRequestError(fmt.Sprintf("%s %q is not a valid paging state", key, value))
			}
		} else {
			page.Size, err = strconv.Atoi(value)
			if err != nil || page.Size <= 0 {
				return "", Page{}, e.NewBadRequestError(fmt.Sprintf("%s %q must be a positive integer", key, value))
			}
		}
	}
	return strings.Join(segments, "&"), page, nil
}

// Parse validates the raw query-string against the resource: allowlist,
// required fields, supported operators and pagination. Plain fields become
// equality conditions ahead of the filters.
func (a APITranslator) Parse(rawQuery string) (*query.Query, error) {
	q, err := query.Parse(rawQuery, a.Resource.Allowed())
	if err != nil {
		return nil, err
	}

	if err := q.CheckRequired(a.Resource.Required...); err != nil {
		return nil, err
	}

	for _, name := range a.Resource.Allowed() {
		if value, ok := q.Field(name); ok && value == "" {
			return nil, e.NewBadRequestError(fmt.Sprintf("%s must have a value", name))
		}
		if _, ok := q.Values(name); ok {
			return nil, e.NewBadRequestError(fmt.Sprintf("%s[] is not supported, use filter[] instead", name))
		}
	}

	ops := a.Resource.SupportedOperators()
	for _, f := range q.Filters() {
		if !ops.Supports(f.Operator) {
			return nil, e.NewBadRequestError(fmt.Sprintf("operator %s is not supported for %s", f.Operator, f.Field))
		}
		if a.cql() && f.Operator == query.Ne {
			return nil, e.NewBadRequestError(fmt.Sprintf("operator %s is not supported by the cassandra driver", f.Operator))
		}
	}

	if err := a.checkPagination(q); err != nil {
		return nil, err
	}

	if limit, ok := q.Limit(); ok && a.Resource.MaxLimit > 0 && limit > a.Resource.MaxLimit {
		return nil, e.NewBadRequestError(fmt.Sprintf("limit must not exceed %d", a.Resource.MaxLimit))
	}

	return q.FieldsAsFilters(), nil
}

// checkPagination requires limit and offset when the resource asks for it.
// CQL has no OFFSET: Cassandra statements only take a limit and page with pageState.
func (a APITranslator) checkPagination(q *query.Query) error {
	if !a.cql() {
		if a.Resource.RequirePagination {
			_, _, err := q.CheckLimitAndOffset()
			return err
		}
		return nil
	}

	if _, ok := q.Offset(); ok {
		return e.NewBadRequestError("offset is not supported by the cassandra driver, use pageState")
	}
	if _, ok := q.Limit(); !ok && a.Resource.RequirePagination {
		return e.NewBadRequestError("limit is required")
	}
	return nil
}

// ToSelect transforms the query-string into a statement on top of the resource's base statement,
// with the conjunction of the plain fields and filters as the WHERE clause, and its typed parameters.
func (a APITranslator) ToSelect(rawQuery string) (string, []interface{}, error) {
	q, err := a.Parse(rawQuery)
	if err != nil {
		return "", nil, err
	}

	b := builder.New(a.Resource.Statement, q).WithNaming(a.Resource.Naming)
	if a.Dialect != nil {
		b.WithDialect(a.Dialect)
	}
	if a.Resource.Table != "" {
		for _, column := range a.Resource.Columns {
			b.WithTable(column.Name, a.Resource.Table)
		}
	}

	stmt, values := b.Build()

	params, err := types.Bind(q, values, a.Resource.ColumnTypes())
	if err != nil {
		return "", nil, err
	}

	return stmt, params, nil
}
