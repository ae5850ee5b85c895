package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Reserved keys. They are interpreted by Parse and are never checked against the allowlist themselves.
const (
	FilterKey = "filter"
	SortKey   = "sort"
	GroupKey  = "group"
	LimitKey  = "limit"
	OffsetKey = "offset"
)

// Query is the validated form of a raw query-string. It is immutable once
// returned by Parse and safe for concurrent use.
type Query struct {
	fields  map[string]string
	lists   map[string][]string
	filters []Filter
	sorts   []Sort
	groups  []string

	limit     int
	hasLimit  bool
	offset    int
	hasOffset bool

	allowed map[string]bool
}

// Parse splits raw and validates every token against allowed. The first
// violation is returned and no Query is built.
func Parse(raw string, allowed []string) (*Query, error) {
	tokens, err := Split(raw)
	if err != nil {
		return nil, err
	}

	q := &Query{
		fields:  make(map[string]string),
		lists:   make(map[string][]string),
		allowed: make(map[string]bool, len(allowed)),
	}
	for _, name := range allowed {
		q.allowed[name] = true
	}

	for _, token := range tokens {
		if err := q.add(token); err != nil {
			return nil, err
		}
	}

	return q, nil
}

func (q *Query) add(token Token) error {
	switch {
	case token.Name == FilterKey && token.List:
		for _, raw := range token.Values {
			filter, err := ParseFilter(raw)
			if err != nil {
				return err
			}
			if err := q.checkAllowed(filter.Field); err != nil {
				return err
			}
			q.filters = append(q.filters, filter)
		}
	case token.Name == SortKey:
		for _, raw := range token.Values {
			s, err := ParseSort(raw)
			if err != nil {
				return err
			}
			if err := q.checkAllowed(s.Field); err != nil {
				return err
			}
			q.sorts = append(q.sorts, s)
		}
	case token.Name == GroupKey:
		for _, field := range token.Values {
			if err := q.checkAllowed(field); err != nil {
				return err
			}
			q.groups = append(q.groups, field)
		}
	case token.Name == LimitKey && !token.List:
		n, err := parseCount(token.Value())
		if err != nil {
			return err
		}
		q.limit, q.hasLimit = n, true
	case token.Name == OffsetKey && !token.List:
		n, err := parseCount(token.Value())
		if err != nil {
			return err
		}
		q.offset, q.hasOffset = n, true
	default:
		if err := q.checkAllowed(token.Name); err != nil {
			return err
		}
		if token.List {
			q.lists[token.Name] = append([]string(nil), token.Values...)
		} else {
			q.fields[token.Name] = token.Value()
		}
	}
	return nil
}

func (q *Query) checkAllowed(field string) error {
	if !q.allowed[field] {
		return NewUnknownFieldError(field)
	}
	return nil
}

// parseCount accepts unsigned decimal integers that fit in an int.
func parseCount(raw string) (int, error) {
	n, err := strconv.ParseUint(raw, 10, strconv.IntSize-1)
	if err != nil {
		return 0, NewInvalidLimitOffsetError(raw)
	}
	return int(n), nil
}

// CheckRequired returns a MissingRequired error for the first name that is
// neither a plain nor a list field of the query. Filters and sorts on that name do not count.
func (q *Query) CheckRequired(names ...string) error {
	for _, name := range names {
		if _, ok := q.fields[name]; ok {
			continue
		}
		if _, ok := q.lists[name]; ok {
			continue
		}
		return NewMissingRequiredError(name)
	}
	return nil
}

// CheckLimitAndOffset returns limit and offset when both were supplied.
func (q *Query) CheckLimitAndOffset() (limit int, offset int, err error) {
	if !q.hasLimit || !q.hasOffset {
		return 0, 0, ErrMissingLimitOffset
	}
	return q.limit, q.offset, nil
}

// Field returns the value of a plain field.
func (q *Query) Field(name string) (string, bool) {
	v, ok := q.fields[name]
	return v, ok
}

// Fields returns a copy of the plain single valued fields.
func (q *Query) Fields() map[string]string {
	fields := make(map[string]string, len(q.fields))
	for k, v := range q.fields {
		fields[k] = v
	}
	return fields
}

// Values returns the values of a name[] field in the order they appeared.
func (q *Query) Values(name string) ([]string, bool) {
	values, ok := q.lists[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), values...), true
}

func (q *Query) Filters() []Filter {
	return append([]Filter(nil), q.filters...)
}

func (q *Query) Sorts() []Sort {
	return append([]Sort(nil), q.sorts...)
}

func (q *Query) Groups() []string {
	return append([]string(nil), q.groups...)
}

func (q *Query) Limit() (int, bool) {
	return q.limit, q.hasLimit
}

func (q *Query) Offset() (int, bool) {
	return q.offset, q.hasOffset
}

// FieldsAsFilters returns a copy of the query where every plain field becomes
// an Eq filter, in field name order and ahead of the existing filters. The
// receiver is left unchanged.
func (q *Query) FieldsAsFilters() *Query {
	c := &Query{
		fields:    make(map[string]string),
		lists:     make(map[string][]string, len(q.lists)),
		filters:   make([]Filter, 0, len(q.fields)+len(q.filters)),
		sorts:     q.Sorts(),
		groups:    q.Groups(),
		limit:     q.limit,
		hasLimit:  q.hasLimit,
		offset:    q.offset,
		hasOffset: q.hasOffset,
		allowed:   q.allowed,
	}
	for name, values := range q.lists {
		c.lists[name] = append([]string(nil), values...)
	}
	for _, name := range sortedKeys(q.fields) {
		c.filters = append(c.filters, Filter{Field: name, Operator: Eq, Value: q.fields[name]})
	}
	c.filters = append(c.filters, q.filters...)
	return c
}

// Allows reports whether name was part of the allowlist given to Parse.
func (q *Query) Allows(name string) bool {
	return q.allowed[name]
}

// Encode serializes the query back to a query-string. Plain fields and then
// list fields come first sorted by name, followed by filters, sorts and groups
// in their original order.
func (q *Query) Encode() string {
	var parts []string

	for _, name := range sortedKeys(q.fields) {
		parts = append(parts, encodePair(name, q.fields[name]))
	}

	listNames := make([]string, 0, len(q.lists))
	for name := range q.lists {
		listNames = append(listNames, name)
	}
	sort.Strings(listNames)
	for _, name := range listNames {
		for _, v := range q.lists[name] {
			parts = append(parts, encodePair(name+listSuffix, v))
		}
	}

	for _, f := range q.filters {
		parts = append(parts, encodePair(FilterKey+listSuffix, f.String()))
	}
	for _, s := range q.sorts {
		parts = append(parts, encodePair(SortKey+listSuffix, s.String()))
	}
	for _, g := range q.groups {
		parts = append(parts, encodePair(GroupKey+listSuffix, g))
	}
	if q.hasLimit {
		parts = append(parts, encodePair(LimitKey, strconv.Itoa(q.limit)))
	}
	if q.hasOffset {
		parts = append(parts, encodePair(OffsetKey, strconv.Itoa(q.offset)))
	}

	return strings.Join(parts, "&")
}

func (q *Query) String() string {
	return q.Encode()
}

func encodePair(key, value string) string {
	// brackets are left readable, the splitter decodes them either way
	return strings.Replace(url.QueryEscape(key), "%5B%5D", listSuffix, 1) + "=" + url.QueryEscape(value)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
