package query

import "strings"

// Separator splits the parts of filter and sort entries.
const Separator = "-"

// Operator is the closed set of comparisons a filter entry can express.
type Operator int

const (
	Eq Operator = iota
	Ne
	Gt
	Ge
	Lt
	Le
)

var operatorTokens = map[string]Operator{
	"eq": Eq,
	"ne": Ne,
	"gt": Gt,
	"ge": Ge,
	"lt": Lt,
	"le": Le,
}

// ParseOperator maps a wire token such as "ge" to its Operator.
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorTokens[token]
	return op, ok
}

// String returns the wire token of the operator.
func (o Operator) String() string {
	switch o {
	case Eq:
		return "eq"
	case Ne:
		return "ne"
	case Gt:
		return "gt"
	case Ge:
		return "ge"
	case Lt:
		return "lt"
	case Le:
		return "le"
	}
	return ""
}

// SQL returns the SQL comparison operator.
func (o Operator) SQL() string {
	switch o {
	case Eq:
		return "="
	case Ne:
		return "!="
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Lt:
		return "<"
	case Le:
		return "<="
	}
	return ""
}

// Filter is one field-op-value condition. Filters of a query are ANDed in order.
type Filter struct {
	Field    string
	Operator Operator
	Value    string
}

// ParseFilter parses a filter[] entry. Only the first two separators are
// significant, the value keeps any further hyphens (uuids, dates, negative numbers).
func ParseFilter(raw string) (Filter, error) {
	parts := strings.SplitN(raw, Separator, 3)
	if len(parts) != 3 {
		return Filter{}, NewMalformedFilterError(raw)
	}

	field, token, value := parts[0], parts[1], parts[2]
	if field == "" || value == "" {
		return Filter{}, NewMalformedFilterError(raw)
	}

	op, ok := ParseOperator(token)
	if !ok {
		return Filter{}, NewMalformedFilterError(raw)
	}

	return Filter{Field: field, Operator: op, Value: value}, nil
}

// String returns the filter in its wire form.
func (f Filter) String() string {
	return f.Field + Separator + f.Operator.String() + Separator + f.Value
}
