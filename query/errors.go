package query

import "fmt"

// ErrorKind identifies which rule of the query grammar was violated.
type ErrorKind int

const (
	UnknownField ErrorKind = iota + 1
	MalformedFilter
	MalformedSort
	InvalidLimitOffset
	MissingRequired
	MissingLimitOffset
	InvalidEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownField:
		return "unknown field"
	case MalformedFilter:
		return "malformed filter"
	case MalformedSort:
		return "malformed sort"
	case InvalidLimitOffset:
		return "invalid limit or offset"
	case MissingRequired:
		return "missing required field"
	case MissingLimitOffset:
		return "missing limit and offset"
	case InvalidEncoding:
		return "invalid encoding"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned for every query that does not satisfy the grammar or the allowlist.
// Value holds the offending field name or raw token.
type Error struct {
	Kind  ErrorKind
	Value string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnknownField:
		return fmt.Sprintf("field %q is not allowed", e.Value)
	case MalformedFilter:
		return fmt.Sprintf("filter %q must have the form field-op-value with op one of eq, ne, gt, ge, lt, le", e.Value)
	case MalformedSort:
		return fmt.Sprintf("sort %q must have the form field-asc or field-desc", e.Value)
	case InvalidLimitOffset:
		return fmt.Sprintf("%q is not a valid non-negative integer", e.Value)
	case MissingRequired:
		return fmt.Sprintf("%s is required", e.Value)
	case MissingLimitOffset:
		return "limit and offset are required"
	case InvalidEncoding:
		return fmt.Sprintf("query segment %q is not valid url encoding", e.Value)
	default:
		return e.Kind.String()
	}
}

// Is matches on Kind, and on Value too when the target carries one, so both
// errors.Is(err, ErrUnknownField) and errors.Is(err, NewUnknownFieldError("secret")) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Value == "" || t.Value == e.Value)
}

var (
	ErrUnknownField       = &Error{Kind: UnknownField}
	ErrMalformedFilter    = &Error{Kind: MalformedFilter}
	ErrMalformedSort      = &Error{Kind: MalformedSort}
	ErrInvalidLimitOffset = &Error{Kind: InvalidLimitOffset}
	ErrMissingRequired    = &Error{Kind: MissingRequired}
	ErrMissingLimitOffset = &Error{Kind: MissingLimitOffset}
	ErrInvalidEncoding    = &Error{Kind: InvalidEncoding}
)

func NewUnknownFieldError(field string) error {
	return &Error{Kind: UnknownField, Value: field}
}

func NewMalformedFilterError(raw string) error {
	return &Error{Kind: MalformedFilter, Value: raw}
}

func NewMalformedSortError(raw string) error {
	return &Error{Kind: MalformedSort, Value: raw}
}

func NewInvalidLimitOffsetError(raw string) error {
	return &Error{Kind: InvalidLimitOffset, Value: raw}
}

func NewMissingRequiredError(field string) error {
	return &Error{Kind: MissingRequired, Value: field}
}

func NewInvalidEncodingError(segment string) error {
	return &Error{Kind: InvalidEncoding, Value: segment}
}
