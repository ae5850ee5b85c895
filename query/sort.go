package query

import "strings"

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection accepts the lowercase tokens "asc" and "desc" only.
func ParseDirection(token string) (Direction, bool) {
	switch token {
	case "asc":
		return Ascending, true
	case "desc":
		return Descending, true
	}
	return Ascending, false
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SQL returns ASC or DESC.
func (d Direction) SQL() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Sort orders results by a single field.
type Sort struct {
	Field     string
	Direction Direction
}

// ParseSort parses a field-direction entry. The direction follows the last separator.
func ParseSort(raw string) (Sort, error) {
	i := strings.LastIndex(raw, Separator)
	if i <= 0 {
		return Sort{}, NewMalformedSortError(raw)
	}

	dir, ok := ParseDirection(raw[i+len(Separator):])
	if !ok {
		return Sort{}, NewMalformedSortError(raw)
	}

	return Sort{Field: raw[:i], Direction: dir}, nil
}

func (s Sort) String() string {
	return s.Field + Separator + s.Direction.String()
}
