package query

import (
	"net/url"
	"strings"
)

const listSuffix = "[]"

// Token is a decoded query-string key together with its values.
// List tokens come from name[] keys, or from the sort and group keys in either
// form, and keep every value in order; plain tokens keep only the last value written.
type Token struct {
	Name   string
	Values []string
	List   bool
}

// Value returns the last value of the token.
func (t Token) Value() string {
	if len(t.Values) == 0 {
		return ""
	}
	return t.Values[len(t.Values)-1]
}

// Split decodes a raw query-string into tokens ordered by the first appearance
// of each key. An empty string yields no tokens.
func Split(raw string) ([]Token, error) {
	tokens := make([]Token, 0)
	index := make(map[string]int)

	for _, segment := range strings.Split(raw, "&") {
		if segment == "" {
			continue
		}

		key, value := segment, ""
		if i := strings.Index(segment, "="); i >= 0 {
			key, value = segment[:i], segment[i+1:]
		}

		key, err := url.QueryUnescape(key)
		if err != nil {
			return nil, NewInvalidEncodingError(segment)
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			return nil, NewInvalidEncodingError(segment)
		}

		list := strings.HasSuffix(key, listSuffix)
		if list {
			key = strings.TrimSuffix(key, listSuffix)
		}
		// sort and group entries keep segment order whichever key form is used
		if key == SortKey || key == GroupKey {
			list = true
		}

		id := key
		if list {
			id += listSuffix
		}

		if i, ok := index[id]; ok {
			if list {
				tokens[i].Values = append(tokens[i].Values, value)
			} else {
				tokens[i].Values[0] = value
			}
			continue
		}

		index[id] = len(tokens)
		tokens = append(tokens, Token{Name: key, Values: []string{value}, List: list})
	}

	return tokens, nil
}
