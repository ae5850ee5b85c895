package config

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// NamingConvention converts query field names into SQL identifiers.
// Every convention is idempotent: converting an already converted name is a no-op.
type NamingConvention int

const (
	Identity NamingConvention = iota
	SnakeCase
	LowerCamelCase
	CamelCase
	KebabCase
	ScreamingSnakeCase
)

var namingConventionNames = map[string]NamingConvention{
	"identity":        Identity,
	"snake":           SnakeCase,
	"lower_camel":     LowerCamelCase,
	"camel":           CamelCase,
	"kebab":           KebabCase,
	"screaming_snake": ScreamingSnakeCase,
}

// ParseNamingConvention maps a configuration value such as "snake" to its convention.
// An empty name selects Identity.
func ParseNamingConvention(name string) (NamingConvention, error) {
	if name == "" {
		return Identity, nil
	}
	n, ok := namingConventionNames[name]
	if !ok {
		return Identity, fmt.Errorf("invalid naming convention: %s", name)
	}
	return n, nil
}

func (n NamingConvention) String() string {
	for name, convention := range namingConventionNames {
		if convention == n {
			return name
		}
	}
	return fmt.Sprintf("NamingConvention(%d)", int(n))
}

// Convert applies the convention to a field name.
func (n NamingConvention) Convert(name string) string {
	switch n {
	case SnakeCase:
		return strcase.ToSnake(name)
	case LowerCamelCase:
		return strcase.ToLowerCamel(name)
	case CamelCase:
		return strcase.ToCamel(name)
	case KebabCase:
		return strcase.ToKebab(name)
	case ScreamingSnakeCase:
		return strcase.ToScreamingSnake(name)
	default:
		return name
	}
}
