package config

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/mitchellh/mapstructure"

	"github.com/datastax/urlquery/types"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	uni := ut.New(en.New(), en.New())
	trans, _ = uni.GetTranslator("en")

	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	_ = validate.RegisterTranslation("required", trans, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is a required field", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})
}

// Column is a field that may appear in the query-string of a resource.
type Column struct {
	Name string           `mapstructure:"name" validate:"required"`
	Type types.ColumnType `mapstructure:"type" validate:"required"`
}

// Resource describes a filterable list endpoint backed by a base statement.
type Resource struct {
	Name      string `mapstructure:"name" validate:"required"`
	Statement string `mapstructure:"statement" validate:"required"`
	// Table qualifies every column in the generated clauses when set
	Table             string           `mapstructure:"table"`
	Columns           []Column         `mapstructure:"columns" validate:"required,min=1,dive"`
	Required          []string         `mapstructure:"required"`
	Naming            NamingConvention `mapstructure:"naming"`
	Operators         Operators        `mapstructure:"operators"`
	RequirePagination bool             `mapstructure:"require-pagination"`
	MaxLimit          int              `mapstructure:"max-limit" validate:"gte=0"`
}

// Allowed returns the column names, which form the allowlist of the resource.
func (r Resource) Allowed() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

// ColumnTypes maps column names to their declared types.
func (r Resource) ColumnTypes() map[string]types.ColumnType {
	columns := make(map[string]types.ColumnType, len(r.Columns))
	for _, c := range r.Columns {
		columns[c.Name] = c.Type
	}
	return columns
}

// SupportedOperators defaults to every operator when none were configured.
func (r Resource) SupportedOperators() Operators {
	if r.Operators == 0 {
		return AllOperators
	}
	return r.Operators
}

// ValidateResource checks the struct constraints and that required fields are declared columns.
func ValidateResource(r Resource) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("resource %q: %v", r.Name, TranslateValidatorError(err))
	}

	columns := r.ColumnTypes()
	if len(columns) != len(r.Columns) {
		return fmt.Errorf("resource %q: duplicate column name", r.Name)
	}
	for _, name := range r.Required {
		if _, ok := columns[name]; !ok {
			return fmt.Errorf("resource %q: required field %s is not a column", r.Name, name)
		}
	}
	return nil
}

// ValidateResources validates every resource and rejects duplicate names.
func ValidateResources(resources []Resource) error {
	seen := make(map[string]bool, len(resources))
	for _, r := range resources {
		if err := ValidateResource(r); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate resource: %s", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// TranslateValidatorError converts the errors of the go-playground validator into a single readable error.
func TranslateValidatorError(err error) error {
	switch err.(type) {
	case validator.ValidationErrors:
		errs := (err.(validator.ValidationErrors)).Translate(trans)

		vals := make([]string, 0, len(errs))
		for _, value := range errs {
			vals = append(vals, value)
		}
		sort.Strings(vals)

		return errors.New(strings.Join(vals, " "))
	default:
		return err
	}
}

// DecodeHook converts the plain values of a configuration file into naming
// conventions, column types and operator sets.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNamingConvention,
		stringToColumnType,
		stringsToOperators,
	)
}

func stringToNamingConvention(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Identity) {
		return data, nil
	}
	return ParseNamingConvention(data.(string))
}

func stringToColumnType(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(types.TypeText) {
		return data, nil
	}
	return types.ParseColumnType(data.(string))
}

func stringsToOperators(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(AllOperators) {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		return Ops(strings.Split(v, ",")...)
	case []string:
		return Ops(v...)
	case []interface{}:
		ops := make([]string, len(v))
		for i, op := range v {
			ops[i] = fmt.Sprint(op)
		}
		return Ops(ops...)
	}
	return data, nil
}
