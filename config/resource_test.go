package config

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datastax/urlquery/types"
)

func TestResourceAllowed(t *testing.T) {
	r := OrdersResource()
	assert.Equal(t, []string{"orderId", "price", "status", "userId"}, r.Allowed())
	assert.Equal(t, types.TypeDouble, r.ColumnTypes()["price"])
	assert.Equal(t, AllOperators, r.SupportedOperators())

	r.Operators = OpEq
	assert.Equal(t, OpEq, r.SupportedOperators())
}

func TestValidateResource(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Resource)
		wantErr string
	}{
		{
			name:   "Valid",
			modify: func(r *Resource) {},
		},
		{
			name:    "Missing statement",
			modify:  func(r *Resource) { r.Statement = "" },
			wantErr: `resource "orders": Statement is a required field`,
		},
		{
			name:    "No columns",
			modify:  func(r *Resource) { r.Columns = nil },
			wantErr: `resource "orders": Columns is a required field`,
		},
		{
			name:    "Column without type",
			modify:  func(r *Resource) { r.Columns[0].Type = "" },
			wantErr: `resource "orders": Type is a required field`,
		},
		{
			name:    "Negative max limit",
			modify:  func(r *Resource) { r.MaxLimit = -1 },
			wantErr: `resource "orders": MaxLimit must be 0 or greater`,
		},
		{
			name: "Duplicate column",
			modify: func(r *Resource) {
				r.Columns = append(r.Columns, Column{Name: "price", Type: types.TypeInt})
			},
			wantErr: `resource "orders": duplicate column name`,
		},
		{
			name:    "Required field is not a column",
			modify:  func(r *Resource) { r.Required = []string{"customerId"} },
			wantErr: `resource "orders": required field customerId is not a column`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := OrdersResource()
			tt.modify(&r)
			err := ValidateResource(r)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidateResourcesDuplicateName(t *testing.T) {
	err := ValidateResources([]Resource{OrdersResource(), OrdersResource()})
	assert.EqualError(t, err, "duplicate resource: orders")
}

func TestDecodeHook(t *testing.T) {
	raw := map[string]interface{}{
		"name":      "orders",
		"statement": "SELECT * FROM orders",
		"table":     "o",
		"columns": []interface{}{
			map[string]interface{}{"name": "userId", "type": "int"},
			map[string]interface{}{"name": "createdAt", "type": "timestamp"},
		},
		"required":           []interface{}{"userId"},
		"naming":             "snake",
		"operators":          []interface{}{"eq", "ge"},
		"require-pagination": true,
		"max-limit":          100,
	}

	var r Resource
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: DecodeHook(),
		Result:     &r,
	})
	require.NoError(t, err)
	require.NoError(t, decoder.Decode(raw))

	assert.Equal(t, Resource{
		Name:      "orders",
		Statement: "SELECT * FROM orders",
		Table:     "o",
		Columns: []Column{
			{Name: "userId", Type: types.TypeInt},
			{Name: "createdAt", Type: types.TypeTimestamp},
		},
		Required:          []string{"userId"},
		Naming:            SnakeCase,
		Operators:         OpEq | OpGe,
		RequirePagination: true,
		MaxLimit:          100,
	}, r)
	assert.NoError(t, ValidateResource(r))
}

func TestDecodeHookErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{name: "Naming", raw: map[string]interface{}{"naming": "pascal"}},
		{name: "Column type", raw: map[string]interface{}{"columns": []interface{}{map[string]interface{}{"name": "a", "type": "json"}}}},
		{name: "Operators", raw: map[string]interface{}{"operators": "eq,like"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Resource
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				DecodeHook: DecodeHook(),
				Result:     &r,
			})
			require.NoError(t, err)
			assert.Error(t, decoder.Decode(tt.raw))
		})
	}
}
