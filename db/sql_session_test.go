package db

import (
	"context"
	"database/sql"
	"math/big"
	"testing"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/inf.v0"
	_ "modernc.org/sqlite"

	"github.com/datastax/urlquery/builder"
	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/query"
	"github.com/datastax/urlquery/types"
)

func newOrdersDb(t *testing.T) *Db {
	ref, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// every connection of an in-memory database sees its own database
	ref.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE orders (user_id INTEGER, order_id INTEGER, price REAL, status TEXT)`,
		`INSERT INTO orders VALUES (123, 1, 250.0, 'open')`,
		`INSERT INTO orders VALUES (123, 2, 100.0, 'open')`,
		`INSERT INTO orders VALUES (123, 3, 300.0, 'closed')`,
		`INSERT INTO orders VALUES (456, 4, 900.0, 'open')`,
	}
	for _, stmt := range statements {
		_, err := ref.Exec(stmt)
		require.NoError(t, err)
	}

	dbClient := NewDbWithSession(NewSQLSession(ref))
	t.Cleanup(func() { _ = dbClient.Close() })
	return dbClient
}

func selectOrders(t *testing.T, dbClient *Db, raw string) []map[string]interface{} {
	resource := config.OrdersResource()
	q, err := query.Parse(raw, resource.Allowed())
	require.NoError(t, err)

	stmt, values := builder.New(resource.Statement, q).
		WithNaming(resource.Naming).
		WithDialect(builder.MySQLDialect{}).
		Build()
	params, err := types.Bind(q, values, resource.ColumnTypes())
	require.NoError(t, err)

	result, err := dbClient.Select(context.Background(), stmt, NewQueryOptions(), params...)
	require.NoError(t, err)
	assert.Equal(t, "", result.PageState())
	return result.Values()
}

func TestSQLSessionSelect(t *testing.T) {
	dbClient := newOrdersDb(t)

	rows := selectOrders(t, dbClient, "filter[]=userId-eq-123&filter[]=price-ge-200&sort=price-desc&limit=10&offset=0")
	require.Len(t, rows, 2)
	assert.Equal(t, int64(3), rows[0]["order_id"])
	assert.Equal(t, "closed", rows[0]["status"])
	assert.Equal(t, int64(1), rows[1]["order_id"])
	assert.Equal(t, 250.0, rows[1]["price"])
}

func TestSQLSessionPagination(t *testing.T) {
	dbClient := newOrdersDb(t)

	rows := selectOrders(t, dbClient, "sort[]=orderId-asc&limit=2&offset=1")
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0]["order_id"])
	assert.Equal(t, int64(3), rows[1]["order_id"])
}

func TestSQLSessionNoRows(t *testing.T) {
	dbClient := newOrdersDb(t)

	rows := selectOrders(t, dbClient, "filter[]=status-eq-cancelled")
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSQLSessionInjectionIsBound(t *testing.T) {
	dbClient := newOrdersDb(t)

	rows := selectOrders(t, dbClient, "filter[]=status-eq-open'%20OR%20'1'%3D'1")
	assert.Empty(t, rows)

	rows = selectOrders(t, dbClient, "")
	assert.Len(t, rows, 4)
}

func TestSQLSessionError(t *testing.T) {
	dbClient := newOrdersDb(t)

	_, err := dbClient.Select(context.Background(), "SELECT * FROM missing", NewQueryOptions())
	assert.Error(t, err)
}

func TestSQLSessionBindsUUIDAndDecimal(t *testing.T) {
	ref, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	ref.SetMaxOpenConns(1)

	statements := []string{
		`CREATE TABLE payments (payment_id TEXT, amount NUMERIC, units NUMERIC)`,
		`INSERT INTO payments VALUES ('8be6d514-3436-4e04-a5fc-0ffbefa4c1fe', 12.50, 3)`,
		`INSERT INTO payments VALUES ('1c2b0a2e-5e8f-4b7e-9a51-3f3c2d1e0f9a', 7.25, 1)`,
	}
	for _, stmt := range statements {
		_, err := ref.Exec(stmt)
		require.NoError(t, err)
	}
	dbClient := NewDbWithSession(NewSQLSession(ref))
	defer dbClient.Close()

	q, err := query.Parse("filter[]=paymentId-eq-8be6d514-3436-4e04-a5fc-0ffbefa4c1fe&filter[]=amount-ge-10.00&filter[]=units-gt-2",
		[]string{"paymentId", "amount", "units"})
	require.NoError(t, err)

	stmt, values := builder.New("SELECT * FROM payments", q).
		WithNaming(config.SnakeCase).
		WithDialect(builder.MySQLDialect{}).
		Build()
	params, err := types.Bind(q, values, map[string]types.ColumnType{
		"paymentId": types.TypeUUID,
		"amount":    types.TypeDecimal,
		"units":     types.TypeVarint,
	})
	require.NoError(t, err)

	result, err := dbClient.Select(context.Background(), stmt, NewQueryOptions(), params...)
	require.NoError(t, err)
	rows := result.Values()
	require.Len(t, rows, 1)
	assert.Equal(t, "8be6d514-3436-4e04-a5fc-0ffbefa4c1fe", rows[0]["payment_id"])
}

func TestDriverValues(t *testing.T) {
	id, err := gocql.ParseUUID("8be6d514-3436-4e04-a5fc-0ffbefa4c1fe")
	require.NoError(t, err)
	amount, _ := new(inf.Dec).SetString("12.50")
	units, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	assert.Equal(t, []interface{}{
		"8be6d514-3436-4e04-a5fc-0ffbefa4c1fe",
		"12.50",
		"123456789012345678901234567890",
		int64(4),
		"open",
	}, driverValues([]interface{}{id, amount, units, int64(4), "open"}))
}
