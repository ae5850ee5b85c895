package db

import (
	"context"
	"database/sql"
	"math/big"

	"github.com/gocql/gocql"
	"gopkg.in/inf.v0"
)

// SQLSession executes statements through database/sql, for relational stores
// such as SQLite, MySQL or Postgres.
type SQLSession struct {
	ref *sql.DB
}

func NewSQLSession(db *sql.DB) *SQLSession {
	return &SQLSession{ref: db}
}

func (session *SQLSession) ExecuteIter(ctx context.Context, query string, _ *QueryOptions, values ...interface{}) (ResultSet, error) {
	rows, err := session.ref.QueryContext(ctx, query, driverValues(values)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	items := make([]map[string]interface{}, 0)
	for rows.Next() {
		dest := make([]interface{}, len(columns))
		for i := range dest {
			dest[i] = new(interface{})
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, name := range columns {
			value := *(dest[i].(*interface{}))
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			row[name] = value
		}
		items = append(items, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &resultSet{values: items}, nil
}

// driverValues replaces the bind values database/sql cannot convert with their text form.
func driverValues(values []interface{}) []interface{} {
	converted := make([]interface{}, len(values))
	for i, value := range values {
		switch v := value.(type) {
		case gocql.UUID:
			converted[i] = v.String()
		case *inf.Dec:
			converted[i] = v.String()
		case *big.Int:
			converted[i] = v.String()
		default:
			converted[i] = value
		}
	}
	return converted
}

func (session *SQLSession) Close() error {
	return session.ref.Close()
}
