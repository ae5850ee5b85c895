package builder

import "strconv"

// Dialect decides how positional placeholders are written.
type Dialect interface {
	// Placeholder returns the marker for the 1-based parameter index.
	Placeholder(index int) string
}

// PostgresDialect writes $1, $2, ...
type PostgresDialect struct{}

func (PostgresDialect) Placeholder(index int) string {
	return "$" + strconv.Itoa(index)
}

// MySQLDialect writes ? for every parameter. SQLite accepts the same form.
type MySQLDialect struct{}

func (MySQLDialect) Placeholder(int) string {
	return "?"
}

// CQLDialect writes ? like MySQLDialect. Statements for Cassandra are rendered
// with it so callers can refuse what CQL cannot express, such as OFFSET.
type CQLDialect struct{}

func (CQLDialect) Placeholder(int) string {
	return "?"
}
