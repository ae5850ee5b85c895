package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocql/gocql"
)

// Db represents a connection to a db
type Db struct {
	session Session
}

// NewDb connects to a Cassandra cluster
func NewDb(username string, password string, hosts ...string) (*Db, error) {
	cluster := gocql.NewCluster(hosts...)

	if username != "" && password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: username,
			Password: password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	if session == nil {
		return nil, errors.New("failed to create session")
	}

	return NewDbWithSession(NewGoCqlSession(session)), nil
}

// NewSQLDb opens a relational database through a registered database/sql driver
func NewSQLDb(driverName string, dataSourceName string) (*Db, error) {
	ref, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := ref.Ping(); err != nil {
		_ = ref.Close()
		return nil, err
	}

	return NewDbWithSession(NewSQLSession(ref)), nil
}

func NewDbWithSession(session Session) *Db {
	return &Db{
		session: session,
	}
}

// Select executes a statement produced by the query builder with its bound parameters
func (db *Db) Select(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	return db.session.ExecuteIter(ctx, query, options, values...)
}

func (db *Db) Close() error {
	return db.session.Close()
}
