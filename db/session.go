package db

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/gocql/gocql"
)

type QueryOptions struct {
	UserOrRole  string
	Consistency gocql.Consistency
	PageSize    int
	PageState   []byte
}

func NewQueryOptions() *QueryOptions {
	return &QueryOptions{
		Consistency: gocql.LocalOne,
	}
}

func (q *QueryOptions) WithUserOrRole(userOrRole string) *QueryOptions {
	q.UserOrRole = userOrRole
	return q
}

func (q *QueryOptions) WithConsistency(consistency gocql.Consistency) *QueryOptions {
	q.Consistency = consistency
	return q
}

func (q *QueryOptions) WithPageSize(pageSize int) *QueryOptions {
	q.PageSize = pageSize
	return q
}

func (q *QueryOptions) WithPageState(pageState []byte) *QueryOptions {
	q.PageState = pageState
	return q
}

type Session interface {
	// ExecuteIter executes a statement and returns the rows of the result set
	ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error)

	Close() error
}

type ResultSet interface {
	PageState() string
	Values() []map[string]interface{}
}

type resultSet struct {
	pageState []byte
	values    []map[string]interface{}
}

func (r *resultSet) PageState() string {
	return hex.EncodeToString(r.pageState)
}

func (r *resultSet) Values() []map[string]interface{} {
	return r.values
}

type GoCqlSession struct {
	ref *gocql.Session
}

func NewGoCqlSession(session *gocql.Session) *GoCqlSession {
	return &GoCqlSession{ref: session}
}

func (session *GoCqlSession) ExecuteIter(ctx context.Context, query string, options *QueryOptions, values ...interface{}) (ResultSet, error) {
	q := session.ref.Query(query, values...).WithContext(ctx)

	// SELECT * needs fresh metadata when columns are added
	q.NoSkipMetadata()

	if options != nil {
		q.Consistency(options.Consistency)

		if options.PageSize > 0 {
			q.PageSize(options.PageSize)
		}

		if len(options.PageState) > 0 {
			q.PageState(options.PageState)
		}

		if options.UserOrRole != "" {
			q.CustomPayload(map[string][]byte{
				"ProxyExecute": []byte(options.UserOrRole),
			})
		}
	}

	iter := q.Iter()
	columns := iter.Columns()
	scanner := iter.Scanner()

	items := make([]map[string]interface{}, 0)
	for scanner.Next() {
		row, err := scanCqlRow(scanner, columns)
		if err != nil {
			return nil, err
		}
		items = append(items, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &resultSet{
		pageState: iter.PageState(),
		values:    items,
	}, nil
}

func (session *GoCqlSession) Close() error {
	if session.ref == nil {
		return errors.New("session is not open")
	}
	session.ref.Close()
	return nil
}
