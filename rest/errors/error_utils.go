package errors

import (
	"errors"
	"net/http"

	"github.com/datastax/urlquery/query"
	"github.com/datastax/urlquery/types"
)

// StatusCode maps an error to the HTTP status returned to the client. Errors
// caused by the request are 4xx, anything else is an internal error.
func StatusCode(err error) int {
	var (
		queryErr    *query.Error
		coercionErr *types.CoercionError
		badRequest  *BadRequestError
		notFound    *NotFoundError
	)

	switch {
	case errors.As(err, &queryErr), errors.As(err, &coercionErr), errors.As(err, &badRequest):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
