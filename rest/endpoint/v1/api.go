package endpoint

import (
	"fmt"
	"net/http"
	"time"

	"github.com/datastax/urlquery/auth"
	"github.com/datastax/urlquery/db"
	e "github.com/datastax/urlquery/rest/errors"
	m "github.com/datastax/urlquery/rest/models"
	t "github.com/datastax/urlquery/rest/translator"
)

func (s *routeList) GetResources(w http.ResponseWriter, r *http.Request) {
	RespondJSONObjectWithCode(w, http.StatusOK, m.Resources{Resources: s.registry.Names()})
}

// GetRows filters, sorts and pages the rows of a resource as described by the query-string
func (s *routeList) GetRows(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resourceName := s.params(r, "resourceName")

	resource, ok := s.registry.Get(resourceName)
	if !ok {
		// unknown names are not used as metric labels
		s.respondWithError(w, "unknown", start, e.NewNotFoundError(fmt.Sprintf("resource %s not found", resourceName)))
		return
	}

	translator := t.APITranslator{Resource: resource, Dialect: s.dialect}
	rawQuery, page, err := translator.SplitPage(r.URL.RawQuery)
	if err != nil {
		s.respondWithError(w, resourceName, start, err)
		return
	}

	stmt, params, err := translator.ToSelect(rawQuery)
	if err != nil {
		s.respondWithError(w, resourceName, start, err)
		return
	}

	options := db.NewQueryOptions().
		WithUserOrRole(auth.ContextUserOrRole(r.Context())).
		WithPageSize(page.Size).
		WithPageState(page.State)
	result, err := s.dbClient.Select(r.Context(), stmt, options, params...)
	if err != nil {
		s.logger.Error("unable to query rows",
			"resource", resourceName,
			"statement", stmt,
			"error", err)
		s.respondWithError(w, resourceName, start, e.NewInternalError("unable to query rows"))
		return
	}

	rows := result.Values()
	s.metrics.observe(resourceName, http.StatusOK, start)
	RespondJSONObjectWithCode(w, http.StatusOK, m.Rows{
		Rows:      rows,
		PageState: result.PageState(),
		Count:     len(rows),
	})
}

func (s *routeList) respondWithError(w http.ResponseWriter, resourceName string, start time.Time, err error) {
	code := e.StatusCode(err)
	if code < http.StatusInternalServerError {
		s.logger.Debug("rejected request", "resource", resourceName, "error", err)
	}
	s.metrics.observe(resourceName, code, start)
	RespondWithError(w, err, code)
}
