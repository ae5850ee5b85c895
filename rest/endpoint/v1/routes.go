package endpoint

import (
	"net/http"

	"github.com/datastax/urlquery/builder"
	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/db"
	"github.com/datastax/urlquery/log"
	"github.com/datastax/urlquery/types"
	"github.com/julienschmidt/httprouter"
)

const (
	ResourcesPathFormat = "/v1/resources"
	RowsPathFormat      = "/v1/resources/%s/rows"
)

type routeList struct {
	registry *config.Registry
	dbClient *db.Db
	dialect  builder.Dialect
	logger   log.Logger
	metrics  *Metrics
	params   func(*http.Request, string) string
}

// Routes returns a slice of all the endpoint routes
func Routes(
	prefix string,
	registry *config.Registry,
	dbClient *db.Db,
	dialect builder.Dialect,
	logger log.Logger,
	metrics *Metrics,
) []types.Route {
	rl := routeList{
		registry: registry,
		dbClient: dbClient,
		dialect:  dialect,
		logger:   logger,
		metrics:  metrics,
		params:   httpRouterParams,
	}

	return []types.Route{
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/resources",
			Handler: http.HandlerFunc(rl.GetResources),
		},
		{
			Method:  http.MethodGet,
			Pattern: prefix + "/v1/resources/:resourceName/rows",
			Handler: http.HandlerFunc(rl.GetRows),
		},
	}
}

func httpRouterParams(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}
