package rest

import (
	"github.com/datastax/urlquery/builder"
	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/db"
	restEndpointV1 "github.com/datastax/urlquery/rest/endpoint/v1"
	"github.com/datastax/urlquery/types"
	"github.com/prometheus/client_golang/prometheus"
)

type RouteGenerator struct {
	dbClient *db.Db
	registry *config.Registry
	dialect  builder.Dialect
	config   config.Config
	metrics  *restEndpointV1.Metrics
}

func NewRouteGenerator(
	dbClient *db.Db,
	registry *config.Registry,
	dialect builder.Dialect,
	cfg config.Config,
	registerer prometheus.Registerer,
) *RouteGenerator {
	return &RouteGenerator{
		dbClient: dbClient,
		registry: registry,
		dialect:  dialect,
		config:   cfg,
		metrics:  restEndpointV1.NewMetrics(registerer),
	}
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	return restEndpointV1.Routes(prefix, g.registry, g.dbClient, g.dialect, g.config.Logger(), g.metrics)
}
