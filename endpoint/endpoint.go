package endpoint

import (
	"fmt"

	"github.com/datastax/urlquery/builder"
	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/db"
	"github.com/datastax/urlquery/log"
	"github.com/datastax/urlquery/rest"
	"github.com/datastax/urlquery/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// CassandraDriver selects gocql instead of a database/sql driver.
const CassandraDriver = "cassandra"

type QueryEndpointConfig struct {
	dbHosts    []string
	dbUsername string
	dbPassword string
	driver     string
	dsn        string
	dialect    string
	resources  []config.Resource
	registry   *prometheus.Registry
	logger     log.Logger
}

func (cfg QueryEndpointConfig) Resources() []config.Resource {
	return cfg.resources
}

func (cfg QueryEndpointConfig) Logger() log.Logger {
	return cfg.logger
}

func (cfg *QueryEndpointConfig) WithResources(resources []config.Resource) *QueryEndpointConfig {
	cfg.resources = resources
	return cfg
}

func (cfg *QueryEndpointConfig) WithDbUsername(dbUsername string) *QueryEndpointConfig {
	cfg.dbUsername = dbUsername
	return cfg
}

func (cfg *QueryEndpointConfig) WithDbPassword(dbPassword string) *QueryEndpointConfig {
	cfg.dbPassword = dbPassword
	return cfg
}

// WithSQLDriver uses a registered database/sql driver and data source instead of Cassandra hosts.
func (cfg *QueryEndpointConfig) WithSQLDriver(driver string, dsn string) *QueryEndpointConfig {
	cfg.driver = driver
	cfg.dsn = dsn
	return cfg
}

// WithDialect sets the placeholder style: "postgres", "mysql" or "sqlite" for
// database/sql drivers, "cql" for Cassandra.
func (cfg *QueryEndpointConfig) WithDialect(dialect string) *QueryEndpointConfig {
	cfg.dialect = dialect
	return cfg
}

func (cfg *QueryEndpointConfig) WithMetricsRegistry(registry *prometheus.Registry) *QueryEndpointConfig {
	cfg.registry = registry
	return cfg
}

func (cfg QueryEndpointConfig) NewEndpoint() (*QueryEndpoint, error) {
	var (
		dbClient *db.Db
		err      error
	)
	if cfg.driver == CassandraDriver {
		dbClient, err = db.NewDb(cfg.dbUsername, cfg.dbPassword, cfg.dbHosts...)
	} else {
		dbClient, err = db.NewSQLDb(cfg.driver, cfg.dsn)
	}
	if err != nil {
		return nil, err
	}
	return cfg.newEndpointOrClose(dbClient)
}

// newEndpointOrClose closes dbClient when the endpoint cannot be built on top of it.
func (cfg QueryEndpointConfig) newEndpointOrClose(dbClient *db.Db) (*QueryEndpoint, error) {
	endpoint, err := cfg.newEndpointWithDb(dbClient)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	return endpoint, nil
}

func (cfg QueryEndpointConfig) newEndpointWithDb(dbClient *db.Db) (*QueryEndpoint, error) {
	dialect, err := cfg.newDialect()
	if err != nil {
		return nil, err
	}

	registry, err := config.NewRegistry(cfg.resources)
	if err != nil {
		return nil, err
	}

	metrics := cfg.registry
	if metrics == nil {
		metrics = prometheus.NewRegistry()
	}

	return &QueryEndpoint{
		dbClient:     dbClient,
		registry:     registry,
		metrics:      metrics,
		restRouteGen: rest.NewRouteGenerator(dbClient, registry, dialect, cfg, metrics),
	}, nil
}

func (cfg QueryEndpointConfig) newDialect() (builder.Dialect, error) {
	if cfg.driver == CassandraDriver {
		switch cfg.dialect {
		case "", "cql":
			return builder.CQLDialect{}, nil
		default:
			return nil, fmt.Errorf("dialect %s cannot be used with the %s driver", cfg.dialect, CassandraDriver)
		}
	}

	switch cfg.dialect {
	case "", "postgres":
		return builder.PostgresDialect{}, nil
	case "mysql", "sqlite":
		return builder.MySQLDialect{}, nil
	default:
		return nil, fmt.Errorf("invalid dialect: %s", cfg.dialect)
	}
}

type QueryEndpoint struct {
	dbClient     *db.Db
	registry     *config.Registry
	metrics      *prometheus.Registry
	restRouteGen *rest.RouteGenerator
}

func NewEndpointConfig(hosts ...string) (*QueryEndpointConfig, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewEndpointConfigWithLogger(log.NewZapLogger(logger), hosts...), nil
}

func NewEndpointConfigWithLogger(logger log.Logger, hosts ...string) *QueryEndpointConfig {
	return &QueryEndpointConfig{
		dbHosts: hosts,
		driver:  CassandraDriver,
		logger:  logger,
	}
}

func (e *QueryEndpoint) RoutesRest(prefix string) []types.Route {
	return e.restRouteGen.Routes(prefix)
}

// Registry exposes the served resources so they can be replaced on configuration changes.
func (e *QueryEndpoint) Registry() *config.Registry {
	return e.registry
}

func (e *QueryEndpoint) Metrics() *prometheus.Registry {
	return e.metrics
}

func (e *QueryEndpoint) Close() error {
	return e.dbClient.Close()
}
