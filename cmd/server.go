package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	log2 "log"
	"net/http"
	"os"
	"strings"

	"github.com/datastax/urlquery/auth"
	"github.com/datastax/urlquery/config"
	"github.com/datastax/urlquery/endpoint"
	"github.com/datastax/urlquery/log"
	"github.com/datastax/urlquery/rest"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	_ "modernc.org/sqlite"
)

const defaultRESTPath = ""

// Environment variables prefixed with "URLQUERY_" can override settings e.g. "URLQUERY_HOSTS"
const envVarPrefix = "urlquery"

var cfgFile string
var logger log.Logger
var zapLogger log.ZapLogger
var cfg *endpoint.QueryEndpointConfig

var serverCmd = &cobra.Command{
	Use:   os.Args[0] + " [--hosts HOSTS | --driver DRIVER --dsn DSN] --config FILE [OPTIONS]",
	Short: "Filtered, sorted and paginated list endpoints over a query-string",
	Args: func(cmd *cobra.Command, args []string) error {
		driver := viper.GetString("driver")
		if driver == endpoint.CassandraDriver && len(getStringSlice("hosts")) == 0 {
			return errors.New("hosts are required")
		}
		if driver != endpoint.CassandraDriver && viper.GetString("dsn") == "" {
			return errors.New("dsn is required when using a sql driver")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer zapLogger.Sync()

		endpoint := createEndpoint()
		defer endpoint.Close()

		watchResources(endpoint)

		routes := endpoint.RoutesRest(viper.GetString("rest-path"))
		handler := http.Handler(rest.ApiRouter(routes, endpoint.Metrics()))
		if viper.GetBool("use-user-or-role-auth") {
			handler = auth.NewUserOrRoleHandler(handler)
		}

		listenAndServe(handler, viper.GetInt("port"))
	},
}

// Execute starts the REST endpoint
func Execute() {
	flags := serverCmd.PersistentFlags()

	flags.StringVarP(&cfgFile, "config", "c", "", "config file declaring the served resources")
	flags.StringSliceP("hosts", "t", nil, "hosts for connecting to the database")
	flags.StringP("username", "u", "", "connect with database username")
	flags.StringP("password", "p", "", "database user's password")
	flags.String("driver", endpoint.CassandraDriver, "database driver: cassandra or a registered database/sql driver such as sqlite")
	flags.String("dsn", "", "data source name for the database/sql driver")
	flags.String("dialect", "", "placeholder style of the generated statements: postgres, mysql or sqlite (cql for cassandra)")

	flags.Bool("request-logging", false, "enable request logging")
	flags.Bool("development", false, "human readable debug logging")
	flags.Bool("use-user-or-role-auth", false, "require the "+auth.UserOrRoleHeader+" header and execute queries as that user or role")
	flags.String("access-control-allow-origin", "", "Access-Control-Allow-Origin header value")

	flags.String("rest-path", defaultRESTPath, "REST endpoint path prefix")
	flags.Int("port", 8080, "REST endpoint port")

	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name != "config" {
			viper.BindPFlag(flag.Name, flags.Lookup(flag.Name))
		}
	})

	cobra.OnInitialize(initialize)

	viper.SetEnvPrefix(envVarPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := serverCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func createEndpoint() *endpoint.QueryEndpoint {
	resources, err := readResources()
	if err != nil {
		logger.Fatal("invalid resources", "error", err)
	}

	cfg = endpoint.NewEndpointConfigWithLogger(logger, getStringSlice("hosts")...)

	cfg.
		WithDbUsername(viper.GetString("username")).
		WithDbPassword(viper.GetString("password")).
		WithSQLDriver(viper.GetString("driver"), viper.GetString("dsn")).
		WithDialect(viper.GetString("dialect")).
		WithResources(resources)

	endpoint, err := cfg.NewEndpoint()
	if err != nil {
		logger.Fatal("unable create new endpoint",
			"error", err)
	}

	logger.Info("serving resources", "resources", endpoint.Registry().Names())
	return endpoint
}

func readResources() ([]config.Resource, error) {
	var resources []config.Resource
	err := viper.UnmarshalKey("resources", &resources, viper.DecodeHook(config.DecodeHook()))
	return resources, err
}

// watchResources replaces the served resources when the config file changes.
// An invalid file is logged and the previous resources keep being served.
func watchResources(endpoint *endpoint.QueryEndpoint) {
	if cfgFile == "" {
		return
	}

	watchLogger := zapLogger.With("config", cfgFile)
	viper.OnConfigChange(func(e fsnotify.Event) {
		resources, err := readResources()
		if err == nil {
			err = endpoint.Registry().Replace(resources)
		}
		if err != nil {
			watchLogger.Error("unable to reload resources",
				"file", e.Name,
				"error", err)
			return
		}
		watchLogger.Info("reloaded resources",
			"file", e.Name,
			"resources", endpoint.Registry().Names())
	})
	viper.WatchConfig()
}

func maybeAddRequestLogging(handler http.Handler) http.Handler {
	if viper.GetBool("request-logging") {
		handler = log.NewLoggingHandler(handler, logger)
	}
	return handler
}

func maybeAddCORS(handler http.Handler) http.Handler {
	if value := viper.GetString("access-control-allow-origin"); value != "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", value)
			handler.ServeHTTP(w, r)
		})
	}
	return handler
}

func initialize() {
	var err error
	zapLogger, err = log.NewLogger(viper.GetBool("development"))
	if err != nil {
		log2.Fatalf("unable to initialize logger: %v", err)
	}
	logger = zapLogger

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			logger.Info("using config file",
				"file", viper.ConfigFileUsed())
		} else {
			logger.Fatal("unable to read config file",
				"file", cfgFile,
				"error", err)
		}
	}
}

func listenAndServe(handler http.Handler, port int) {
	logger.Info("server listening",
		"port", port)
	handler = maybeAddCORS(maybeAddRequestLogging(handler))
	err := http.ListenAndServe(fmt.Sprintf(":%d", port), handler)
	if err != nil {
		logger.Fatal("unable to start server",
			"port", port,
			"error", err)
	}
}

func getStringSlice(key string) []string {
	value := viper.GetStringSlice(key)
	slice, err := toStringSlice(value)
	if err != nil {
		logger.Fatal("invalid string slice value for setting",
			"error", err,
			"key", key,
			"value", value)
	}
	return slice
}

func toStringSlice(slice []string) ([]string, error) {
	result := make([]string, 0)
	for _, entry := range slice {
		stringReader := strings.NewReader(entry)
		csvReader := csv.NewReader(stringReader)
		split, err := csvReader.Read()
		if err != nil {
			return nil, err
		}
		for _, part := range split {
			if part != "" { // Don't add empty values
				result = append(result, part)
			}
		}
	}
	return result, nil
}
