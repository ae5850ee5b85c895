package config

import (
	"github.com/datastax/urlquery/log"
)

type Config interface {
	Resources() []Resource
	Logger() log.Logger
}
