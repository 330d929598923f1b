package config

import (
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Configuration holds the runtime configuration of the listing service.
// Values come from defaults, environment variables and CLI flags, in
// increasing order of precedence.
type Configuration struct {
	Server   Server
	Database Database
	Listing  Listing
}

type Server struct {
	HTTPPort   int    `default:"8000" validate:"gte=1,lte=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
}

type Database struct {
	// Path of the DuckDB database file. ":memory:" runs fully in memory
	// with the demo dataset seeded at startup.
	Path string `default:":memory:"`
}

type Listing struct {
	DefaultPageSize int `default:"20" validate:"gte=1"`
	MaxPageSize     int `default:"100" validate:"gte=1"`
}

// NewConfigurationWithOptionsAndDefaults returns a Configuration with
// every default tag applied.
func NewConfigurationWithOptionsAndDefaults() *Configuration {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Validate checks the configuration against its validate tags.
func (c *Configuration) Validate() error {
	return validator.New().Struct(c)
}
