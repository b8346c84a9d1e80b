package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/njchilds90/limitcalc"
)

// EnvPrefix prefixes every environment override, e.g.
// LIMITCALC_ENGINE_VARIABLE or LIMITCALC_SERVER_PORT.
const EnvPrefix = "LIMITCALC"

var defaults = map[string]interface{}{
	"engine.variable":         "x",
	"engine.strategies":       []string{"direct", "infinity", "algebraic", "lhopital", "numeric", "taylor"},
	"server.host":             "",
	"server.port":             8080,
	"server.read_timeout":     "10s",
	"server.write_timeout":    "30s",
	"server.shutdown_timeout": "10s",
	"server.max_body_bytes":   1 << 16,
	"log.level":               "info",
	"log.format":              "text",
	"output.format":           "text",
	"output.color":            true,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("variable", func(fl validator.FieldLevel) bool {
		return limitcalc.ValidVariable(fl.Field().String())
	})
	return v
}

// Load reads configuration from defaults, an optional YAML file at path
// and LIMITCALC_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// ReadFile merges the YAML file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// New returns a viper instance with defaults and environment binding set
// up, so callers (such as cobra commands) can bind flags before Decode.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Decode unmarshals and validates v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
