package config

import "time"

// Config holds all application configuration.
type Config struct {
	Engine EngineConfig `mapstructure:"engine" validate:"required"`
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Log    LogConfig    `mapstructure:"log" validate:"required"`
	Output OutputConfig `mapstructure:"output" validate:"required"`
}

// EngineConfig selects the free variable and the cascade order.
type EngineConfig struct {
	Variable   string   `mapstructure:"variable" validate:"required,variable,max=32"`
	Strategies []string `mapstructure:"strategies" validate:"required,min=1,dive,oneof=direct infinity algebraic lhopital numeric taylor"`
}

// ServerConfig contains the HTTP API settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// OutputConfig controls how the CLI prints results.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"required,oneof=text markdown json yaml"`
	Color  bool   `mapstructure:"color"`
}
