// Package config defines the application's configuration surface and loading.
package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Push      PushConfig      `mapstructure:"push"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SMTPConfig contains the email channel settings. An empty Host disables the
// email channel entirely; reminder emails are then recorded but not delivered.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"     validate:"required_with=Host,omitempty,email"`
	// RatePerSecond caps outbound email sends; zero means no limit.
	RatePerSecond float64 `mapstructure:"rate_per_second" validate:"gte=0"`
}

// PushConfig contains the push gateway settings. An empty Endpoint disables
// the push channel.
type PushConfig struct {
	Endpoint  string `mapstructure:"endpoint"   validate:"omitempty,url"`
	APIKey    string `mapstructure:"api_key"`
	BatchSize int    `mapstructure:"batch_size" validate:"required,gt=0"`
}

// SchedulerConfig contains the deadline-reminder scheduler settings.
type SchedulerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required,gt=0"`
	Workers      int           `mapstructure:"workers"       validate:"required,gt=0"`
}
