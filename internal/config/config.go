package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth" validate:"required"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port           int      `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel       string   `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	Environment    string   `mapstructure:"environment" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// MaxUploadMB caps multipart request bodies.
	MaxUploadMB int `mapstructure:"max_upload_mb" validate:"gt=0,lte=1024"`
}

// MaxUploadBytes returns the upload cap in bytes.
func (c ServerConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// ConnMaxLifetime returns the pool connection lifetime.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// StorageConfig configures the media bucket. An empty Bucket disables uploads.
type StorageConfig struct {
	Bucket          string `mapstructure:"bucket"`
	CDNDomain       string `mapstructure:"cdn_domain" validate:"omitempty,hostname_port|fqdn"`
	CredentialsFile string `mapstructure:"credentials_file"`
	EmulatorHost    string `mapstructure:"emulator_host" validate:"omitempty,url"`
}

// Enabled reports whether a bucket is configured.
func (c StorageConfig) Enabled() bool {
	return c.Bucket != ""
}

// ObservabilityConfig configures error reporting and tracing. All of it is optional.
type ObservabilityConfig struct {
	SentryDSN        string  `mapstructure:"sentry_dsn" validate:"omitempty,url"`
	OTLPEndpoint     string  `mapstructure:"otlp_endpoint"`
	TraceStdout      bool    `mapstructure:"trace_stdout"`
	TraceSampleRatio float64 `mapstructure:"trace_sample_ratio" validate:"gte=0,lte=1"`
	Release          string  `mapstructure:"release"`
}

// TracingEnabled reports whether any trace exporter is configured.
func (c ObservabilityConfig) TracingEnabled() bool {
	return c.OTLPEndpoint != "" || c.TraceStdout
}
