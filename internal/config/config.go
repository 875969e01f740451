package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// platform credentials, the moderated community and background jobs.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"botlist" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// JWT contains the key pair used to sign and verify principal tokens
	JWT struct {
		// PublicKey is the PEM encoded RSA public key used to verify bearer tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded RSA private key used by the jwt command to mint tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Discord contains the chat platform REST API settings
	Discord struct {
		// Token is the bot token used to call the REST API
		Token string `env:"DISCORD_TOKEN" yaml:"token"`
		// BaseURL is the versioned REST endpoint
		BaseURL string `env:"DISCORD_BASE_URL" env-default:"https://discord.com/api/v10" yaml:"baseUrl"`
		// Timeout bounds every REST call
		Timeout time.Duration `env:"DISCORD_TIMEOUT" env-default:"5s" yaml:"timeout"`
	} `yaml:"discord"`

	// Community describes the controlling community that owns the directory
	Community struct {
		// GuildID is the community whose membership gates submissions
		GuildID string `env:"COMMUNITY_GUILD_ID" yaml:"guildId"`
		// AdminRoleID is the role allowed to delete any listing
		AdminRoleID string `env:"COMMUNITY_ADMIN_ROLE_ID" yaml:"adminRoleId"`
		// LogChannelID is the operations channel receiving audit messages
		LogChannelID string `env:"COMMUNITY_LOG_CHANNEL_ID" yaml:"logChannelId"`
	} `yaml:"community"`

	// Listing contains directory presentation settings
	Listing struct {
		// PageSize is the number of approved listings returned per call
		PageSize int `env:"LISTING_PAGE_SIZE" env-default:"15" yaml:"pageSize"`
	} `yaml:"listing"`

	// Jobs configures the background job queue
	Jobs struct {
		// MaxAttempts is the number of attempts for notification and removal jobs
		MaxAttempts int `env:"JOBS_MAX_ATTEMPTS" env-default:"5" yaml:"maxAttempts"`
		// MaxWorkers is the number of concurrent workers on the default queue
		MaxWorkers int `env:"JOBS_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
	} `yaml:"jobs"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
