package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Janitor  JanitorConfig
	Metrics  MetricsConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port            int
	Mode            string // debug, release, test
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	GracefulTimeout time.Duration
}

// DatabaseConfig holds the SQLite configuration
type DatabaseConfig struct {
	Path          string
	LogLevel      string // silent, error, warn, info
	BusyTimeoutMS int
}

// AuthConfig holds token and default operator settings
type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	DefaultUsername string
	DefaultPassword string
	DefaultShopName string
	BcryptCost      int
}

// StorageConfig holds the design image storage settings
type StorageConfig struct {
	UploadDir   string
	MaxUploadMB int64
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// JanitorConfig controls the orphaned upload sweeper
type JanitorConfig struct {
	Enabled  bool
	Interval time.Duration
	MinAge   time.Duration
}

// MetricsConfig controls the prometheus endpoint
type MetricsConfig struct {
	Enabled bool
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	AppName        string
	LicenseKey     string
	Enabled        bool
	ConnectTimeout time.Duration
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/tailor-shop")
		viper.SetConfigName("config")
	}

	// TAILOR_SERVER_PORT overrides server.port
	viper.SetEnvPrefix("TAILOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("No config file found, using defaults and environment variables")
		} else {
			return errors.Wrap(err, "error reading config file")
		}
	} else {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.mode", "release")
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.graceful_timeout", 30*time.Second)

	viper.SetDefault("database.path", "tailor_shop.db")
	viper.SetDefault("database.log_level", "warn")
	viper.SetDefault("database.busy_timeout_ms", 5000)

	viper.SetDefault("auth.jwt_secret", "change-me")
	viper.SetDefault("auth.token_ttl", 24*time.Hour)
	viper.SetDefault("auth.default_username", "admin")
	viper.SetDefault("auth.default_password", "admin123")
	viper.SetDefault("auth.default_shop_name", "Ladies Tailor Shop")
	viper.SetDefault("auth.bcrypt_cost", 10)

	viper.SetDefault("storage.upload_dir", "uploads")
	viper.SetDefault("storage.max_upload_mb", 10)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("janitor.enabled", false)
	viper.SetDefault("janitor.interval", time.Hour)
	viper.SetDefault("janitor.min_age", 24*time.Hour)

	viper.SetDefault("metrics.enabled", true)

	viper.SetDefault("newrelic.appname", "Tailor Shop Local")
	viper.SetDefault("newrelic.enabled", false)
	viper.SetDefault("newrelic.connect_timeout", 5*time.Second)
}

// Load loads the configuration
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("server.port"),
			Mode:            viper.GetString("server.mode"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			GracefulTimeout: viper.GetDuration("server.graceful_timeout"),
		},
		Database: DatabaseConfig{
			Path:          viper.GetString("database.path"),
			LogLevel:      viper.GetString("database.log_level"),
			BusyTimeoutMS: viper.GetInt("database.busy_timeout_ms"),
		},
		Auth: AuthConfig{
			JWTSecret:       viper.GetString("auth.jwt_secret"),
			TokenTTL:        viper.GetDuration("auth.token_ttl"),
			DefaultUsername: viper.GetString("auth.default_username"),
			DefaultPassword: viper.GetString("auth.default_password"),
			DefaultShopName: viper.GetString("auth.default_shop_name"),
			BcryptCost:      viper.GetInt("auth.bcrypt_cost"),
		},
		Storage: StorageConfig{
			UploadDir:   viper.GetString("storage.upload_dir"),
			MaxUploadMB: viper.GetInt64("storage.max_upload_mb"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Janitor: JanitorConfig{
			Enabled:  viper.GetBool("janitor.enabled"),
			Interval: viper.GetDuration("janitor.interval"),
			MinAge:   viper.GetDuration("janitor.min_age"),
		},
		Metrics: MetricsConfig{
			Enabled: viper.GetBool("metrics.enabled"),
		},
		NewRelic: NewRelicConfig{
			AppName:        viper.GetString("newrelic.appname"),
			LicenseKey:     viper.GetString("newrelic.licensekey"),
			Enabled:        viper.GetBool("newrelic.enabled"),
			ConnectTimeout: viper.GetDuration("newrelic.connect_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth jwt secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth token ttl must be positive")
	}
	// bcrypt.MinCost and bcrypt.MaxCost
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return errors.Errorf("bcrypt cost %d out of range", c.Auth.BcryptCost)
	}
	if c.Storage.UploadDir == "" {
		return errors.New("storage upload dir is required")
	}
	if c.Janitor.Enabled && c.Janitor.Interval <= 0 {
		return errors.New("janitor interval must be positive")
	}
	// Uploads are written before their order commits; a zero age would sweep them.
	if c.Janitor.Enabled && c.Janitor.MinAge <= 0 {
		return errors.New("janitor min age must be positive")
	}
	return nil
}
