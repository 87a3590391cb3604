package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver     string `mapstructure:"driver"`
		Host       string `mapstructure:"host"`
		Port       int    `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
		SSLMode    string `mapstructure:"sslmode"`
		Migrations bool   `mapstructure:"migrations"`

		MaxOpenConns    int           `mapstructure:"max_open_conns"`
		MaxIdleConns    int           `mapstructure:"max_idle_conns"`
		ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	} `mapstructure:"database"`
	Server struct {
		Port            string        `mapstructure:"port"`
		BasePath        string        `mapstructure:"base_path"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		Retries  int    `mapstructure:"retries"`
	} `mapstructure:"redis"`
	Session struct {
		SecretKey    string        `mapstructure:"secret_key"`
		TTL          time.Duration `mapstructure:"ttl"`
		CookieSecure bool          `mapstructure:"cookie_secure"`
	} `mapstructure:"session"`
	Media struct {
		Root          string `mapstructure:"root"`
		URL           string `mapstructure:"url"`
		MaxPhotoBytes int64  `mapstructure:"max_photo_bytes"`
	} `mapstructure:"media"`
	Access struct {
		CategoryRequiresAdmin bool `mapstructure:"category_requires_admin"`
	} `mapstructure:"access"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var AppConfig Config

// DefaultSecretKey signs sessions when nothing else is configured. It is only
// accepted with the in-memory database.
const DefaultSecretKey = "change-me"

// placeholderSecrets are the signing keys shipped in defaults and config.yml.
var placeholderSecrets = map[string]struct{}{
	DefaultSecretKey:            {},
	"please-change-this-secret": {},
	"":                          {},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "service_desk")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.migrations", true)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_path", "")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.retries", 3)

	v.SetDefault("session.secret_key", DefaultSecretKey)
	v.SetDefault("session.ttl", 14*24*time.Hour)
	v.SetDefault("session.cookie_secure", false)

	v.SetDefault("media.root", "media")
	v.SetDefault("media.url", "/media/")
	v.SetDefault("media.max_photo_bytes", 2*1024*1024)

	v.SetDefault("access.category_requires_admin", false)

	v.SetDefault("log.level", "info")
}

// Load reads config.yml from path (if present), then environment overrides,
// and returns the decoded configuration.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig populates AppConfig and aborts the process when the file is malformed.
func LoadConfig(path string) {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}
	AppConfig = cfg
}

// Validate rejects configurations that must not serve real traffic.
func (c Config) Validate() error {
	if c.Database.Driver == "memory" {
		return nil
	}
	if _, ok := placeholderSecrets[strings.TrimSpace(c.Session.SecretKey)]; ok {
		return fmt.Errorf("session.secret_key is unset or a placeholder; set SESSION_SECRET_KEY before using the %q database", c.Database.Driver)
	}
	return nil
}
