package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type BackendMode string

const (
	BackendRemote   BackendMode = "remote"
	BackendDatabase BackendMode = "database"
	BackendFixture  BackendMode = "fixture"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

// BackendConfig selects how remote calls reach the backing store.
type BackendConfig struct {
	Mode         BackendMode
	HostURL      string
	AccessToken  string
	FixtureDelay time.Duration
}

type GenAIConfig struct {
	APIKey string
	Model  string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Backend     BackendConfig
	GenAI       GenAIConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Backend: BackendConfig{
			Mode:         BackendMode(strings.ToLower(strings.TrimSpace(v.GetString("BACKEND_MODE")))),
			HostURL:      v.GetString("HOST_URL"),
			AccessToken:  v.GetString("HOST_ACCESS_TOKEN"),
			FixtureDelay: v.GetDuration("FIXTURE_DELAY"),
		},
		GenAI: GenAIConfig{
			APIKey: v.GetString("GENAI_API_KEY"),
			Model:  v.GetString("GENAI_MODEL"),
		},
	}

	applyDefaults(cfg, v.IsSet("FIXTURE_DELAY"))

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config, fixtureDelaySet bool) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Backend.Mode == "" {
		cfg.Backend.Mode = inferMode(cfg)
	}
	if !fixtureDelaySet {
		cfg.Backend.FixtureDelay = 800 * time.Millisecond
	}
	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = "gemini-2.5-pro"
	}
}

func inferMode(cfg *Config) BackendMode {
	switch {
	case cfg.Backend.HostURL != "":
		return BackendRemote
	case cfg.DB.DSN != "":
		return BackendDatabase
	default:
		return BackendFixture
	}
}

func validate(cfg *Config) error {
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	switch cfg.Backend.Mode {
	case BackendRemote:
		if cfg.Backend.HostURL == "" {
			return fmt.Errorf("HOST_URL is required for backend mode %q", cfg.Backend.Mode)
		}
	case BackendDatabase:
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required for backend mode %q", cfg.Backend.Mode)
		}
	case BackendFixture:
	default:
		return fmt.Errorf("unknown BACKEND_MODE %q", cfg.Backend.Mode)
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
