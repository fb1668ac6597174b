package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"movierec-web/internal/logging"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix es el prefijo de todas las variables de entorno.
const EnvPrefix = "MOVIEREC_"

// ConfigPathEnvVar permite apuntar a un YAML distinto de DefaultConfigPath.
const ConfigPathEnvVar = "MOVIEREC_CONFIG"

const DefaultConfigPath = "movierec.yaml"

type Config struct {
	// Backend que renderiza las páginas y expone /recommend, /favorite, ...
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// Valor de la cookie de sesión (la autenticación ocurre fuera de aquí)
	SessionCookie string `koanf:"session_cookie"`
	// Nombre de la cookie de sesión de Flask
	SessionCookieName string `koanf:"session_cookie_name" validate:"required"`
	// 0 = sin timeout, igual que fetch() en el navegador
	HTTPTimeout time.Duration `koanf:"http_timeout" validate:"gte=0"`
	PageLimit   int           `koanf:"page_limit" validate:"gt=0"`

	CircuitBreaker bool `koanf:"circuit_breaker"`

	RedisAddr string        `koanf:"redis_addr"`
	RedisPass string        `koanf:"redis_password"`
	SearchTTL time.Duration `koanf:"search_ttl" validate:"gte=0"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	DevPort string `koanf:"dev_port" validate:"required,numeric"`
	// devbackend sirve los botones con onclick en vez de data-action
	DevLegacyMarkup bool `koanf:"dev_legacy_markup"`
}

func defaults() Config {
	return Config{
		BaseURL:           "http://localhost:5005",
		SessionCookieName: "session",
		PageLimit:         5,
		CircuitBreaker:    false,
		SearchTTL:         60 * time.Second,
		LogLevel:          "info",
		LogFormat:         "console",
		DevPort:           "5005",
	}
}

// Load: defaults -> YAML opcional -> variables de entorno (.env incluido).
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path := configPath(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: leyendo %s: %w", path, err)
		}
		logging.Debug().Str("path", path).Msg("[config] archivo cargado")
	}

	// MOVIEREC_BASE_URL -> base_url
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: entorno: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config inválida: %w", err)
	}
	return nil
}

func envKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}

func configPath() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		logging.Warn().Str("path", p).Msg("[config] archivo no encontrado, se ignora")
		return ""
	}
	if _, err := os.Stat(DefaultConfigPath); err == nil {
		return DefaultConfigPath
	}
	return ""
}
