// Package config carga la configuración del servicio: archivo YAML opcional
// y después variables de entorno (que pisan al archivo).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Staff    StaffConfig    `yaml:"staff"`
	Delivery DeliveryConfig `yaml:"delivery"`
	Media    MediaConfig    `yaml:"media"`
}

type AppConfig struct {
	Name string `yaml:"name"`
	// PublicBaseURL se antepone a los action_url de las notificaciones externas.
	PublicBaseURL string `yaml:"public_base_url"`
}

type HTTPConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	DSN        string `yaml:"dsn"`
	SQLitePath string `yaml:"sqlite_path"`
}

const (
	AuthDev  = "dev" // headers X-Debug-*
	AuthJWT  = "jwt"
	AuthOdin = "odin"
)

type AuthConfig struct {
	Mode       string `yaml:"mode"`
	JWTSecret  string `yaml:"jwt_secret"`
	JWTIssuer  string `yaml:"jwt_issuer"`
	OdinURL    string `yaml:"odin_base_url"`
	OdinAPIKey string `yaml:"odin_api_key"`
}

// StaffConfig decide de dónde salen las capabilities.
// Con PlansURL configurado se usa plans-features; si no, la lista estática.
type StaffConfig struct {
	UserIDs  []string `yaml:"user_ids"`
	AllowAll bool     `yaml:"allow_all"`
	PlansURL string   `yaml:"plans_base_url"`
	PlansKey string   `yaml:"plans_api_key"`
}

const (
	DeliveryNone    = "none"
	DeliveryLog     = "log"
	DeliveryWebhook = "webhook"
	DeliveryKafka   = "kafka"
)

type DeliveryConfig struct {
	Driver        string        `yaml:"driver"`
	Timeout       time.Duration `yaml:"timeout"`
	WebhookURL    string        `yaml:"webhook_url"`
	WebhookSecret string        `yaml:"webhook_secret"`
	KafkaBrokers  []string      `yaml:"kafka_brokers"`
	KafkaTopic    string        `yaml:"kafka_topic"`
}

type MediaConfig struct {
	// Dir vacío deshabilita la subida de fotos.
	Dir string `yaml:"dir"`
}

func Default() Config {
	return Config{
		App: AppConfig{Name: "pet-rescue"},
		HTTP: HTTPConfig{
			Port:            8080,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log:      LogConfig{Level: "info", Format: "text"},
		Storage:  StorageConfig{Driver: StorageMemory, SQLitePath: "pet-rescue.db"},
		Auth:     AuthConfig{Mode: AuthDev},
		Delivery: DeliveryConfig{Driver: DeliveryLog, Timeout: 5 * time.Second},
	}
}

// Load lee path (si no es vacío) y aplica env. Un path que no existe es error:
// si alguien pasa --config espera que se use.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = splitList(v)
		}
	}

	str("APP_NAME", &c.App.Name)
	str("PUBLIC_BASE_URL", &c.App.PublicBaseURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("DB_DSN", &c.Storage.DSN)
	str("SQLITE_PATH", &c.Storage.SQLitePath)
	str("AUTH_MODE", &c.Auth.Mode)
	str("JWT_SECRET", &c.Auth.JWTSecret)
	str("JWT_ISSUER", &c.Auth.JWTIssuer)
	str("ODIN_BASE_URL", &c.Auth.OdinURL)
	str("ODIN_API_KEY", &c.Auth.OdinAPIKey)
	list("STAFF_USER_IDS", &c.Staff.UserIDs)
	str("PLANS_BASE_URL", &c.Staff.PlansURL)
	str("PLANS_API_KEY", &c.Staff.PlansKey)
	str("DELIVERY_DRIVER", &c.Delivery.Driver)
	str("DELIVERY_WEBHOOK_URL", &c.Delivery.WebhookURL)
	str("DELIVERY_WEBHOOK_SECRET", &c.Delivery.WebhookSecret)
	list("KAFKA_BROKERS", &c.Delivery.KafkaBrokers)
	str("KAFKA_TOPIC", &c.Delivery.KafkaTopic)
	str("MEDIA_DIR", &c.Media.Dir)

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.HTTP.Port = p
	}
	if v := strings.TrimSpace(getenv("ALLOW_ALL_CAPABILITIES")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("ALLOW_ALL_CAPABILITIES: %w", err)
		}
		c.Staff.AllowAll = b
	}

	// DB_DSN sin driver explícito: el deploy viejo solo seteaba DB_DSN para Postgres.
	if getenv("STORAGE_DRIVER") == "" && c.Storage.DSN != "" && c.Storage.Driver == StorageMemory {
		c.Storage.Driver = StoragePostgres
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Addr para http.Server.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTP.Port)
}

// Validate junta todos los problemas en un solo error.
func (c Config) Validate() error {
	var errs []error

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port out of range: %d", c.HTTP.Port))
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, errors.New("storage.dsn (DB_DSN) is required for postgres"))
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path (SQLITE_PATH) is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET) is required for jwt auth"))
		}
	case AuthOdin:
		if c.Auth.OdinURL == "" || c.Auth.OdinAPIKey == "" {
			errs = append(errs, errors.New("odin auth needs ODIN_BASE_URL and ODIN_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown auth mode %q", c.Auth.Mode))
	}

	if (c.Staff.PlansURL == "") != (c.Staff.PlansKey == "") {
		errs = append(errs, errors.New("plans-features needs both PLANS_BASE_URL and PLANS_API_KEY"))
	}

	switch c.Delivery.Driver {
	case DeliveryNone, DeliveryLog:
	case DeliveryWebhook:
		if c.Delivery.WebhookURL == "" {
			errs = append(errs, errors.New("delivery.webhook_url (DELIVERY_WEBHOOK_URL) is required for webhook delivery"))
		}
	case DeliveryKafka:
		if len(c.Delivery.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("delivery.kafka_brokers (KAFKA_BROKERS) is required for kafka delivery"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown delivery driver %q", c.Delivery.Driver))
	}

	return errors.Join(errs...)
}
