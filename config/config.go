package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Logging   LoggingConfig   `koanf:"logging"`
	Database  DatabaseConfig  `koanf:"database"`
	Kafka     KafkaConfig     `koanf:"kafka"`
	Redis     RedisConfig     `koanf:"redis"`
	Session   SessionConfig   `koanf:"session"`
	Report    ReportConfig    `koanf:"report"`
	Providers ProvidersConfig `koanf:"providers"`
}

type HTTPConfig struct {
	Addr          string   `koanf:"addr" validate:"required"`
	WorkerAddr    string   `koanf:"worker_addr" validate:"required"`
	CORSOrigins   []string `koanf:"cors_origins"`
	SecureCookies bool     `koanf:"secure_cookies"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

type DatabaseConfig struct {
	// URL wins over the discrete fields when set.
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	DBName   string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
}

type KafkaConfig struct {
	Brokers       []string `koanf:"brokers"`
	ReportTopic   string   `koanf:"report_topic" validate:"required"`
	ConsumerGroup string   `koanf:"consumer_group"`
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
}

type SessionConfig struct {
	Secret     string `koanf:"secret" validate:"omitempty,min=32"`
	TTLSeconds int    `koanf:"ttl_seconds" validate:"gte=0"`
	BcryptCost int    `koanf:"bcrypt_cost" validate:"gte=0,lte=31"`
}

type ReportConfig struct {
	PerMinuteLimit             int `koanf:"per_minute_limit" validate:"gte=0"`
	AuthPerMinuteLimit         int `koanf:"auth_per_minute_limit" validate:"gte=0"`
	PortWeatherCacheTTLSeconds int `koanf:"port_weather_cache_ttl_seconds" validate:"gte=0"`
}

type ProvidersConfig struct {
	MyShipTracking ProviderConfig `koanf:"myshiptracking"`
	WeatherAPI     ProviderConfig `koanf:"weatherapi"`
	GFW            ProviderConfig `koanf:"gfw"`
	OpenAI         TextGenConfig  `koanf:"openai"`
}

type ProviderConfig struct {
	BaseURL        string `koanf:"base_url" validate:"omitempty,url"`
	APIKey         string `koanf:"api_key"`
	TimeoutSeconds int    `koanf:"timeout_seconds" validate:"gte=0"`
}

type TextGenConfig struct {
	BaseURL        string  `koanf:"base_url" validate:"omitempty,url"`
	APIKey         string  `koanf:"api_key"`
	TimeoutSeconds int     `koanf:"timeout_seconds" validate:"gte=0"`
	Model          string  `koanf:"model"`
	Temperature    float64 `koanf:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `koanf:"max_tokens" validate:"gte=0"`
}

func (t TextGenConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLSeconds) * time.Second
}

func (r ReportConfig) PortWeatherCacheTTL() time.Duration {
	return time.Duration(r.PortWeatherCacheTTLSeconds) * time.Second
}

// DSN returns the postgres connection string, or "" when nothing is configured.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Host == "" {
		return ""
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.Username, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", orDefault(d.SSLMode, "disable"))
	u.RawQuery = q.Encode()
	return u.String()
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:       ":8080",
			WorkerAddr: ":8081",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "disable",
		},
		Kafka: KafkaConfig{
			ReportTopic:   "report.generated",
			ConsumerGroup: "brief-worker",
		},
		Session: SessionConfig{
			TTLSeconds: 24 * 60 * 60,
			BcryptCost: 12,
		},
		Report: ReportConfig{
			PerMinuteLimit:             10,
			AuthPerMinuteLimit:         20,
			PortWeatherCacheTTLSeconds: 600,
		},
		Providers: ProvidersConfig{
			MyShipTracking: ProviderConfig{BaseURL: "https://api.myshiptracking.com", TimeoutSeconds: 8},
			WeatherAPI:     ProviderConfig{BaseURL: "http://api.weatherapi.com", TimeoutSeconds: 8},
			GFW:            ProviderConfig{BaseURL: "https://gateway.api.globalfishingwatch.org", TimeoutSeconds: 8},
			OpenAI: TextGenConfig{
				BaseURL:        "https://api.openai.com",
				TimeoutSeconds: 30,
				Model:          "gpt-4o",
				Temperature:    0.2,
				MaxTokens:      1000,
			},
		},
	}
}

// LoadConfig layers defaults, the YAML file at filename (skipped when empty)
// and environment variables, then validates the result.
func LoadConfig(filename string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if filename != "" {
		if err := k.Load(file.Provider(filename), yamlParser{}); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", filename)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, errors.Wrap(err, "load env")
	}

	if err := splitLists(k); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

var envMappings = map[string]string{
	"myshiptracking_api_key": "providers.myshiptracking.api_key",
	"weather_api_key":        "providers.weatherapi.api_key",
	"gfw_api_key":            "providers.gfw.api_key",
	"openai_api_key":         "providers.openai.api_key",
	"openai_model":           "providers.openai.model",
	"database_url":           "database.url",
	"session_secret":         "session.secret",
	"redis_addr":             "redis.addr",
	"kafka_brokers":          "kafka.brokers",
	"kafka_report_topic":     "kafka.report_topic",
	"http_addr":              "http.addr",
	"worker_http_addr":       "http.worker_addr",
	"cors_origins":           "http.cors_origins",
	"secure_cookies":         "http.secure_cookies",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"report_per_minute":      "report.per_minute_limit",
}

// envTransformFunc maps known variables onto config paths. Anything else is
// dropped so unrelated environment does not leak into the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var listPaths = []string{"kafka.brokers", "http.cors_origins"}

// splitLists turns comma separated env values into slices.
func splitLists(k *koanf.Koanf) error {
	for _, path := range listPaths {
		s, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return errors.Wrap(err, fmt.Sprintf("set %s", path))
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
