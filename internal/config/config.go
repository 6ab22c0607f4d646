package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	AI         AIConfig         `mapstructure:"ai"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Log        LogConfig        `mapstructure:"log"`
	JWTSecret  string           `mapstructure:"jwt_secret"`
	Timezone   string           `mapstructure:"timezone"`
}

type ServerConfig struct {
	Port    string `mapstructure:"port"`
	AppName string `mapstructure:"app_name"`
}

type DBConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	Port     string `mapstructure:"port"`
}

type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type AIConfig struct {
	Provider    string         `mapstructure:"provider"`
	MaxTokens   int            `mapstructure:"max_tokens"`
	Temperature float64        `mapstructure:"temperature"`
	Timeout     time.Duration  `mapstructure:"timeout"`
	Fallthrough bool           `mapstructure:"fallthrough"`
	OpenAI      ProviderConfig `mapstructure:"openai"`
	Grok        ProviderConfig `mapstructure:"grok"`
	Anthropic   ProviderConfig `mapstructure:"anthropic"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TranscriptConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	SalesTopic string   `mapstructure:"sales_topic"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// env names kept flat so existing .env files keep working
var envBindings = map[string]string{
	"server.port":           "PORT",
	"db.driver":             "DB_DRIVER",
	"db.dsn":                "DATABASE_URL",
	"db.host":               "DB_HOST",
	"db.user":               "DB_USER",
	"db.password":           "DB_PASSWORD",
	"db.name":               "DB_NAME",
	"db.port":               "DB_PORT",
	"ai.provider":           "AI_PROVIDER",
	"ai.max_tokens":         "AI_MAX_TOKENS",
	"ai.temperature":        "AI_TEMPERATURE",
	"ai.timeout":            "AI_TIMEOUT",
	"ai.fallthrough":        "AI_FALLTHROUGH",
	"ai.openai.api_key":     "OPENAI_API_KEY",
	"ai.openai.model":       "OPENAI_MODEL",
	"ai.openai.base_url":    "OPENAI_BASE_URL",
	"ai.grok.api_key":       "GROK_API_KEY",
	"ai.grok.model":         "GROK_MODEL",
	"ai.grok.base_url":      "GROK_BASE_URL",
	"ai.anthropic.api_key":  "ANTHROPIC_API_KEY",
	"ai.anthropic.model":    "ANTHROPIC_MODEL",
	"ai.anthropic.base_url": "ANTHROPIC_BASE_URL",
	"redis.addr":            "REDIS_ADDR",
	"redis.password":        "REDIS_PASSWORD",
	"redis.db":              "REDIS_DB",
	"transcript.size":       "TRANSCRIPT_SIZE",
	"transcript.ttl":        "TRANSCRIPT_TTL",
	"kafka.brokers":         "KAFKA_BROKERS",
	"kafka.sales_topic":     "KAFKA_SALES_TOPIC",
	"log.level":             "LOG_LEVEL",
	"log.pretty":            "LOG_PRETTY",
	"jwt_secret":            "JWT_SECRET",
	"timezone":              "TIMEZONE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.app_name", "PapelBot v1.0")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "papeleria.db")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.max_tokens", 400)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", 8*time.Second)
	v.SetDefault("ai.fallthrough", false)
	v.SetDefault("ai.openai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.openai.base_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("ai.grok.model", "grok-beta")
	v.SetDefault("ai.grok.base_url", "https://api.x.ai/v1/chat/completions")
	v.SetDefault("ai.anthropic.model", "claude-3-haiku-20240307")
	v.SetDefault("ai.anthropic.base_url", "https://api.anthropic.com/v1/messages")
	v.SetDefault("redis.db", 0)
	v.SetDefault("transcript.size", 20)
	v.SetDefault("transcript.ttl", 24*time.Hour)
	v.SetDefault("kafka.sales_topic", "papeleria.sales")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("timezone", "America/Bogota")
}

// Load reads config.yaml (optional) and the environment. Env wins.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./", "./deploy/"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// KAFKA_BROKERS arrives as one comma separated string
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))

	return &cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
