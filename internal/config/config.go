package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Database struct {
		Primary struct {
			DSN string
		}
	}

	Redis struct {
		Address  string
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	}

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	}

	// AI selects the completion provider shared by the summarizer, the
	// assistant's intent extraction, and general chat.
	AI struct {
		Provider       string `mapstructure:"provider"` // "openai" or "gemini"
		Model          string `mapstructure:"model"`
		OpenaiApiKey   string `mapstructure:"openai_api_key"`
		GoogleApiKey   string `mapstructure:"google_api_key"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"ai"`

	Summarization struct {
		Enabled       bool   `mapstructure:"enabled"`
		Prompt        string `mapstructure:"prompt"`
		MaxInputChars int    `mapstructure:"max_input_chars"`
	} `mapstructure:"summarization"`

	Assistant struct {
		Author       string `mapstructure:"author"`        // author recorded on assistant-created articles
		ArticleLimit int    `mapstructure:"article_limit"` // bound for "list articles" replies
		Prompt       string `mapstructure:"prompt"`        // intent extraction prompt override
	} `mapstructure:"assistant"`

	Auth struct {
		AdminUsername   string `mapstructure:"admin_username"`
		AdminPassword   string `mapstructure:"admin_password"`
		JWTSecret       string `mapstructure:"jwt_secret"`
		TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
	} `mapstructure:"auth"`

	Upload struct {
		MaxBytes int64 `mapstructure:"max_bytes"`
	} `mapstructure:"upload"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	// Allow setting the key via the conventional env var without a prefix.
	viper.BindEnv("ai.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("ai.google_api_key", "GEMINI_API_KEY")
	viper.BindEnv("database.primary.dsn", "DATABASE_URL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Missing config file is fine; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.addr", "localhost")
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("worker.concurrency", 5)
	viper.SetDefault("worker.queues", map[string]int{"summaries": 5, "default": 1})
	viper.SetDefault("ai.provider", "openai")
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("ai.timeout_seconds", 30)
	viper.SetDefault("summarization.enabled", true)
	viper.SetDefault("summarization.max_input_chars", 2000)
	viper.SetDefault("assistant.author", "AI Assistant")
	viper.SetDefault("assistant.article_limit", 5)
	viper.SetDefault("auth.admin_username", "admin")
	viper.SetDefault("auth.admin_password", "admin")
	viper.SetDefault("auth.token_ttl_minutes", 720)
	viper.SetDefault("upload.max_bytes", 5*1024*1024)
}
