package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Database.Primary.DSN == "" {
		return errors.New("database.primary.DSN is required")
	}

	switch c.AI.Provider {
	case "openai":
		if c.AI.OpenaiApiKey == "" {
			return errors.New("ai.openai_api_key is required when ai.provider is openai")
		}
	case "gemini":
		if c.AI.GoogleApiKey == "" {
			return errors.New("ai.google_api_key is required when ai.provider is gemini")
		}
	default:
		return fmt.Errorf("unknown ai.provider '%s' (expected openai or gemini)", c.AI.Provider)
	}
	if c.AI.TimeoutSeconds <= 0 {
		return errors.New("ai.timeout_seconds must be a positive integer")
	}

	if c.Redis.Address == "" {
		return errors.New("redis.address is required")
	}
	if c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be a positive integer")
	}
	if len(c.Worker.Queues) == 0 {
		return errors.New("worker.queues must define at least one queue")
	}
	for name, priority := range c.Worker.Queues {
		if name == "" {
			return errors.New("worker.queues contains an empty queue name")
		}
		if priority <= 0 {
			return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
		}
	}

	if c.Summarization.Enabled && c.Summarization.MaxInputChars <= 0 {
		return errors.New("summarization.max_input_chars must be positive")
	}
	if c.Assistant.ArticleLimit <= 0 {
		return errors.New("assistant.article_limit must be positive")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return errors.New("auth.token_ttl_minutes must be positive")
	}

	if c.Upload.MaxBytes <= 0 {
		return errors.New("upload.max_bytes must be positive")
	}

	return nil
}
