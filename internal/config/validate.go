package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	if c.Database.Primary.DSN == "" && c.Database.Local.Path == "" {
		return errors.New("either database.primary.dsn or database.local.path is required")
	}

	switch c.AI.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("ai.provider must be one of %q, %q or %q, got %q", ProviderGemini, ProviderOpenAI, ProviderNone, c.AI.Provider)
	}
	if c.AI.Provider != ProviderNone && c.AI.Model == "" {
		return errors.New("ai.model is required when an ai.provider is set")
	}
	if c.AI.TimeoutSeconds <= 0 {
		return errors.New("ai.timeout_seconds must be a positive integer")
	}
	if c.AI.Breaker.OpenSeconds < 0 {
		return errors.New("ai.breaker.open_seconds must not be negative")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Saved.Namespace == "" {
		return errors.New("saved.namespace is required")
	}

	// Redis and worker settings only matter when background jobs are on.
	if c.Worker.Enabled {
		if c.Redis.Address == "" {
			return errors.New("redis.address is required when worker.enabled is true")
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
	}

	for provider, models := range c.Pricing {
		if provider == "" {
			return errors.New("pricing contains an empty provider name")
		}
		for model, price := range models {
			if model == "" {
				return fmt.Errorf("pricing for provider '%s' contains an empty model name", provider)
			}
			if price.InputPerToken < 0 || price.OutputPerToken < 0 {
				return fmt.Errorf("pricing for provider '%s', model '%s' has negative token cost", provider, model)
			}
		}
	}

	return nil
}
