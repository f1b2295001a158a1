package config

import "fmt"

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.Leave.DefaultAllowanceDays <= 0 {
		return fmt.Errorf("leave default allowance must be > 0 (got %d)", c.Leave.DefaultAllowanceDays)
	}

	switch c.Notification.Mode {
	case NotificationModeInline, NotificationModeOutbox:
	case NotificationModeKafka:
		if err := c.RequireKafka(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown notification mode %q", c.Notification.Mode)
	}

	if c.Notification.PushTimeout <= 0 {
		return fmt.Errorf("notification push timeout must be > 0 (got %s)", c.Notification.PushTimeout)
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive (rps=%v burst=%d)", c.RateLimit.RequestsPerSecond, c.RateLimit.Burst)
	}

	return nil
}

// RequireKafka is checked by the processes that cannot run without a broker.
func (c *Config) RequireKafka() error {
	if c.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}
	return nil
}
