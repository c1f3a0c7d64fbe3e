package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("auth.access_token_ttl must be > 0 (got %v)", c.Auth.AccessTokenTTL)
	}

	if err := c.Channel.validate(); err != nil {
		return fmt.Errorf("channel: %w", err)
	}

	if err := c.Alarm.validate(); err != nil {
		return fmt.Errorf("alarm: %w", err)
	}

	if err := c.SMTP.validate(); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}

	return nil
}

func (c *ChannelConfig) validate() error {
	if c.SendQueueSize <= 0 {
		return fmt.Errorf("send_queue_size must be > 0 (got %d)", c.SendQueueSize)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be > 0 (got %v)", c.WriteTimeout)
	}
	if c.ReadLimit <= 0 {
		return fmt.Errorf("read_limit must be > 0 (got %d)", c.ReadLimit)
	}
	return nil
}

func (a *AlarmConfig) validate() error {
	if a.MinTickInterval <= 0 {
		return fmt.Errorf("min_tick_interval must be > 0 (got %v)", a.MinTickInterval)
	}
	if a.MaxTickInterval < a.MinTickInterval {
		return fmt.Errorf("max_tick_interval (%v) must be >= min_tick_interval (%v)", a.MaxTickInterval, a.MinTickInterval)
	}
	if a.ResendInterval <= 0 {
		return fmt.Errorf("resend_interval must be > 0 (got %v)", a.ResendInterval)
	}
	if a.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be > 0 (got %v)", a.SendTimeout)
	}
	return nil
}

func (s *SMTPConfig) validate() error {
	if !s.Enabled() {
		return nil
	}
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("port out of range (got %d)", s.Port)
	}
	if s.From == "" {
		return fmt.Errorf("from is required when host is set")
	}
	switch strings.ToLower(s.TLS) {
	case "mandatory", "opportunistic", "none":
	default:
		return fmt.Errorf("tls must be one of mandatory, opportunistic, none (got %q)", s.TLS)
	}
	return nil
}
