package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig tunes the fixed-window limiter applied to the
// public reservation and order creation endpoints.
type RateLimitConfig struct {
	Enabled bool          // master switch; also disabled when Redis is absent
	Limit   int           // requests allowed per window and client IP
	Window  time.Duration // window length
}

// LoadRateLimitConfig reads the limiter settings from the
// environment, with defaults suited to a guest-facing booking form.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: os.Getenv("RATE_LIMIT_ENABLED") != "false",
		Limit:   30,
		Window:  time.Minute,
	}
	if s := os.Getenv("RATE_LIMIT_PER_MINUTE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.Limit = n
		}
	}
	return cfg
}
