package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnv overlays every set environment variable onto cfg.
func applyEnv(cfg *Config) error {
	var errs []string
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not a duration", key, v))
				return
			}
			dst.Duration = d
		}
	}

	str("PORT", &cfg.Server.Port)
	str("DATABASE_URL", &cfg.Database.URL)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	str("DISCOGS_BASE_URL", &cfg.Discogs.BaseURL)
	str("DISCOGS_USER_AGENT", &cfg.Discogs.UserAgent)
	str("DISCOGS_TOKEN", &cfg.Discogs.Token)
	str("DISCOGS_CONSUMER_KEY", &cfg.Discogs.ConsumerKey)
	str("DISCOGS_CONSUMER_SECRET", &cfg.Discogs.ConsumerSecret)
	integer("RATE_LIMIT_BURST", &cfg.Server.RateLimitBurst)
	integer("DISCOGS_LOW_WATER_MARK", &cfg.Discogs.LowWaterMark)
	duration("DB_TIMEOUT", &cfg.Database.Timeout)
	duration("DISCOGS_TIMEOUT", &cfg.Discogs.Timeout)

	if v, ok := lookup("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("RATE_LIMIT_RPS: %q is not a number", v))
		} else {
			cfg.Server.RateLimitRPS = f
		}
	}
	if v, ok := lookup("ENABLE_HSTS"); ok {
		cfg.Server.EnableHSTS = v == "true" || v == "1"
	}
	if v, ok := lookup("ALLOWED_ORIGINS"); ok {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
