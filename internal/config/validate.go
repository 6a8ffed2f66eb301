package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate reports every unusable value at once.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.Database.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("database timeout must be positive"))
	}
	if c.Server.RateLimitRPS <= 0 || c.Server.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("rate limit rps and burst must be positive"))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Logging.Format))
	}
	if u, err := url.Parse(c.Discogs.BaseURL); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("discogs base url %q must be absolute", c.Discogs.BaseURL))
	}
	if c.Discogs.UserAgent == "" {
		errs = append(errs, errors.New("discogs user agent is required"))
	}
	if c.Discogs.Timeout.Duration <= 0 {
		errs = append(errs, errors.New("discogs timeout must be positive"))
	}
	if c.Discogs.LowWaterMark < 0 {
		errs = append(errs, errors.New("discogs low water mark must not be negative"))
	}
	if (c.Discogs.ConsumerKey == "") != (c.Discogs.ConsumerSecret == "") && c.Discogs.Token == "" {
		errs = append(errs, errors.New("discogs consumer key and secret must be set together"))
	}
	return errors.Join(errs...)
}
