package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Cache.Freshness <= 0 {
		return fmt.Errorf("cache.freshness must be > 0 (got %v)", c.Cache.Freshness)
	}
	if c.Cache.Retention < 0 {
		return fmt.Errorf("cache.retention must be >= 0 (got %v)", c.Cache.Retention)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache.max_entries must be > 0 (got %d)", c.Cache.MaxEntries)
	}

	if !strings.HasPrefix(c.Site.BaseURL, "http://") && !strings.HasPrefix(c.Site.BaseURL, "https://") {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL (got %q)", c.Site.BaseURL)
	}

	if _, err := language.Parse(c.Site.DefaultLanguage); err != nil {
		return fmt.Errorf("site.default_language: invalid language tag %q", c.Site.DefaultLanguage)
	}

	if c.Media.MaxUploadMB <= 0 {
		return fmt.Errorf("media.max_upload_mb must be > 0 (got %d)", c.Media.MaxUploadMB)
	}

	return nil
}
