package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string

	// DefaultUserID is the user plans are generated for when the caller
	// does not pass one explicitly.
	DefaultUserID string

	// PlanRateLimitPerHour throttles plan generation per user. Zero
	// disables throttling.
	PlanRateLimitPerHour int
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("NUTRIPLAN_DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("NUTRIPLAN_DB_PATH environment variable not set")
	}

	defaultUserID := os.Getenv("NUTRIPLAN_DEFAULT_USER_ID")
	if defaultUserID == "" {
		defaultUserID = "default_user"
	}

	var rateLimit int
	if raw := os.Getenv("NUTRIPLAN_PLAN_RATE_LIMIT"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &rateLimit); err != nil {
			return nil, fmt.Errorf("NUTRIPLAN_PLAN_RATE_LIMIT is not a number: %w", err)
		}
		if rateLimit < 0 {
			return nil, fmt.Errorf("NUTRIPLAN_PLAN_RATE_LIMIT must not be negative")
		}
	}

	return &Config{
		DatabasePath:         dbPath,
		DefaultUserID:        defaultUserID,
		PlanRateLimitPerHour: rateLimit,
	}, nil
}
