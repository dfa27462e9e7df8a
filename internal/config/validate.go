package config

import (
	"errors"
	"fmt"

	"trackmatch/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateReview(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	if w := c.Matching.IdentifierWeight; w < 0 || w >= 1 {
		return fmt.Errorf("matching.identifier_weight must be in [0, 1), got %v", w)
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("matching.weights: %w", err)
	}
	if c.Matching.SearchLimit <= 0 {
		return fmt.Errorf("matching.search_limit must be positive, got %d", c.Matching.SearchLimit)
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Workers <= 0 || c.Batch.Workers > maxBatchWorkers {
		return fmt.Errorf("batch.workers must be between 1 and %d, got %d", maxBatchWorkers, c.Batch.Workers)
	}
	if c.Batch.LockPath == "" {
		return errors.New("batch.lock_path must be set")
	}
	return nil
}

func (c *Config) validateReview() error {
	if c.Review.Enabled && c.Review.DBPath == "" {
		return errors.New("review.db_path must be set when review is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return errors.New("logging rotation limits must not be negative")
	}
	return nil
}

// LogOptions converts the [logging] section into logger construction options.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		File:       c.Logging.File,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
	}
}
