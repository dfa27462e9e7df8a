package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envLogLevel = "TRACKMATCH_LOG_LEVEL"
	envCatalog  = "TRACKMATCH_CATALOG"
	envReviewDB = "TRACKMATCH_REVIEW_DB"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	if err := c.normalizeReview(); err != nil {
		return err
	}
	if err := c.normalizeBatch(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

// applyEnv lets environment variables override file values.
func (c *Config) applyEnv() {
	if value, ok := lookupEnv(envLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv(envCatalog); ok {
		c.Catalog.Path = value
	}
	if value, ok := lookupEnv(envReviewDB); ok {
		c.Review.DBPath = value
	}
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	var err error
	if c.Catalog.Path, err = expandPath(strings.TrimSpace(c.Catalog.Path)); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if c.Catalog.AlbumsPath, err = expandPath(strings.TrimSpace(c.Catalog.AlbumsPath)); err != nil {
		return fmt.Errorf("catalog.albums_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReview() error {
	var err error
	if strings.TrimSpace(c.Review.DBPath) == "" {
		c.Review.DBPath = filepath.Join(c.Paths.DataDir, defaultReviewDBName)
	}
	if c.Review.DBPath, err = expandPath(c.Review.DBPath); err != nil {
		return fmt.Errorf("review.db_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBatch() error {
	var err error
	if strings.TrimSpace(c.Batch.LockPath) == "" {
		c.Batch.LockPath = filepath.Join(c.Paths.DataDir, defaultLockName)
	}
	if c.Batch.LockPath, err = expandPath(c.Batch.LockPath); err != nil {
		return fmt.Errorf("batch.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	file := strings.TrimSpace(c.Logging.File)
	if file == "" {
		c.Logging.File = ""
		return nil
	}
	// Bare file names live in the log directory.
	if !filepath.IsAbs(file) && !strings.HasPrefix(file, "~") && filepath.Base(file) == file {
		file = filepath.Join(c.Paths.LogDir, file)
	}
	var err error
	if c.Logging.File, err = expandPath(file); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
