package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"trackmatch/internal/catalog"
	"trackmatch/internal/config"
	"trackmatch/internal/logging"
	"trackmatch/internal/matching"
	"trackmatch/internal/review"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger from the [logging] section. Console
// output goes to stderr so stdout stays parseable for --json.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		opts := cfg.LogOptions()
		opts.OutputPaths = []string{"stderr"}
		opts.ErrorOutputPaths = []string{"stderr"}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level := strings.TrimSpace(*c.logLevelFlag)
			if !logging.ValidLevel(level) {
				c.loggerErr = fmt.Errorf("invalid --log-level %q", level)
				return
			}
			opts.Level = level
		}
		c.logger, c.loggerErr = logging.New(opts)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newMatcher() (*matching.Matcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return matching.New(
		matching.WithWeights(cfg.Weights()),
		matching.WithLogger(logger),
	), nil
}

// catalogSet is the loaded target catalog with its album index.
type catalogSet struct {
	index  *catalog.Index
	albums *catalog.AlbumIndex
}

func (c *commandContext) loadCatalog() (*catalogSet, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" {
		return nil, errors.New("no catalog configured; set [catalog].path or TRACKMATCH_CATALOG")
	}
	tracks, err := catalog.LoadTracks(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	set := &catalogSet{index: catalog.NewIndex(tracks, cfg.Matching.SearchLimit)}
	if cfg.Catalog.AlbumsPath != "" {
		albums, err := catalog.LoadAlbums(cfg.Catalog.AlbumsPath)
		if err != nil {
			return nil, fmt.Errorf("load album index: %w", err)
		}
		set.albums = albums
	} else {
		set.albums = catalog.AlbumsFromTracks(tracks)
	}
	return set, nil
}

// albumValidator returns the album index when a catalog is configured. Without
// one, album presence is not counted.
func (c *commandContext) albumValidator() (matching.AlbumValidator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Catalog.Path == "" && cfg.Catalog.AlbumsPath == "" {
		return nil, nil
	}
	if cfg.Catalog.Path == "" {
		albums, err := catalog.LoadAlbums(cfg.Catalog.AlbumsPath)
		if err != nil {
			return nil, fmt.Errorf("load album index: %w", err)
		}
		return albums, nil
	}
	set, err := c.loadCatalog()
	if err != nil {
		return nil, err
	}
	return set.albums, nil
}

func (c *commandContext) withStore(fn func(*review.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Review.Enabled {
		return errors.New("review store is disabled; set [review].enabled = true")
	}
	store, err := review.Open(cfg)
	if err != nil {
		return fmt.Errorf("open review store: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
