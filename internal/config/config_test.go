package config_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trackmatch/internal/config"
	"trackmatch/internal/matching"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if want := filepath.Join(tempHome, ".config", "trackmatch", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "trackmatch")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("data dir = %q, want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Review.DBPath != filepath.Join(wantData, "review.db") {
		t.Fatalf("review db = %q", cfg.Review.DBPath)
	}
	if cfg.Batch.LockPath != filepath.Join(wantData, "batch.lock") {
		t.Fatalf("lock path = %q", cfg.Batch.LockPath)
	}
	if cfg.Weights() != matching.DefaultWeights() {
		t.Fatalf("Weights() = %+v, want defaults", cfg.Weights())
	}
	if cfg.Logging.File != "" {
		t.Fatalf("expected file logging disabled by default, got %q", cfg.Logging.File)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "trackmatch.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Matching struct {
			IdentifierWeight float64 `toml:"identifier_weight"`
			SearchLimit      int     `toml:"search_limit"`
		} `toml:"matching"`
		Logging struct {
			Format string `toml:"format"`
			File   string `toml:"file"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Matching.IdentifierWeight = 0.4
	custom.Matching.SearchLimit = 5
	custom.Logging.Format = "JSON"
	custom.Logging.File = "run.log"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("Load resolved = (%q, %v), want (%q, true)", resolved, exists, configPath)
	}
	if cfg.Matching.SearchLimit != 5 {
		t.Fatalf("search limit = %d, want 5", cfg.Matching.SearchLimit)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Logging.Format)
	}
	if want := filepath.Join(cfg.Paths.LogDir, "run.log"); cfg.Logging.File != want {
		t.Fatalf("log file = %q, want %q", cfg.Logging.File, want)
	}
	if cfg.Review.DBPath != filepath.Join(tempDir, "data", "review.db") {
		t.Fatalf("review db = %q", cfg.Review.DBPath)
	}

	w := cfg.Weights()
	if w.Identifier != 0.4 {
		t.Fatalf("identifier weight = %v, want 0.4", w.Identifier)
	}
	if math.Abs(w.Sum()-1) > 1e-9 {
		t.Fatalf("weights sum = %v, want 1", w.Sum())
	}
	if math.Abs(w.Title-0.35*0.6) > 1e-9 {
		t.Fatalf("title weight = %v, want %v", w.Title, 0.35*0.6)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "trackmatch.toml")
	if err := os.WriteFile(configPath, []byte("[matching]\nsearch_limt = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "trackmatch.toml")
	body := "[matching.weights]\ntitle = 0.9\nartist = 0.9\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if !errors.Is(err, matching.ErrInvalidWeights) {
		t.Fatalf("Load error = %v, want ErrInvalidWeights", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("TRACKMATCH_LOG_LEVEL", "DEBUG")
	t.Setenv("TRACKMATCH_CATALOG", filepath.Join(tempDir, "catalog.yaml"))
	t.Setenv("TRACKMATCH_REVIEW_DB", filepath.Join(tempDir, "custom.db"))

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Catalog.Path != filepath.Join(tempDir, "catalog.yaml") {
		t.Errorf("catalog = %q", cfg.Catalog.Path)
	}
	if cfg.Review.DBPath != filepath.Join(tempDir, "custom.db") {
		t.Errorf("review db = %q", cfg.Review.DBPath)
	}
}

func TestLoadEnvSeedsEnvironment(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("TRACKMATCH_CATALOG=/srv/catalog.json\nTRACKMATCH_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("TRACKMATCH_CATALOG", "")
	os.Unsetenv("TRACKMATCH_CATALOG")
	t.Setenv("TRACKMATCH_LOG_LEVEL", "error")

	if err := config.LoadEnv(envPath, filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("LoadEnv returned error: %v", err)
	}
	if got := os.Getenv("TRACKMATCH_CATALOG"); got != "/srv/catalog.json" {
		t.Fatalf("TRACKMATCH_CATALOG = %q, want value from .env", got)
	}
	if got := os.Getenv("TRACKMATCH_LOG_LEVEL"); got != "error" {
		t.Fatalf("TRACKMATCH_LOG_LEVEL = %q, want existing value kept", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "[matching.weights]") {
		t.Fatalf("sample config missing weights table: %s", contents)
	}

	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load(sample) returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Weights() != matching.DefaultWeights() {
		t.Fatalf("sample weights = %+v, want defaults", cfg.Weights())
	}
	if !strings.HasSuffix(cfg.Logging.File, filepath.Join("logs", "trackmatch.log")) {
		t.Fatalf("sample log file = %q", cfg.Logging.File)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"identifier weight of one", func(c *config.Config) { c.Matching.IdentifierWeight = 1 }},
		{"negative identifier weight", func(c *config.Config) { c.Matching.IdentifierWeight = -0.1 }},
		{"weights not summing to one", func(c *config.Config) { c.Matching.Weights.Title = 0.9 }},
		{"zero search limit", func(c *config.Config) { c.Matching.SearchLimit = 0 }},
		{"zero workers", func(c *config.Config) { c.Batch.Workers = 0 }},
		{"too many workers", func(c *config.Config) { c.Batch.Workers = 1000 }},
		{"unknown log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"unknown log level", func(c *config.Config) { c.Logging.Level = "trace" }},
		{"negative backups", func(c *config.Config) { c.Logging.MaxBackups = -1 }},
		{"review without db", func(c *config.Config) { c.Review.DBPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Batch.LockPath = "/tmp/batch.lock"
			cfg.Review.DBPath = "/tmp/review.db"
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	cfg.Batch.LockPath = "/tmp/batch.lock"
	cfg.Review.DBPath = "/tmp/review.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate(defaults) = %v, want nil", err)
	}
}
