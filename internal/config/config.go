package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Scan          Scan          `toml:"scan"`
	Dialect       Dialect       `toml:"dialect"`
	Thresholds    Thresholds    `toml:"thresholds"`
	DB            Database      `toml:"db"`
	Watch         Watch         `toml:"watch"`
	Output        Output        `toml:"output"`
	Observability Observability `toml:"observability"`
}

type Paths struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
}

type Scan struct {
	Roots        []string `toml:"roots"`
	IncludeTests bool     `toml:"include_tests"`
	Workers      int      `toml:"workers"`
	Exclude      Exclude  `toml:"exclude"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Dialect struct {
	Force     string            `toml:"force"`
	Overrides map[string]string `toml:"overrides"` // file glob -> dialect id
}

type Thresholds struct {
	MaxComplexity     int     `toml:"max_complexity"`
	MaxNesting        int     `toml:"max_nesting"`
	MaxBranchesPer100 float64 `toml:"max_branches_per_100"`
	MaxCasesPerMatch  int     `toml:"max_cases_per_match"`
	MaxParams         int     `toml:"max_params"`
	MinDocCoverage    float64 `toml:"min_doc_coverage"`
}

type Database struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Watch struct {
	Debounce     time.Duration `toml:"debounce"`
	RescanPerSec float64       `toml:"rescan_per_sec"`
	RescanBurst  int           `toml:"rescan_burst"`
}

type Output struct {
	JSON     string `toml:"json"`
	CSV      string `toml:"csv"`
	TSV      string `toml:"tsv"`
	Markdown string `toml:"markdown"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := validateVersion(&cfg); err != nil {
		return nil, err
	}
	if err := validateScan(&cfg); err != nil {
		return nil, err
	}
	if err := validateDialect(&cfg); err != nil {
		return nil, err
	}
	if err := validateThresholds(&cfg); err != nil {
		return nil, err
	}
	if err := validateDatabase(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig returns a fully defaulted configuration without reading a
// file, for callers that run on flags alone.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = "data/state"
	}

	if len(cfg.Scan.Roots) == 0 {
		cfg.Scan.Roots = []string{"."}
	}
	if len(cfg.Scan.Exclude.Dirs) == 0 {
		cfg.Scan.Exclude.Dirs = []string{".git", "target", ".bloop", ".metals", ".idea"}
	}

	if cfg.Thresholds.MaxComplexity == 0 {
		cfg.Thresholds.MaxComplexity = 10
	}
	if cfg.Thresholds.MaxNesting == 0 {
		cfg.Thresholds.MaxNesting = 4
	}
	if cfg.Thresholds.MaxBranchesPer100 == 0 {
		cfg.Thresholds.MaxBranchesPer100 = 25.0
	}
	if cfg.Thresholds.MaxCasesPerMatch == 0 {
		cfg.Thresholds.MaxCasesPerMatch = 8
	}
	if cfg.Thresholds.MaxParams == 0 {
		cfg.Thresholds.MaxParams = 6
	}
	if cfg.Thresholds.MinDocCoverage == 0 {
		cfg.Thresholds.MinDocCoverage = 50.0
	}

	if strings.TrimSpace(cfg.DB.Path) == "" {
		cfg.DB.Path = "metrics-history.db"
	}
	if cfg.DB.BusyTimeout <= 0 {
		cfg.DB.BusyTimeout = 5 * time.Second
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.RescanPerSec <= 0 {
		cfg.Watch.RescanPerSec = 4.0
	}
	if cfg.Watch.RescanBurst <= 0 {
		cfg.Watch.RescanBurst = 16
	}
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateScan(cfg *Config) error {
	for i, root := range cfg.Scan.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("scan.roots[%d] must not be empty", i)
		}
	}
	if cfg.Scan.Workers < 0 {
		return fmt.Errorf("scan.workers must be >= 0, got %d", cfg.Scan.Workers)
	}
	return nil
}

func validateDialect(cfg *Config) error {
	if force := strings.TrimSpace(cfg.Dialect.Force); force != "" {
		if !knownDialect(force) {
			return fmt.Errorf("dialect.force must be one of: scala2, scala3, sbt; got %q", force)
		}
	}
	for pattern, id := range cfg.Dialect.Overrides {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("dialect.overrides key must not be empty")
		}
		if !knownDialect(id) {
			return fmt.Errorf("dialect.overrides[%q] references unknown dialect %q", pattern, id)
		}
	}
	return nil
}

func knownDialect(id string) bool {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "scala2", "scala3", "sbt":
		return true
	}
	return false
}

func validateThresholds(cfg *Config) error {
	t := cfg.Thresholds
	if t.MaxComplexity < 1 {
		return fmt.Errorf("thresholds.max_complexity must be >= 1, got %d", t.MaxComplexity)
	}
	if t.MaxNesting < 1 {
		return fmt.Errorf("thresholds.max_nesting must be >= 1, got %d", t.MaxNesting)
	}
	if t.MaxBranchesPer100 <= 0 {
		return fmt.Errorf("thresholds.max_branches_per_100 must be > 0, got %v", t.MaxBranchesPer100)
	}
	if t.MinDocCoverage < 0 || t.MinDocCoverage > 100 {
		return fmt.Errorf("thresholds.min_doc_coverage must be within [0, 100], got %v", t.MinDocCoverage)
	}
	return nil
}

func validateDatabase(cfg *Config) error {
	if !cfg.DB.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.DB.Path) == "" {
		return fmt.Errorf("db.path must not be empty when db.enabled=true")
	}
	return nil
}
