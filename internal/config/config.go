package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Johay90/HighlightedItems/internal/optimizer"
	"github.com/Johay90/HighlightedItems/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string         `yaml:"port"`
	LogLevel             string         `yaml:"log_level"`
	InitialLayout        storage.Layout `yaml:"-"`
	SeedCandidates       int            `yaml:"seed_candidates"`
	CacheTTL             time.Duration  `yaml:"-"`
	ShutdownGracePeriod  time.Duration  `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration  `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration  `yaml:"write_timeout"`
	IdleTimeout          time.Duration  `yaml:"idle_timeout"`
	EnableRequestLogging bool           `yaml:"enable_request_logging"`
	RateLimitRPS         float64        `yaml:"-"`
	RateLimitBurst       int            `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	LogLevel             string        `yaml:"log_level"`
	Grid                 yamlGrid      `yaml:"grid"`
	SeedCandidates       int           `yaml:"seed_candidates"`
	CacheTTL             string        `yaml:"cache_ttl"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging bool          `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
}

// yamlGrid represents the grid section in YAML. Reserved cells are written
// as "x,y" strings.
type yamlGrid struct {
	Width    int      `yaml:"width"`
	Height   int      `yaml:"height"`
	Reserved []string `yaml:"reserved"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	LogLevel       *string
	GridSize       *string
	ReservedCells  *string
	SeedCandidates *int
	CacheTTL       *time.Duration
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	// Normalise the grid layout before validation so errors surface here
	// rather than at request time.
	normalized, err := storage.NormalizeLayout(cfg.InitialLayout)
	if err != nil {
		return Config{}, fmt.Errorf("validate grid layout: %w", err)
	}
	cfg.InitialLayout = normalized

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		LogLevel:             defaultLogLevel,
		InitialLayout:        storage.DefaultLayout(),
		SeedCandidates:       optimizer.DefaultSeedCandidates,
		CacheTTL:             0,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.Grid.Width > 0 {
		cfg.InitialLayout.Width = yamlCfg.Grid.Width
	}

	if yamlCfg.Grid.Height > 0 {
		cfg.InitialLayout.Height = yamlCfg.Grid.Height
	}

	if len(yamlCfg.Grid.Reserved) > 0 {
		cells := make([]optimizer.Cell, 0, len(yamlCfg.Grid.Reserved))
		for _, raw := range yamlCfg.Grid.Reserved {
			if cell, err := parseCell(raw); err == nil {
				cells = append(cells, cell)
			}
		}
		cfg.InitialLayout.Reserved = cells
	}

	if yamlCfg.SeedCandidates > 0 {
		cfg.SeedCandidates = yamlCfg.SeedCandidates
	}

	if yamlCfg.CacheTTL != "" {
		if d, err := time.ParseDuration(yamlCfg.CacheTTL); err == nil && d >= 0 {
			cfg.CacheTTL = d
		}
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if rawSize := strings.TrimSpace(os.Getenv("GRID_SIZE")); rawSize != "" {
		if width, height, err := parseGridSize(rawSize); err == nil {
			cfg.InitialLayout.Width = width
			cfg.InitialLayout.Height = height
		}
	}

	if rawCells := strings.TrimSpace(os.Getenv("RESERVED_CELLS")); rawCells != "" {
		if cells, err := parseReservedCells(rawCells); err == nil {
			cfg.InitialLayout.Reserved = cells
		}
	}

	if seeds := strings.TrimSpace(os.Getenv("SEED_CANDIDATES")); seeds != "" {
		if value, err := strconv.Atoi(seeds); err == nil && value > 0 {
			cfg.SeedCandidates = value
		}
	}

	if ttl := strings.TrimSpace(os.Getenv("CACHE_TTL")); ttl != "" {
		if value, err := time.ParseDuration(ttl); err == nil && value >= 0 {
			cfg.CacheTTL = value
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.GridSize != nil && *overrides.GridSize != "" {
		width, height, err := parseGridSize(*overrides.GridSize)
		if err != nil {
			return fmt.Errorf("parse grid size: %w", err)
		}
		cfg.InitialLayout.Width = width
		cfg.InitialLayout.Height = height
	}

	if overrides.ReservedCells != nil && *overrides.ReservedCells != "" {
		cells, err := parseReservedCells(*overrides.ReservedCells)
		if err != nil {
			return fmt.Errorf("parse reserved cells: %w", err)
		}
		cfg.InitialLayout.Reserved = cells
	}

	if overrides.SeedCandidates != nil && *overrides.SeedCandidates > 0 {
		cfg.SeedCandidates = *overrides.SeedCandidates
	}

	if overrides.CacheTTL != nil && *overrides.CacheTTL >= 0 {
		cfg.CacheTTL = *overrides.CacheTTL
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.SeedCandidates < 1 {
		return fmt.Errorf("seed_candidates must be >= 1")
	}
	if cfg.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must be >= 0")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	return nil
}

// parseGridSize parses a "WIDTHxHEIGHT" string such as "12x5".
func parseGridSize(raw string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(raw)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("grid size must look like 12x5, got %q", raw)
	}

	width, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid width %q", parts[0])
	}
	height, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid grid height %q", parts[1])
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	return width, height, nil
}

// parseReservedCells parses a semicolon-separated list of "x,y" cells such
// as "0,0;11,4".
func parseReservedCells(raw string) ([]optimizer.Cell, error) {
	parts := strings.Split(raw, ";")
	cells := make([]optimizer.Cell, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cell, err := parseCell(part)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("no reserved cells provided")
	}
	return cells, nil
}

// parseCell parses a single "x,y" cell reference.
func parseCell(raw string) (optimizer.Cell, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ",", 2)
	if len(parts) != 2 {
		return optimizer.Cell{}, fmt.Errorf("cell must look like x,y, got %q", raw)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return optimizer.Cell{}, fmt.Errorf("invalid cell x %q", parts[0])
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return optimizer.Cell{}, fmt.Errorf("invalid cell y %q", parts[1])
	}
	return optimizer.Cell{X: x, Y: y}, nil
}
