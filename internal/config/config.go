// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tabula/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tabula configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid" json:"grid" yaml:"grid"`
	UI      UIConfig      `toml:"ui" json:"ui" yaml:"ui"`
	Watch   WatchConfig   `toml:"watch" json:"watch" yaml:"watch"`
	Engine  EngineConfig  `toml:"engine" json:"engine" yaml:"engine"`
	Log     LogConfig     `toml:"log" json:"log" yaml:"log"`
	History HistoryConfig `toml:"history" json:"history" yaml:"history"`
	CSV     CSVConfig     `toml:"csv" json:"csv" yaml:"csv"`
}

// GridConfig controls chunked loading and column widths.
type GridConfig struct {
	// ChunkRows is the number of rows fetched per block.
	ChunkRows int `toml:"chunk_rows" json:"chunk_rows" yaml:"chunk_rows"`
	// MaxResidentChunks bounds the cache per frame (0 = unbounded).
	MaxResidentChunks int `toml:"max_resident_chunks" json:"max_resident_chunks" yaml:"max_resident_chunks"`
	// PrefetchChunks is how many blocks are read ahead of the window.
	PrefetchChunks int `toml:"prefetch_chunks" json:"prefetch_chunks" yaml:"prefetch_chunks"`
	// MaxColumnWidth caps content-fit columns.
	MaxColumnWidth int `toml:"max_column_width" json:"max_column_width" yaml:"max_column_width"`
	// MinColumnWidth is the narrowest content-fit column.
	MinColumnWidth int `toml:"min_column_width" json:"min_column_width" yaml:"min_column_width"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme        string `toml:"theme" json:"theme" yaml:"theme"`
	Mouse        bool   `toml:"mouse" json:"mouse" yaml:"mouse"`
	ShowHelp     bool   `toml:"show_help" json:"show_help" yaml:"show_help"`
	HighlightSQL bool   `toml:"highlight_sql" json:"highlight_sql" yaml:"highlight_sql"`
}

// WatchConfig controls reloading of changed files.
type WatchConfig struct {
	Enabled          bool `toml:"enabled" json:"enabled" yaml:"enabled"`
	DebounceMs       int  `toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
	PollIntervalSecs int  `toml:"poll_interval_secs" json:"poll_interval_secs" yaml:"poll_interval_secs"`
}

// EngineConfig configures the query database.
type EngineConfig struct {
	// Database is a persistent database file (empty = scratch file).
	Database string `toml:"database" json:"database" yaml:"database"`
	// TempDir holds the scratch file (empty = system temp dir).
	TempDir string `toml:"temp_dir" json:"temp_dir" yaml:"temp_dir"`
}

// LogConfig configures debug logging.
type LogConfig struct {
	// File receives the debug log. Empty disables logging unless
	// TABULA_DEBUG is set.
	File string `toml:"file" json:"file" yaml:"file"`
}

// HistoryConfig configures prompt history persistence.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries" json:"max_entries" yaml:"max_entries"`
	// File is the history file (empty = ~/.tabula/history.json).
	File string `toml:"file" json:"file" yaml:"file"`
}

// CSVConfig controls delimited text parsing.
type CSVConfig struct {
	// Delimiter is a single character, "tab", or empty to infer it.
	Delimiter  string `toml:"delimiter" json:"delimiter" yaml:"delimiter"`
	HasHeader  bool   `toml:"has_header" json:"has_header" yaml:"has_header"`
	SampleRows int    `toml:"sample_rows" json:"sample_rows" yaml:"sample_rows"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			ChunkRows:         1024,
			MaxResidentChunks: 64,
			PrefetchChunks:    1,
			MaxColumnWidth:    25,
			MinColumnWidth:    5,
		},
		UI: UIConfig{
			Theme:        "auto",
			Mouse:        true,
			ShowHelp:     true,
			HighlightSQL: true,
		},
		Watch: WatchConfig{
			Enabled:          true,
			DebounceMs:       500,
			PollIntervalSecs: 2,
		},
		History: HistoryConfig{
			MaxEntries: 100,
		},
		CSV: CSVConfig{
			HasHeader:  true,
			SampleRows: 1000,
		},
	}
}

// SetDefaults fills zero numeric settings with their defaults.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Grid.ChunkRows == 0 {
		c.Grid.ChunkRows = def.Grid.ChunkRows
	}
	if c.Grid.MaxColumnWidth == 0 {
		c.Grid.MaxColumnWidth = def.Grid.MaxColumnWidth
	}
	if c.Grid.MinColumnWidth == 0 {
		c.Grid.MinColumnWidth = def.Grid.MinColumnWidth
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	if c.Watch.DebounceMs == 0 {
		c.Watch.DebounceMs = def.Watch.DebounceMs
	}
	if c.Watch.PollIntervalSecs == 0 {
		c.Watch.PollIntervalSecs = def.Watch.PollIntervalSecs
	}
	if c.CSV.SampleRows == 0 {
		c.CSV.SampleRows = def.CSV.SampleRows
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the tabula configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tabula"), nil
}

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return configPath("config.toml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return configPath("config.json") }

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) { return configPath("config.yaml") }

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the first config file found, then applies
// environment overrides, defaults and validation. A file that fails to parse
// is reported alongside the defaults.
func Load() (*Config, error) {
	var loadErr error
	for _, find := range []func() (string, error){ConfigPathTOML, ConfigPathJSON, ConfigPathYAML} {
		path, err := find()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		loadErr = err
		break
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg. Comments and trailing commas are
// stripped first.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadYAML decodes a YAML file over cfg.
func LoadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode YAML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file. The format follows
// the extension; anything unrecognized is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		err = LoadJSON(cfg, path)
	case ".yaml", ".yml":
		err = LoadYAML(cfg, path)
	default:
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to path atomically.
func SaveTOML(cfg *Config, path string) error {
	err := util.AtomicWrite(path, 0644, func(w io.Writer) error {
		if _, err := io.WriteString(w, "# tabula configuration file\n\n"); err != nil {
			return err
		}
		return toml.NewEncoder(w).Encode(cfg)
	})
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to path atomically.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ErrBadDelimiter is returned by Delimiter for an unusable setting.
var ErrBadDelimiter = errors.New("delimiter must be a single character or \"tab\"")

func rangeCheck(errs *ValidationErrors, field string, v, lo, hi int) {
	if v < lo || v > hi {
		*errs = append(*errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d, got %d", lo, hi, v),
		})
	}
}

// Validate validates the configuration and returns ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors

	rangeCheck(&errs, "grid.chunk_rows", c.Grid.ChunkRows, 16, 1<<20)
	rangeCheck(&errs, "grid.max_resident_chunks", c.Grid.MaxResidentChunks, 0, 1<<16)
	rangeCheck(&errs, "grid.prefetch_chunks", c.Grid.PrefetchChunks, 0, 16)
	rangeCheck(&errs, "grid.min_column_width", c.Grid.MinColumnWidth, 1, 1000)
	rangeCheck(&errs, "grid.max_column_width", c.Grid.MaxColumnWidth, 1, 1000)
	if c.Grid.MinColumnWidth > c.Grid.MaxColumnWidth {
		errs = append(errs, ValidationError{
			Field:   "grid.min_column_width",
			Message: fmt.Sprintf("%d exceeds max_column_width %d", c.Grid.MinColumnWidth, c.Grid.MaxColumnWidth),
		})
	}

	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	rangeCheck(&errs, "watch.debounce_ms", c.Watch.DebounceMs, 1, 60000)
	rangeCheck(&errs, "watch.poll_interval_secs", c.Watch.PollIntervalSecs, 1, 3600)
	rangeCheck(&errs, "history.max_entries", c.History.MaxEntries, 0, 100000)
	rangeCheck(&errs, "csv.sample_rows", c.CSV.SampleRows, 1, 1000000)

	if _, err := c.Delimiter(); err != nil {
		errs = append(errs, ValidationError{Field: "csv.delimiter", Message: err.Error()})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Delimiter returns the configured CSV delimiter, zero to infer it.
func (c *Config) Delimiter() (rune, error) {
	d := c.CSV.Delimiter
	switch strings.ToLower(d) {
	case "":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(d)
	if size != len(d) || r == utf8.RuneError || r == '"' || r == '\n' || r == '\r' {
		return 0, ErrBadDelimiter
	}
	return r, nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func envBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
}

func envInt(name string, dst *int) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// ApplyEnvOverrides applies TABULA_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv("TABULA_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if mouse := os.Getenv("TABULA_MOUSE"); mouse != "" {
		c.UI.Mouse = envBool(mouse)
	}
	envInt("TABULA_CHUNK_ROWS", &c.Grid.ChunkRows)
	envInt("TABULA_MAX_COLUMN_WIDTH", &c.Grid.MaxColumnWidth)

	if noWatch := os.Getenv("TABULA_NO_WATCH"); noWatch != "" {
		c.Watch.Enabled = !envBool(noWatch)
	}
	if db := os.Getenv("TABULA_DB"); db != "" {
		c.Engine.Database = db
	}
	if delim := os.Getenv("TABULA_DELIMITER"); delim != "" {
		c.CSV.Delimiter = delim
	}
	if file := os.Getenv("TABULA_LOG"); file != "" {
		c.Log.File = file
	}
	if envBool(os.Getenv("TABULA_DEBUG")) && c.Log.File == "" {
		if dir, err := ConfigDir(); err == nil {
			c.Log.File = filepath.Join(dir, "debug.log")
		}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// HistoryPath returns the history file, defaulting to ~/.tabula/history.json.
func (c *Config) HistoryPath() (string, error) {
	if c.History.File != "" {
		return c.History.File, nil
	}
	return configPath("history.json")
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
