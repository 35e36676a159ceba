package internal

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// indexFileName is the catalog database created inside the notes directory
// when index.path is left empty.
const indexFileName = ".scribe-index.db"

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Notes NotesConfig       `yaml:"notes"`
	Index IndexConfig       `yaml:"index"`
	Watch WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notes.Validate(); err != nil {
		return err
	}
	return c.Index.Validate()
}

// IndexPath returns the catalog database path, defaulting to a file inside
// the notes directory.
func (c *Config) IndexPath() string {
	if c.Index.Path != "" {
		return c.Index.Path
	}
	return filepath.Join(c.Notes.Dir, indexFileName)
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	LogFile  string     `yaml:"log_file"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	c.LogFile = ExpandHome(c.LogFile)
	return validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In(slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError)),
	)
}

// NotesConfig holds the location of the notes directory.
type NotesConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	c.Dir = ExpandHome(c.Dir)
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// IndexConfig controls the SQLite catalog used by :find.
type IndexConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the index configuration. An empty path selects the
// default location, see Config.IndexPath.
func (c *IndexConfig) Validate() error {
	c.Path = ExpandHome(c.Path)
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.When(c.Path != "", validation.Length(1, 4096))),
	)
}

// WatchConfig toggles the notes directory watcher.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelWarn,
		},
		Notes: NotesConfig{
			Dir: "~/.notes",
		},
		Index: IndexConfig{
			Enabled: true,
		},
		Watch: WatchConfig{
			Enabled: true,
		},
	}
}
