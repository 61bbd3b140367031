package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/livetree/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "livetree.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "livetree.yaml"

	// DefaultAddr is the default inspector listen address.
	DefaultAddr = "localhost:7070"

	// DefaultMaxCascade is the default bound on chained batches.
	DefaultMaxCascade = 100

	// DefaultArchiveDir is the default directory of the disk archive.
	DefaultArchiveDir = "snapshots"
)

// Archive kinds.
const (
	ArchiveNone = ""
	ArchiveDisk = "disk"
	ArchiveS3   = "s3"
)

// Config is the complete livetree configuration.
type Config struct {
	// Name identifies the project in logs and archive keys.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Inspector InspectorConfig `json:"inspector" yaml:"inspector"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
	Log       LogConfig       `json:"log" yaml:"log"`

	configPath string
}

// SchedulerConfig configures revalidation.
type SchedulerConfig struct {
	// MaxCascade bounds consecutive batches scheduled from inside a
	// batch. Zero means DefaultMaxCascade; negative disables the bound.
	MaxCascade int `json:"maxCascade,omitempty" yaml:"maxCascade,omitempty"`
}

// InspectorConfig configures the HTTP inspector.
type InspectorConfig struct {
	// Addr is the listen address. Default: DefaultAddr.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Metrics exposes /metrics.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// ArchiveConfig configures where settled snapshots are archived.
type ArchiveConfig struct {
	// Kind is "", "disk" or "s3".
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// Dir is the disk archive directory. Default: DefaultArchiveDir.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket, Prefix and Region locate the S3 archive.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is debug, info, warn or error. Default: info.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json. Default: text.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New returns a configuration with defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration from dir.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New(errors.CodeConfigRead).
		WithDetail("no " + JSONFileName + " or " + YAMLFileName + " in " + dir)
}

// LoadFile reads a configuration file. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.CodeConfigRead).Wrap(err)
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New(errors.CodeConfigRead).
			WithDetail("failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration from dir, falling back to the
// defaults when no file exists.
func LoadOrDefault(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// SaveTo writes the configuration to path. The format follows the
// extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigRead).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

func (c *Config) applyDefaults() {
	if c.Scheduler.MaxCascade == 0 {
		c.Scheduler.MaxCascade = DefaultMaxCascade
	}
	if c.Inspector.Addr == "" {
		c.Inspector.Addr = DefaultAddr
	}
	if c.Archive.Kind == ArchiveDisk && c.Archive.Dir == "" {
		c.Archive.Dir = DefaultArchiveDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Archive.Kind {
	case ArchiveNone, ArchiveDisk:
	case ArchiveS3:
		if c.Archive.Bucket == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("archive.bucket is required for the s3 archive")
		}
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown archive kind %q", c.Archive.Kind)
	}

	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown log level %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// MaxCascade returns the cascade bound to hand to the scheduler.
func (c *Config) MaxCascade() int {
	if c.Scheduler.MaxCascade < 0 {
		return 0
	}
	return c.Scheduler.MaxCascade
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the configured logger writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: levels[strings.ToLower(c.Log.Level)]}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists reports whether dir holds a configuration file.
func Exists(dir string) bool {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
