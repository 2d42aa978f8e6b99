package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/dhalloway/textgrab/pkg/textgrab/policy"
	"github.com/dhalloway/textgrab/pkg/textgrab/types"
)

// appName is the directory name used under the XDG base directories.
const appName = "textgrab"

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// OutputConfig configures report rendering and persistence.
type OutputConfig struct {
	Format           string `mapstructure:"format"`
	Compression      string `mapstructure:"compression"`
	CompressionLevel int    `mapstructure:"compression_level"`
}

// CacheConfig configures the persistent text-verdict store.
type CacheConfig struct {
	// Persist enables the on-disk verdict store; the in-memory cache is
	// always active.
	Persist bool `mapstructure:"persist"`

	// Path overrides the store location. Empty means the XDG cache dir.
	Path string `mapstructure:"path"`

	// Size is the in-memory verdict cache capacity.
	Size int `mapstructure:"size"`
}

// Config represents the application configuration.
type Config struct {
	MaxFileSize string            `mapstructure:"max_file_size"`
	SizeLimits  map[string]string `mapstructure:"size_limits"`

	ShowHiddenFiles bool `mapstructure:"show_hidden_files"`
	ShowHiddenDirs  bool `mapstructure:"show_hidden_dirs"`

	Workers   int `mapstructure:"workers"`
	ChunkSize int `mapstructure:"chunk_size"`

	ExcludedExtensions  []string `mapstructure:"excluded_extensions"`
	ExcludedDirectories []string `mapstructure:"excluded_directories"`
	ExcludedFiles       []string `mapstructure:"excluded_files"`
	TextExtensions      []string `mapstructure:"text_extensions"`

	Output  OutputConfig  `mapstructure:"output"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/textgrab/config.yaml
//   - $HOME/.config/textgrab/config.yaml
//
// Environment variables are prefixed with TEXTGRAB_
// (e.g., TEXTGRAB_MAX_FILE_SIZE, TEXTGRAB_OUTPUT_FORMAT).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, appName))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", appName))

	v.SetEnvPrefix("TEXTGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.HasPrefix(cfg.Cache.Path, "~") {
		cfg.Cache.Path = filepath.Join(homeDir, cfg.Cache.Path[1:])
	}

	return &cfg, nil
}

// setDefaults registers every default so a missing config file still
// yields a complete configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("size_limits", DefaultSizeLimits)
	v.SetDefault("show_hidden_files", false)
	v.SetDefault("show_hidden_dirs", false)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("chunk_size", DefaultChunkSize)
	v.SetDefault("excluded_extensions", DefaultExcludedExtensions)
	v.SetDefault("excluded_directories", DefaultExcludedDirectories)
	v.SetDefault("excluded_files", DefaultExcludedFiles)
	v.SetDefault("text_extensions", DefaultTextExtensions)

	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.compression", DefaultCompression)
	v.SetDefault("output.compression_level", DefaultCompressionLevel)

	v.SetDefault("cache.persist", false)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.size", DefaultCacheSize)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"scanner":  "info",
		"classify": "warn",
		"output":   "info",
	})
}

// Policy converts the configuration into a scan policy, parsing
// human-readable size strings into byte counts.
func (c *Config) Policy() (*policy.Policy, error) {
	maxSize, err := types.ParseSize(c.MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("max_file_size: %w", err)
	}

	limits := make(map[string]int64, len(c.SizeLimits))
	for ext, s := range c.SizeLimits {
		n, err := types.ParseSize(s)
		if err != nil {
			return nil, fmt.Errorf("size_limits[%s]: %w", ext, err)
		}
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		limits[ext] = n
	}

	return &policy.Policy{
		MaxFileSize:         maxSize,
		SizeLimits:          limits,
		IncludeHiddenFiles:  c.ShowHiddenFiles,
		IncludeHiddenDirs:   c.ShowHiddenDirs,
		ExcludedExtensions:  policy.NewExtensionSet(c.ExcludedExtensions),
		ExcludedDirectories: policy.NewSet(c.ExcludedDirectories),
		ExcludedFiles:       policy.NewSet(c.ExcludedFiles),
		TextExtensions:      policy.NewExtensionSet(c.TextExtensions),
	}, nil
}

// CachePath returns the verdict store location, defaulting to the XDG
// cache directory.
func (c *Config) CachePath() string {
	if c.Cache.Path != "" {
		return c.Cache.Path
	}
	return filepath.Join(xdg.CacheHome, appName, "verdicts")
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", appName), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Textgrab Scanner Configuration

# Default cap on content read from a single file
max_file_size: %s

# Per-extension read caps overriding max_file_size
size_limits:
  .log: 16KiB
  .txt: 32KiB
  .md: 64KiB
  .json: 128KiB

# Hidden entries (names starting with a dot)
show_hidden_files: false
show_hidden_dirs: false

# Worker pool size (clamped to 1..16)
workers: %d

# Chunk size in bytes for streaming reads
chunk_size: %d

# Exclusion lists; omit to use the built-in defaults
# excluded_extensions: [".exe", ".png"]
# excluded_directories: [".git", "node_modules"]
# excluded_files: [".DS_Store"]

# Output settings
output:
  # Format: txt, json, jsonl, yaml, csv, tsv, markdown, table, pretty
  format: %s
  # Compression: gzip, zstd, xz, none
  compression: %s
  compression_level: %d

# Text-verdict cache
cache:
  # Persist verdicts on disk between runs
  persist: false
  # Store location (empty means $XDG_CACHE_HOME/textgrab/verdicts)
  path: ""
  size: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/textgrab/textgrab.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  # Per-component log levels
  components:
    scanner: info
    classify: warn
    output: info
`,
		DefaultMaxFileSize,
		DefaultWorkers,
		DefaultChunkSize,
		DefaultFormat,
		DefaultCompression,
		DefaultCompressionLevel,
		DefaultCacheSize,
	)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}
