package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// configPtr holds the current config for thread-safe access.
var configPtr atomic.Pointer[Config]

// loadedConfigFile stores the path of the config file used by the last successful Load.
var loadedConfigFile atomic.Value

// Get returns the current Config. It is safe for concurrent use.
// If no config has been loaded yet, it returns the default config.
func Get() *Config {
	if c := configPtr.Load(); c != nil {
		return c
	}
	d := DefaultConfig()
	configPtr.Store(d)
	return d
}

// set stores a new Config atomically.
func set(cfg *Config) {
	configPtr.Store(cfg)
}

// Config is the top-level configuration for sqlcrew.
type Config struct {
	Server    ServerConfig              `mapstructure:"server"    toml:"server"`
	Database  DatabaseConfig            `mapstructure:"database"  toml:"database"`
	Providers map[string]ProviderConfig `mapstructure:"providers" toml:"providers"`
	LLM       LLMConfig                 `mapstructure:"llm"       toml:"llm"`
	Pipeline  PipelineConfig            `mapstructure:"pipeline"  toml:"pipeline"`
}

// ServerConfig holds the core daemon settings.
type ServerConfig struct {
	BindAddress  string `mapstructure:"bind_address"  toml:"bind_address"`
	APIPort      int    `mapstructure:"api_port"      toml:"api_port"`
	LogLevel     string `mapstructure:"log_level"     toml:"log_level"`
	DataDir      string `mapstructure:"data_dir"      toml:"data_dir"`
	ReadTimeout  int    `mapstructure:"read_timeout"  toml:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout" toml:"write_timeout"` // seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"  toml:"idle_timeout"`  // seconds
}

// DatabaseConfig describes the business database the assistant queries.
type DatabaseConfig struct {
	Path        string `mapstructure:"path"          toml:"path"`
	SeedOnStart bool   `mapstructure:"seed_on_start" toml:"seed_on_start"`
}

// ProviderConfig describes a single OpenAI-compatible LLM endpoint.
type ProviderConfig struct {
	Name    string `mapstructure:"name"     toml:"name"`
	APIBase string `mapstructure:"api_base" toml:"api_base"`
	KeyRef  string `mapstructure:"key_ref"  toml:"key_ref"`
	Model   string `mapstructure:"model"    toml:"model"`
	Enabled bool   `mapstructure:"enabled"  toml:"enabled"`
	Timeout int    `mapstructure:"timeout"  toml:"timeout"` // seconds
}

// TimeoutDuration returns the provider timeout as a time.Duration.
func (p ProviderConfig) TimeoutDuration() time.Duration {
	if p.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(p.Timeout) * time.Second
}

// LLMConfig selects the active provider and tunes collaborator calls.
type LLMConfig struct {
	DefaultProvider string  `mapstructure:"default_provider" toml:"default_provider"`
	Temperature     float64 `mapstructure:"temperature"      toml:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" toml:"max_output_tokens"`
}

// PipelineConfig tunes the analysis pipeline.
type PipelineConfig struct {
	ResultPreviewRows  int `mapstructure:"result_preview_rows"  toml:"result_preview_rows"`
	SchemaCacheEntries int `mapstructure:"schema_cache_entries" toml:"schema_cache_entries"`
	MaxResultRows      int `mapstructure:"max_result_rows"      toml:"max_result_rows"`
}

// Load reads configuration from disk with the following precedence:
//  1. Environment variables (SQLCREW_ prefix, _ as separator)
//  2. The file at explicitPath if non-empty
//  3. ~/.sqlcrew/sqlcrew.toml
//  4. ./sqlcrew.toml
//  5. Built-in defaults
//
// The loaded config is validated and stored in the global atomic pointer.
func Load(explicitPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	// Set all defaults from the default config so viper knows every key.
	setViperDefaults(v)

	// Environment variable overlay: SQLCREW_SERVER_API_PORT etc.
	v.SetEnvPrefix("SQLCREW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Determine which file(s) to read.
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".sqlcrew"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("sqlcrew")
	}

	if err := v.ReadInConfig(); err != nil {
		// If no config file exists we still proceed with defaults + env.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Store the resolved config file path.
	if cf := v.ConfigFileUsed(); cf != "" {
		loadedConfigFile.Store(cf)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Expand ~ in paths.
	cfg.Server.DataDir = expandHome(cfg.Server.DataDir)
	cfg.Database.Path = expandHome(cfg.Database.Path)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	set(cfg)
	return cfg, nil
}

// ActiveProvider returns the configured default provider, or an error if it
// is missing or disabled.
func (c *Config) ActiveProvider() (ProviderConfig, error) {
	name := c.LLM.DefaultProvider
	p, ok := c.Providers[name]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("config: llm.default_provider %q is not a configured provider", name)
	}
	if !p.Enabled {
		return ProviderConfig{}, fmt.Errorf("config: provider %q is disabled", name)
	}
	if p.Name == "" {
		p.Name = name
	}
	return p, nil
}

// InitConfig writes the default configuration file to ~/.sqlcrew/sqlcrew.toml.
// If the file already exists it is not overwritten.
func InitConfig() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("determining home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".sqlcrew")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dir, DefaultConfigFilename)
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists: %s\n", path)
		return nil
	}

	cfg := DefaultConfig()
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Config written to %s\n", path)
	return nil
}

// ExportConfig writes the current config to the given path in TOML format.
func ExportConfig(path string) error {
	cfg := Get()
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ImportConfig reads a TOML config file and merges it into the current config.
// The imported config is also persisted to the active config file so changes
// survive restarts.
func ImportConfig(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return err
	}
	set(cfg)

	// Persist to the active config file so changes survive restart.
	if dest := ConfigFilePath(); dest != "" {
		out, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshalling config for persistence: %w", err)
		}
		if err := os.WriteFile(dest, out, 0o600); err != nil {
			return fmt.Errorf("persisting imported config: %w", err)
		}
	}

	return nil
}

// ConfigFilePath returns the path of the config file that was loaded, or
// empty if no file was found.
func ConfigFilePath() string {
	if v, ok := loadedConfigFile.Load().(string); ok {
		return v
	}
	return ""
}

// setViperDefaults registers every known key with viper so that env var binding
// works for all fields even when no config file is present.
func setViperDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Server
	v.SetDefault("server.bind_address", d.Server.BindAddress)
	v.SetDefault("server.api_port", d.Server.APIPort)
	v.SetDefault("server.log_level", d.Server.LogLevel)
	v.SetDefault("server.data_dir", d.Server.DataDir)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)

	// Database
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.seed_on_start", d.Database.SeedOnStart)

	// LLM
	v.SetDefault("llm.default_provider", d.LLM.DefaultProvider)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.max_output_tokens", d.LLM.MaxOutputTokens)

	// Pipeline
	v.SetDefault("pipeline.result_preview_rows", d.Pipeline.ResultPreviewRows)
	v.SetDefault("pipeline.schema_cache_entries", d.Pipeline.SchemaCacheEntries)
	v.SetDefault("pipeline.max_result_rows", d.Pipeline.MaxResultRows)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
