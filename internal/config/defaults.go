package config

// DefaultBindAddress is the default bind address (localhost only for security).
const DefaultBindAddress = "127.0.0.1"

// DefaultAPIPort is the default port for the HTTP API server.
const DefaultAPIPort = 7787

// DefaultLogLevel is the default log level.
const DefaultLogLevel = "info"

// DefaultDataDir is the default data directory (before tilde expansion).
const DefaultDataDir = "~/.sqlcrew"

// DefaultConfigFilename is the name of the config file.
const DefaultConfigFilename = "sqlcrew.toml"

// DefaultDatabasePath is the default business database path (before tilde expansion).
const DefaultDatabasePath = "~/.sqlcrew/business.db"

// DefaultProviderTimeout is the default provider timeout in seconds.
const DefaultProviderTimeout = 60

// DefaultReadTimeout is the default HTTP server read timeout in seconds.
const DefaultReadTimeout = 10

// DefaultWriteTimeout is the default HTTP server write timeout in seconds.
// Set high (5 minutes) because a pipeline run makes three LLM calls.
const DefaultWriteTimeout = 300

// DefaultIdleTimeout is the default HTTP server idle timeout in seconds.
const DefaultIdleTimeout = 120

// DefaultTemperature is the default sampling temperature for collaborator calls.
const DefaultTemperature = 0.1

// DefaultMaxOutputTokens is the default completion token cap per collaborator call.
const DefaultMaxOutputTokens = 1024

// DefaultResultPreviewRows is the number of rows shown in a result synopsis.
const DefaultResultPreviewRows = 5

// DefaultSchemaCacheEntries is the size of the schema-metadata LRU cache.
const DefaultSchemaCacheEntries = 64

// DefaultMaxResultRows caps how many rows the executor materializes per query.
const DefaultMaxResultRows = 10000

// ValidLogLevels lists the allowed log level values.
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BindAddress:  DefaultBindAddress,
			APIPort:      DefaultAPIPort,
			LogLevel:     DefaultLogLevel,
			DataDir:      DefaultDataDir,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		Database: DatabaseConfig{
			Path:        DefaultDatabasePath,
			SeedOnStart: true,
		},
		Providers: map[string]ProviderConfig{
			"openai": {
				Name:    "OpenAI",
				APIBase: "https://api.openai.com/v1",
				KeyRef:  "keyring://sqlcrew/openai",
				Model:   "gpt-4o-mini",
				Enabled: true,
				Timeout: DefaultProviderTimeout,
			},
			"dashscope": {
				Name:    "DashScope",
				APIBase: "https://dashscope.aliyuncs.com/compatible-mode/v1",
				KeyRef:  "keyring://sqlcrew/dashscope",
				Model:   "qwen-plus",
				Enabled: true,
				Timeout: DefaultProviderTimeout,
			},
		},
		LLM: LLMConfig{
			DefaultProvider: "openai",
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
		Pipeline: PipelineConfig{
			ResultPreviewRows:  DefaultResultPreviewRows,
			SchemaCacheEntries: DefaultSchemaCacheEntries,
			MaxResultRows:      DefaultMaxResultRows,
		},
	}
}
