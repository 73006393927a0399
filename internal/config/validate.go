package config

import (
	"fmt"
	"strings"
)

// validate checks the Config for invalid or out-of-range values.
// It returns a combined error if any checks fail.
func validate(cfg *Config) error {
	var errs []string

	// Server validation
	if cfg.Server.APIPort < 1 || cfg.Server.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("server.api_port must be between 1 and 65535, got %d", cfg.Server.APIPort))
	}
	if !isValidEnum(cfg.Server.LogLevel, ValidLogLevels) {
		errs = append(errs, fmt.Sprintf("server.log_level must be one of %v, got %q", ValidLogLevels, cfg.Server.LogLevel))
	}
	if cfg.Server.DataDir == "" {
		errs = append(errs, "server.data_dir must not be empty")
	}
	if cfg.Server.ReadTimeout < 0 {
		errs = append(errs, fmt.Sprintf("server.read_timeout must be non-negative, got %d", cfg.Server.ReadTimeout))
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, fmt.Sprintf("server.write_timeout must be non-negative, got %d", cfg.Server.WriteTimeout))
	}
	if cfg.Server.IdleTimeout < 0 {
		errs = append(errs, fmt.Sprintf("server.idle_timeout must be non-negative, got %d", cfg.Server.IdleTimeout))
	}

	// Database validation
	if cfg.Database.Path == "" {
		errs = append(errs, "database.path must not be empty")
	}

	// Provider validation
	for name, p := range cfg.Providers {
		if p.APIBase == "" {
			errs = append(errs, fmt.Sprintf("providers.%s.api_base must not be empty", name))
		}
		if p.Model == "" {
			errs = append(errs, fmt.Sprintf("providers.%s.model must not be empty", name))
		}
		if p.Timeout < 0 {
			errs = append(errs, fmt.Sprintf("providers.%s.timeout must be non-negative", name))
		}
	}

	// LLM validation
	if cfg.LLM.DefaultProvider != "" {
		if _, ok := cfg.Providers[cfg.LLM.DefaultProvider]; !ok {
			errs = append(errs, fmt.Sprintf("llm.default_provider %q is not a configured provider", cfg.LLM.DefaultProvider))
		}
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, fmt.Sprintf("llm.temperature must be between 0 and 2, got %f", cfg.LLM.Temperature))
	}
	if cfg.LLM.MaxOutputTokens < 0 {
		errs = append(errs, fmt.Sprintf("llm.max_output_tokens must be non-negative, got %d", cfg.LLM.MaxOutputTokens))
	}

	// Pipeline validation
	if cfg.Pipeline.ResultPreviewRows < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.result_preview_rows must be at least 1, got %d", cfg.Pipeline.ResultPreviewRows))
	}
	if cfg.Pipeline.SchemaCacheEntries < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.schema_cache_entries must be at least 1, got %d", cfg.Pipeline.SchemaCacheEntries))
	}
	if cfg.Pipeline.MaxResultRows < 1 {
		errs = append(errs, fmt.Sprintf("pipeline.max_result_rows must be at least 1, got %d", cfg.Pipeline.MaxResultRows))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// isValidEnum returns true if val is in the allowed list (case-insensitive).
func isValidEnum(val string, allowed []string) bool {
	lower := strings.ToLower(val)
	for _, a := range allowed {
		if strings.ToLower(a) == lower {
			return true
		}
	}
	return false
}
