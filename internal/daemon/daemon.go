// Package daemon wires the assistant together: configuration, logging,
// the business database, the LLM collaborators, the pipeline, and the
// JSON API server.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/sqlcrew/internal/config"
	"github.com/allaspectsdev/sqlcrew/internal/llm"
	"github.com/allaspectsdev/sqlcrew/internal/metrics"
	"github.com/allaspectsdev/sqlcrew/internal/pipeline"
	"github.com/allaspectsdev/sqlcrew/internal/schemainfo"
	"github.com/allaspectsdev/sqlcrew/internal/server"
	"github.com/allaspectsdev/sqlcrew/internal/store"
	"github.com/allaspectsdev/sqlcrew/internal/vault"
	"github.com/allaspectsdev/sqlcrew/internal/version"
)

// boundExecutor applies the configured row caps to every execution.
type boundExecutor struct {
	st   *store.Store
	opts store.ExecuteOptions
}

func (e boundExecutor) Execute(ctx context.Context, query string) (*store.Result, string) {
	return e.st.ExecuteWith(ctx, query, e.opts)
}

// stack is everything the daemon and the one-shot ask command share.
type stack struct {
	st        *store.Store
	cache     *schemainfo.Cache
	collector *metrics.Collector
	orch      *pipeline.Orchestrator
}

// buildStack opens the database, seeds it if configured and empty,
// resolves the provider key, and wires the pipeline.
func buildStack(cfg *config.Config) (*stack, error) {
	dbPath := expandHome(cfg.Database.Path)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info().Str("db_path", dbPath).Msg("database opened")

	if cfg.Database.SeedOnStart {
		seeded, err := st.Seeded()
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("checking database contents: %w", err)
		}
		if !seeded {
			log.Info().Msg("database is empty, seeding sample business data")
			if err := st.Seed(); err != nil {
				st.Close()
				return nil, fmt.Errorf("seeding database: %w", err)
			}
		}
	}

	provider, err := cfg.ActiveProvider()
	if err != nil {
		st.Close()
		return nil, err
	}
	apiKey, err := vault.New().ResolveKeyRef(provider.KeyRef)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("resolving API key for provider %q: %w (set it with: sqlcrew keys set %s)",
			provider.Name, err, provider.Name)
	}

	client, err := llm.NewClient(llm.Config{
		BaseURL:     provider.APIBase,
		APIKey:      apiKey,
		Model:       provider.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxOutputTokens,
	})
	if err != nil {
		st.Close()
		return nil, err
	}
	log.Info().Str("provider", provider.Name).Str("model", provider.Model).Msg("llm client ready")

	cache, err := schemainfo.NewCache(st, cfg.Pipeline.SchemaCacheEntries)
	if err != nil {
		st.Close()
		return nil, err
	}

	collector := metrics.NewCollector()
	orch, err := pipeline.New(pipeline.Config{
		Schema:     cache,
		Generator:  client,
		Reviewer:   client,
		Compliance: client,
		Executor: boundExecutor{st: st, opts: store.ExecuteOptions{
			MaxRows:     cfg.Pipeline.MaxResultRows,
			PreviewRows: cfg.Pipeline.ResultPreviewRows,
		}},
		Insight: llm.NewInsights(client),
		History: pipeline.NewHistory(),
		Metrics: collector,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &stack{st: st, cache: cache, collector: collector, orch: orch}, nil
}

// Run is the main daemon entrypoint. It initialises all subsystems,
// starts the API server, and blocks until a shutdown signal arrives.
func Run(cfg *config.Config, foreground bool) error {
	dataDir := expandHome(cfg.Server.DataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	zerolog.SetGlobalLevel(parseLogLevel(cfg.Server.LogLevel))

	writers := []io.Writer{}

	// Always log to file.
	logPath := filepath.Join(dataDir, "sqlcrew.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", logPath, err)
	}
	defer logFile.Close()
	writers = append(writers, logFile)

	// If foreground, also write to stdout with console formatting.
	if foreground {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	multi := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multi).With().Timestamp().Str("service", "sqlcrew").Logger()

	log.Info().
		Str("version", version.Version).
		Str("data_dir", dataDir).
		Bool("foreground", foreground).
		Msg("sqlcrew starting")

	if IsRunning(dataDir) {
		return fmt.Errorf("sqlcrew is already running (PID file exists at %s)", filepath.Join(dataDir, pidFilename))
	}

	s, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer s.st.Close()

	if err := WritePID(dataDir); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() {
		if err := RemovePID(dataDir); err != nil {
			log.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	log.Info().Int("pid", os.Getpid()).Msg("PID file written")

	// Config watcher for hot reload of the log level.
	configFile := config.ConfigFilePath()
	if configFile == "" {
		configFile = filepath.Join(dataDir, config.DefaultConfigFilename)
	}
	if _, statErr := os.Stat(configFile); statErr == nil {
		w, watchErr := config.Watch(configFile)
		if watchErr != nil {
			log.Warn().Err(watchErr).Msg("failed to start config watcher; continuing without hot-reload")
		} else {
			defer w.Close()
			w.OnChange(func(old, newCfg *config.Config) {
				log.Info().Msg("configuration reloaded")
				zerolog.SetGlobalLevel(parseLogLevel(newCfg.Server.LogLevel))
			})
			log.Info().Str("file", configFile).Msg("config watcher started")
		}
	}

	apiAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.APIPort)
	srv := server.New(s.orch, s.cache, s.collector, server.Options{
		Addr:         apiAddr,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	log.Info().Str("addr", apiAddr).Msg("sqlcrew is ready")
	if foreground {
		fmt.Printf("\n  sqlcrew is running!\n")
		fmt.Printf("  API: http://%s\n\n", apiAddr)
	}

	// Wait for shutdown signal or fatal error.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("fatal server error")
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Info().Msg("shutting down...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api server shutdown error")
	}

	log.Info().Msg("sqlcrew stopped")
	return nil
}

// Ask runs one prompt through the pipeline without the daemon and
// prints the record: SQL, compliance verdict, and result.
func Ask(cfg *config.Config, prompt string) error {
	// Keep startup log noise out of the one-shot output.
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	s, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer s.st.Close()

	provider, _ := cfg.ActiveProvider()
	timeout := provider.TimeoutDuration()
	ctx, cancel := context.WithTimeout(context.Background(), 4*timeout)
	defer cancel()

	rec := s.orch.Run(ctx, prompt)

	fmt.Printf("Status:    %s\n", rec.Status)
	if rec.GeneratedSQL != "" {
		fmt.Printf("Generated: %s\n", rec.GeneratedSQL)
	}
	if rec.ReviewedSQL != "" {
		fmt.Printf("Reviewed:  %s\n", rec.ReviewedSQL)
	}
	if rec.ComplianceReport != "" {
		fmt.Printf("Report:    %s\n", rec.ComplianceReport)
	}
	if rec.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", rec.ErrorMessage)
	}
	if rec.QueryResult != "" {
		fmt.Printf("\n%s\n", rec.QueryResult)
	}
	fmt.Printf("\nCost: $%.4f\n", rec.Cost)
	return nil
}

// Seed populates the business database with sample data.
func Seed(cfg *config.Config) error {
	dbPath := expandHome(cfg.Database.Path)
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	seeded, err := st.Seeded()
	if err != nil {
		return fmt.Errorf("checking database contents: %w", err)
	}
	if seeded {
		fmt.Printf("Database already contains data: %s\n", dbPath)
		return nil
	}

	fmt.Printf("Seeding sample business data into %s ...\n", dbPath)
	if err := st.Seed(); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	fmt.Println("Done.")
	return nil
}

// Stop reads the PID file and sends SIGTERM to the running daemon.
func Stop() error {
	dataDir := expandHome(config.Get().Server.DataDir)

	pid, err := ReadPID(dataDir)
	if err != nil {
		return fmt.Errorf("sqlcrew does not appear to be running: %w", err)
	}

	if !isProcessAlive(pid) {
		// Stale PID file; clean it up.
		if rmErr := RemovePID(dataDir); rmErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove stale PID file: %v\n", rmErr)
		}
		return fmt.Errorf("sqlcrew is not running (stale PID file removed)")
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending SIGTERM to process %d: %w", pid, err)
	}

	fmt.Printf("Sent SIGTERM to sqlcrew (PID %d)\n", pid)

	// Wait briefly for the process to exit.
	for i := 0; i < 30; i++ {
		time.Sleep(100 * time.Millisecond)
		if !isProcessAlive(pid) {
			return nil
		}
	}

	return nil
}

// Status checks if the daemon is running and prints a summary.
func Status() error {
	cfg := config.Get()
	dataDir := expandHome(cfg.Server.DataDir)

	if !IsRunning(dataDir) {
		fmt.Println("sqlcrew is not running")
		return nil
	}

	pid, _ := ReadPID(dataDir)
	fmt.Printf("sqlcrew is running (PID %d)\n", pid)

	statsURL := fmt.Sprintf("http://%s:%d/api/stats", cfg.Server.BindAddress, cfg.Server.APIPort)
	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get(statsURL)
	if err != nil {
		fmt.Println("  (api unreachable)")
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	var stats metrics.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil
	}

	fmt.Printf("\n  Uptime:            %s\n", stats.Uptime)
	fmt.Printf("  Runs:              %d\n", stats.TotalRuns)
	fmt.Printf("  Completed:         %d\n", stats.Completed)
	fmt.Printf("  Query failed:      %d\n", stats.QueryFailed)
	fmt.Printf("  Compliance failed: %d\n", stats.ComplianceFailed)
	fmt.Printf("  Errors:            %d\n", stats.Errors)
	fmt.Printf("  Cost:              $%.4f\n", stats.CostUSD)

	return nil
}

// parseLogLevel converts a string log level to a zerolog.Level.
func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
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
