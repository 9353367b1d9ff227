package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/config"
	"github.com/abhisek/mathquiz/internal/logging"
	"github.com/abhisek/mathquiz/internal/offline"
	"github.com/abhisek/mathquiz/internal/store"
)

// cfg is resolved once per invocation before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "mathquiz",
	Short: "Terminal math quiz with an offline question cache",
	Long: "Math Quiz: pick a grade, subject and topic, answer multiple choice questions " +
		"and review your score. Question banks served over HTTP are cached for offline play.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("env-file", ".env", "Path to a .env file loaded before reading MATHQUIZ_* variables")
	flags.String("db", "", "Path to SQLite cache database (overrides MATHQUIZ_DB env var)")
	flags.String("backend", "", "Cache backend: sqlite, redis or memory (overrides MATHQUIZ_CACHE_BACKEND)")
	flags.String("origin", "", "Origin serving the app shell and question bank (overrides MATHQUIZ_ORIGIN)")
	flags.String("bank", "", "Question bank path or URL (overrides MATHQUIZ_BANK)")
	flags.String("log-level", "", "Log level: debug, info, warn or error (overrides MATHQUIZ_LOG_LEVEL)")
	flags.String("log-file", "", "Write JSON logs to this file (overrides MATHQUIZ_LOG_FILE)")

	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(facetsCmd)
	rootCmd.AddCommand(bumpCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env, then the environment, then flags, highest last.
func loadConfig(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	var err error
	cfg, err = config.FromEnv()
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"db":        &cfg.Cache.DB,
		"backend":   &cfg.Cache.Backend,
		"origin":    &cfg.Origin,
		"bank":      &cfg.Bank,
		"log-level": &cfg.Log.Level,
		"log-file":  &cfg.Log.File,
	}
	for name, dst := range overrides {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			*dst = v
		}
	}
	return cfg.Validate()
}

// resolveDBPath returns the database path using --db / MATHQUIZ_DB first,
// then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Cache.DB; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStorage opens the configured cache backend.
func openStorage(ctx context.Context) (store.CacheStorage, error) {
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		return store.NewMemory(), nil
	case config.BackendRedis:
		return store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	default:
		dbPath, err := resolveDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return st, nil
	}
}

// newLogger builds the process logger writing to terminal, which may be nil.
func newLogger(terminal io.Writer, journal bool) (*slog.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Terminal: terminal,
		File:     cfg.Log.File,
		Journal:  journal,
	})
}

// newWorker builds the offline worker for the configured origin and version.
func newWorker(storage store.CacheStorage, logger *slog.Logger) (*offline.Worker, error) {
	origin, err := cfg.OriginURL()
	if err != nil {
		return nil, err
	}
	version := cfg.ResolvedVersion()
	if version == "" {
		return nil, fmt.Errorf("a cache version is required: set MATHQUIZ_VERSION or MATHQUIZ_WORKER_URL")
	}
	return offline.NewWorker(offline.Config{
		Origin:         origin,
		Version:        version,
		Prefix:         cfg.Cache.Prefix,
		NetworkTimeout: cfg.Cache.NetworkTimeout,
		BankFile:       cfg.BankFile(),
	}, storage, offline.WithLogger(logger))
}
