package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/app"
	"github.com/abhisek/mathquiz/internal/questions"
	"github.com/abhisek/mathquiz/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

func init() {
	playCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
}

// runPlay wires the bank loader and launches the TUI. The full-screen UI
// owns the terminal, so logs only go to the log file when one is set.
func runPlay(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, closer, err := newLogger(nil, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, cleanup := bankClient(ctx, logger)
	defer cleanup()

	source := cfg.BankURL()
	noSplash, _ := cmd.Flags().GetBool("no-splash")

	return app.Run(app.Options{
		Controller: session.NewController(session.WithLogger(logger)),
		Loader: func(ctx context.Context) ([]questions.Question, error) {
			return questions.Load(ctx, client, source)
		},
		Logger: logger,
		Splash: !noSplash,
	})
}

// bankClient returns the HTTP client used to fetch the bank. When an origin
// and version are configured, requests go through the offline router so
// the bank keeps working without a network.
func bankClient(ctx context.Context, logger *slog.Logger) (*http.Client, func()) {
	client := &http.Client{}
	noop := func() {}
	if cfg.Origin == "" || cfg.ResolvedVersion() == "" {
		return client, noop
	}

	storage, err := openStorage(ctx)
	if err != nil {
		logger.Warn("offline cache unavailable", "error", err)
		return client, noop
	}
	worker, err := newWorker(storage, logger)
	if err != nil {
		storage.Close()
		logger.Warn("offline cache unavailable", "error", err)
		return client, noop
	}

	// A failed install leaves the router inactive, which passes every
	// request through to the network.
	if err := worker.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Offline cache not installed:", err)
		logger.Warn("start offline worker", "error", err)
	}
	client.Transport = worker.Router()
	return client, func() { storage.Close() }
}
