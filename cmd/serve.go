package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the offline caching proxy in front of the origin",
	Long: "Installs the versioned cache for the origin, evicts older versions and serves " +
		"the site through the cache until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = cfg.Listen
		}

		logger, closer, err := newLogger(os.Stderr, true)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		worker, err := newWorker(storage, logger)
		if err != nil {
			return err
		}
		if err := worker.Start(ctx); err != nil {
			return fmt.Errorf("start offline worker: %w", err)
		}

		return server.New(worker, logger).Run(ctx, listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (overrides MATHQUIZ_LISTEN)")
}
