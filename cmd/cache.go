package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathquiz/internal/offline"
	"github.com/abhisek/mathquiz/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the offline cache",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cache stores, oldest version first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		names, err := storage.Names(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No cache stores.")
			return nil
		}

		for _, name := range offline.SortStoreNames(cfg.Cache.Prefix, names) {
			c, err := storage.Open(ctx, name)
			if err != nil {
				return err
			}
			keys, err := c.Keys(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%-32s %d entries\n", name, len(keys))
		}
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge [store...]",
	Short: "Delete cache stores (all stores when none are named)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		storage, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer storage.Close()

		names := args
		if len(names) == 0 {
			if names, err = storage.Names(ctx); err != nil {
				return err
			}
		}

		var errs []error
		for _, name := range names {
			ok, err := storage.Delete(ctx, name)
			switch {
			case err != nil:
				errs = append(errs, err)
			case !ok:
				errs = append(errs, fmt.Errorf("%s: %w", name, store.ErrStoreNotFound))
			default:
				fmt.Println("Deleted", name)
			}
		}
		return errors.Join(errs...)
	},
}

var cacheInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Precache the app shell and question bank for the configured version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger, closer, err := newLogger(os.Stderr, false)
		if err != nil {
			return err
		}
		defer closer.Close()

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
			return err
		}

		st, err := worker.Status(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Installed %s (%s)\n", st.Store, st.State)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cachePurgeCmd)
	cacheCmd.AddCommand(cacheInstallCmd)
}
