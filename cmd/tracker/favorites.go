package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/favorites"
)

func newFavoritesCmd() *cobra.Command {
	favoritesCmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite coins",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List favorite coin ids",
		RunE: withFavorites(func(cmd *cobra.Command, args []string, adapter *favorites.Adapter) error {
			ids := adapter.Current().IDs()
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no favorites")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(ids, "\n"))
			return nil
		}),
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle ID [ID...]",
		Short: "Add or remove coin ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: withFavorites(func(cmd *cobra.Command, args []string, adapter *favorites.Adapter) error {
			for _, id := range args {
				set := adapter.Toggle(cmd.Context(), id)
				state := "removed"
				if set.Has(id) {
					state = "added"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, id)
			}
			return nil
		}),
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		RunE: withFavorites(func(cmd *cobra.Command, args []string, adapter *favorites.Adapter) error {
			adapter.Clear(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "favorites cleared")
			return nil
		}),
	}

	for _, c := range []*cobra.Command{listCmd, toggleCmd, clearCmd} {
		addFavoritesFlags(c.Flags())
		c.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
		favoritesCmd.AddCommand(c)
	}
	return favoritesCmd
}

func withFavorites(fn func(cmd *cobra.Command, args []string, adapter *favorites.Adapter) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
			cmd.SetContext(ctx)
		}

		adapter, closeFavs, err := openFavorites(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer closeFavs()

		logger.Debug("favorites command", zap.String("cmd", cmd.Name()), zap.Strings("args", args))
		return fn(cmd, args, adapter)
	}
}
