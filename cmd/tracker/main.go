package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"marketScope/internal/coingecko"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "tracker",
		Short:        "Crypto market tracker",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	marketsCmd := &cobra.Command{
		Use:   "markets",
		Short: "Fetch the market listing and print the derived view",
		RunE:  runMarkets,
	}
	addFetchFlags(marketsCmd.Flags())
	addFavoritesFlags(marketsCmd.Flags())
	marketsCmd.Flags().String("sort", "market_cap_desc", "sort key")
	marketsCmd.Flags().Bool("favorites-only", false, "show favorites only")
	marketsCmd.Flags().String("search", "", "case-insensitive name or symbol filter")
	marketsCmd.Flags().Int("page", 1, "display page (1-based)")
	marketsCmd.Flags().Int("per-page", 50, "rows per display page, 0 for all")
	marketsCmd.Flags().String("out", "", "append the fetched dataset to this JSONL file")
	marketsCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(marketsCmd)

	globalCmd := &cobra.Command{
		Use:   "global",
		Short: "Print global market figures",
		RunE:  runGlobal,
	}
	addClientFlags(globalCmd.Flags())
	globalCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(globalCmd)

	priceCmd := &cobra.Command{
		Use:   "price SYMBOL|ID",
		Short: "Print the current price of one asset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPrice,
	}
	addClientFlags(priceCmd.Flags())
	priceCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(priceCmd)

	convertCmd := &cobra.Command{
		Use:   "convert AMOUNT FROM TO",
		Short: "Convert an amount between assets or USD",
		Args:  cobra.ExactArgs(3),
		RunE:  runConvert,
	}
	addClientFlags(convertCmd.Flags())
	convertCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(convertCmd)

	root.AddCommand(newFavoritesCmd())

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the market view, favorites and metrics over HTTP",
		RunE:  runServe,
	}
	addFetchFlags(serveCmd.Flags())
	addFavoritesFlags(serveCmd.Flags())
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("out", "", "append every fetched dataset to this JSONL file")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.AddCommand(serveCmd)

	return root
}

func addClientFlags(flags *pflag.FlagSet) {
	flags.String("base-url", coingecko.DefaultBaseURL, "market data API base URL")
	flags.String("currency", coingecko.DefaultCurrency, "target currency")
	flags.String("api-key", "", "optional demo API key")
	flags.Int("max-retries", 3, "maximum attempts per request")
	flags.Duration("rate-limit-delay", 60*time.Second, "base wait after a 429")
	flags.Duration("error-delay", 2*time.Second, "base wait after other failures")
	flags.Duration("timeout", coingecko.DefaultTimeout, "per-request timeout")
}

func addFetchFlags(flags *pflag.FlagSet) {
	addClientFlags(flags)
	flags.String("pages", "1:250,2:50", "page:perPage list fetched per cycle")
	flags.Duration("page-delay", 500*time.Millisecond, "delay between page requests")
	flags.Bool("sparkline", false, "include 7-day sparkline")
}

func addFavoritesFlags(flags *pflag.FlagSet) {
	flags.String("favorites-backend", "file", "favorites storage (file, sqlite, memory)")
	flags.String("favorites-path", "./data", "favorites directory (file) or database path (sqlite)")
	flags.String("favorites-key", "likedCoins", "favorites storage key")
	flags.StringSlice("default-favorites", nil, "favorites used when storage is empty")
	flags.String("pg-dsn", "", "Postgres DSN for remote favorites (optional)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// statusLogger forwards retry progress to the log.
func statusLogger(logger *zap.Logger) coingecko.StatusFunc {
	return func(msg string) {
		logger.Info("fetch status", zap.String("status", msg))
	}
}
