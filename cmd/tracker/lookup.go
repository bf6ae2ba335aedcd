package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"sort"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"marketScope/internal/coingecko"
	"marketScope/internal/convert"
	"marketScope/internal/model"
	"marketScope/internal/view"
)

func runGlobal(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := newClient(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, err := client.Global(ctx, statusLogger(logger))
	if err != nil {
		return errors.New(coingecko.UserMessage(err))
	}

	out := cmd.OutOrStdout()
	currency := client.Currency()
	fmt.Fprintf(out, "Total market cap: %s\n", view.FormatMarketCap(model.Float(snapshot.MarketCapIn(currency))))
	fmt.Fprintf(out, "24h volume:       %s\n", view.FormatMarketCap(model.Float(snapshot.VolumeIn(currency))))
	fmt.Fprintf(out, "Active assets:    %d\n", snapshot.ActiveCryptos)

	symbols := make([]string, 0, len(snapshot.MarketCapPercentage))
	for symbol := range snapshot.MarketCapPercentage {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		return snapshot.Dominance(symbols[i]) > snapshot.Dominance(symbols[j])
	})
	for _, symbol := range symbols {
		fmt.Fprintf(out, "  %-6s %6.2f%%\n", strings.ToUpper(symbol), snapshot.Dominance(symbol))
	}
	return nil
}

func runPrice(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := newClient(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id, err := resolveAsset(args[0])
	if err != nil {
		return err
	}
	price, err := client.SimplePrice(ctx, id, statusLogger(logger))
	if err != nil {
		return errors.New(coingecko.UserMessage(err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", id, view.FormatPrice(model.Float(price)))
	return nil
}

// resolveAsset accepts a known ticker or any upstream id. Unknown ids are left
// for the provider to reject.
func resolveAsset(arg string) (string, error) {
	id, err := coingecko.ResolveSymbol(arg)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, coingecko.ErrUnknownAsset) && assetIDPattern.MatchString(arg) {
		return arg, nil
	}
	return "", err
}

var assetIDPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}
	from, to := strings.ToUpper(args[1]), strings.ToUpper(args[2])

	// Quotes are priced in USD so the USD leg stays pinned at 1.
	cfg.Currency = "usd"
	client, err := newClient(cfg, logger, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var quotes []convert.Quote
	for _, symbol := range []string{from, to} {
		if symbol == convert.USD {
			continue
		}
		id, err := coingecko.ResolveSymbol(symbol)
		if err != nil {
			return err
		}
		price, err := client.SimplePrice(ctx, id, statusLogger(logger))
		if err != nil {
			return errors.New(coingecko.UserMessage(err))
		}
		quotes = append(quotes, convert.Quote{Symbol: symbol, Price: decimal.NewFromFloat(price)})
	}

	result, err := convert.NewConverter(quotes).Convert(amount, from, to)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n", result.Amount, result.From, result.Value, result.To)
	return nil
}
