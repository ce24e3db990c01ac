// Command portal opens a supplier's order portal in a real browser and
// drives the login sequence with the selectors stored in the supplier
// record. The browser stays open after login so the user can place the
// order; interrupt the process to close it.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ordercli/internal/automation"
	"ordercli/internal/config"
	"ordercli/internal/store"
)

func main() {
	supplierSlug := flag.String("supplier", "", "supplier slug (required)")
	clientCode := flag.String("client-code", os.Getenv("PORTAL_CLIENT_CODE"), "portal client code")
	login := flag.String("login", os.Getenv("PORTAL_LOGIN"), "portal login")
	password := flag.String("password", os.Getenv("PORTAL_PASSWORD"), "portal password")
	dbPath := flag.String("db", "", "supplier database path (defaults to data/suppliers.db relative to executable)")
	headless := flag.Bool("headless", false, "run the browser headless")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *supplierSlug == "" {
		fmt.Fprintln(os.Stderr, "usage: portal -supplier <slug> [-login ...] [-password ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(*supplierSlug, *dbPath, *headless, automation.Credentials{
		ClientCode: *clientCode,
		Login:      *login,
		Password:   *password,
	}, logger); err != nil {
		logger.Error("portal login failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(supplierSlug, dbPath string, headless bool, creds automation.Credentials, logger *slog.Logger) error {
	ctx := context.Background()

	if dbPath == "" {
		paths, err := config.GetPaths()
		if err != nil {
			return fmt.Errorf("resolve paths: %w", err)
		}
		dbPath = paths.DatabaseFile
	}

	st, err := store.Open(dbPath, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	supplier, err := st.GetSupplier(ctx, supplierSlug)
	if err != nil {
		return err
	}
	if len(supplier.WebConfig) == 0 {
		return fmt.Errorf("supplier %s has no portal configuration", supplierSlug)
	}

	var webCfg automation.WebConfig
	if err := json.Unmarshal(supplier.WebConfig, &webCfg); err != nil {
		return fmt.Errorf("decode portal configuration for %s: %w", supplierSlug, err)
	}

	runner := automation.NewLoginRunner(webCfg, headless, logger)
	browserCtx, cancel, err := runner.Run(ctx, creds)
	if err != nil {
		return err
	}
	defer cancel()

	if err := st.RecordAction(ctx, store.HistoryEntry{
		Supplier: supplierSlug,
		Action:   store.ActionLogin,
		Actor:    "portal",
	}); err != nil {
		logger.Warn("history record failed", slog.String("error", err.Error()))
	}

	logger.Info("logged in, browser stays open until interrupted",
		slog.String("supplier", supplierSlug),
		slog.String("url", webCfg.URL))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-browserCtx.Done():
	}
	return nil
}
