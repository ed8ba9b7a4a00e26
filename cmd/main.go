package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/finapi/internal/config"
	"github.com/tinoosan/finapi/internal/httpapi"
	"github.com/tinoosan/finapi/internal/ledger"
	"github.com/tinoosan/finapi/internal/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	loc, err := cfg.Ledger.Location()
	if err != nil {
		logger.Error("invalid ledger timezone", "timezone", cfg.Ledger.Timezone, "err", err)
		os.Exit(1)
	}

	store := memory.New(cfg.Ledger.Currency)
	if cfg.Dev.Seed {
		acc := devSeed(store)
		accs, err := store.ListAccounts(ctx)
		if err != nil {
			logger.Error("dev seed failed", "err", err)
			os.Exit(1)
		}
		logger.Info("DEV seed (memory)", "account_id", acc.ID.String(), "accounts", len(accs))
		printDevSeedBanner(acc)
	}

	handler := httpapi.New(store, logger, httpapi.Options{
		Currency:     cfg.Ledger.Currency,
		Location:     loc,
		LegacyStatus: cfg.HTTP.LegacyStatus,
		CORSOrigins:  cfg.HTTP.Origins(),
	}).Handler()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bank service listening",
			"addr", srv.Addr,
			"currency", cfg.Ledger.Currency,
			"timezone", loc.String(),
			"legacy_status", cfg.HTTP.LegacyStatus,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

// devSeed registers a demo customer with an empty statement.
func devSeed(store *memory.Store) ledger.Account {
	acc := ledger.Account{
		ID:        uuid.New(),
		TaxID:     "00000000000",
		Name:      "Demo Customer",
		Statement: []ledger.Operation{},
	}
	store.SeedAccount(acc)
	return acc
}

// printDevSeedBanner prints a simple banner to stdout for easy copy/paste of the cpf header.
func printDevSeedBanner(acc ledger.Account) {
	fmt.Println("==================== DEV SEED ====================")
	fmt.Printf("cpf: %s\n", acc.TaxID)
	fmt.Printf("account_id: %s\n", acc.ID.String())
	fmt.Printf("started: %s\n", time.Now().Format(time.RFC3339))
	fmt.Println("==================================================")
}
