package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/warp/timebank/bank"
	"github.com/warp/timebank/config"
	"github.com/warp/timebank/encourage"
	"github.com/warp/timebank/household"
	"github.com/warp/timebank/store/sqlite"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     config.Config
	store   *sqlite.Store
	service *household.Service
}

func openApp(cmd *cobra.Command) (*app, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	enc, err := newEncourager(cmd.Context(), cfg.Encouragement)
	if err != nil {
		store.Close()
		return nil, err
	}

	service := household.NewService(bank.NewLedger(store), store, enc, cfg.Subjects)
	return &app{cfg: cfg, store: store, service: service}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// newEncourager builds the message collaborator. A missing key degrades to
// canned messages rather than failing startup.
func newEncourager(ctx context.Context, cfg config.EncouragementConfig) (encourage.Encourager, error) {
	if cfg.Provider == config.ProviderStatic {
		return encourage.Static{}, nil
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	gemini, err := encourage.NewGemini(ctx, cfg.APIKey(), cfg.Model, timeout)
	if errors.Is(err, encourage.ErrAuthIssue) {
		log.Printf("[Encourage] No API key in $%s, using canned messages", cfg.APIKeyEnv)
		return encourage.Static{}, nil
	}
	if err != nil {
		return nil, err
	}
	return encourage.NewPrompted(gemini), nil
}
