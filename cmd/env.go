package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kolmedia/talentsync/internal/migrate"
	"github.com/kolmedia/talentsync/internal/store"
)

// migrateEnv holds the database handle and the pipeline needed by the
// migration commands.
type migrateEnv struct {
	Stores   *store.Mongo
	Pipeline *migrate.Pipeline
}

// Close releases the database connection.
func (me *migrateEnv) Close(ctx context.Context) {
	if me.Stores != nil {
		_ = me.Stores.Close(ctx)
	}
}

// initEnv connects to both databases and builds the Pipeline. Callers should
// defer env.Close(ctx).
func initEnv(ctx context.Context) (*migrateEnv, error) {
	m, err := store.Open(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}

	p := migrate.New(m.Source(), m.Target(), m.Customers(), m.Runs(), cfg.Migrate)
	return &migrateEnv{Stores: m, Pipeline: p}, nil
}

// printJSON renders a command result to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
