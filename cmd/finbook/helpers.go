package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/finbook/finbook/internal/catalog"
	"github.com/finbook/finbook/internal/config"
	"github.com/finbook/finbook/internal/model"
	"github.com/finbook/finbook/internal/service"
	"github.com/finbook/finbook/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/finbook/finbook.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initCatalog opens storage and wraps it in the catalog service.
func initCatalog(ctx context.Context) (*catalog.Service, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return catalog.New(store), func() { _ = store.Close() }, nil
}

// parseID parses a uuid argument with a friendlier error than uuid.Parse's.
func parseID(arg, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q: %w", what, arg, err)
	}
	return id, nil
}

// resolveHolder accepts a holder name or id and returns the holder.
func resolveHolder(ctx context.Context, store service.Storage, arg string) (*model.Holder, error) {
	if id, err := uuid.Parse(arg); err == nil {
		holder, err := store.GetHolderByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if holder == nil {
			return nil, fmt.Errorf("holder %q not found", arg)
		}
		return holder, nil
	}

	holder, err := store.GetHolderByName(ctx, arg)
	if err != nil {
		return nil, err
	}
	if holder == nil {
		return nil, fmt.Errorf("holder %q not found", arg)
	}
	return holder, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return ""
}
