package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

// CreateHolder persists a new registry holder.
func (q *queries) CreateHolder(ctx context.Context, holder *model.Holder) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if holder == nil {
		return fmt.Errorf("%w: holder", ErrNilParameter)
	}
	if err := validateID(holder.ID, "holder.ID"); err != nil {
		return err
	}
	if err := validateString(holder.Name, "holder.Name"); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO holders (id, name, created_at) VALUES (?, ?, ?)`,
		holder.ID.String(), holder.Name, holder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create holder: %w", err)
	}

	slog.Debug("created holder", "id", holder.ID, "name", holder.Name)
	return nil
}

// GetHolderByID returns a holder by its id, or nil when not found.
func (q *queries) GetHolderByID(ctx context.Context, id uuid.UUID) (*model.Holder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	holder, err := scanHolder(q.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM holders WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query holder: %w", err)
	}
	return holder, nil
}

// GetHolderByName returns a holder by name, or nil when not found.
func (q *queries) GetHolderByName(ctx context.Context, name string) (*model.Holder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	holder, err := scanHolder(q.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM holders WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query holder: %w", err)
	}
	return holder, nil
}

// ListHolders returns all holders ordered by name.
func (q *queries) ListHolders(ctx context.Context) ([]model.Holder, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, `SELECT id, name, created_at FROM holders ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holders: %w", err)
	}
	defer rows.Close()

	var holders []model.Holder
	for rows.Next() {
		holder, err := scanHolder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holder: %w", err)
		}
		holders = append(holders, *holder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holders: %w", err)
	}
	return holders, nil
}

// DeleteHolder removes a holder row.
func (q *queries) DeleteHolder(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `DELETE FROM holders WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete holder: %w", err)
	}
	return requireRowAffected(result, "holder")
}

// HolderNameExists reports whether another holder carries the same name.
func (q *queries) HolderNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM holders WHERE name = ? AND id <> ?)`,
		name, excludeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holder name: %w", err)
	}
	return exists, nil
}

func scanHolder(row rowScanner) (*model.Holder, error) {
	var holder model.Holder
	var id string
	if err := row.Scan(&id, &holder.Name, &holder.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if holder.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse holder id: %w", err)
	}
	return &holder, nil
}
