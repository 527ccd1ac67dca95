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

// maxAncestorDepth bounds the recursive ancestor walk. A well-formed category
// tree never approaches this; the cap only keeps a corrupted cyclic chain from
// recursing forever.
const maxAncestorDepth = 255

// CreateCategory persists a new category.
func (q *queries) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, holder_id, parent_id, name, is_income, is_expense, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := q.db.ExecContext(ctx, query,
		category.ID.String(), category.HolderID.String(), nullableID(category.ParentID),
		category.Name, category.IsIncome, category.IsExpense, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	slog.Debug("created category", "id", category.ID, "name", category.Name)
	return nil
}

// GetCategoryByID returns a category by its id, or nil when not found.
func (q *queries) GetCategoryByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, holder_id, parent_id, name, is_income, is_expense, created_at
		FROM categories
		WHERE id = ?`

	category, err := scanCategory(q.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories of a holder ordered by name.
func (q *queries) ListCategories(ctx context.Context, holderID uuid.UUID) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(holderID, "holderID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, holder_id, parent_id, name, is_income, is_expense, created_at
		FROM categories
		WHERE holder_id = ?
		ORDER BY name`

	rows, err := q.db.QueryContext(ctx, query, holderID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	return collectCategories(rows)
}

// UpdateCategory rewrites a category row in place.
func (q *queries) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	query := `
		UPDATE categories
		SET parent_id = ?, name = ?, is_income = ?, is_expense = ?
		WHERE id = ?`

	result, err := q.db.ExecContext(ctx, query,
		nullableID(category.ParentID), category.Name,
		category.IsIncome, category.IsExpense, category.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowAffected(result, "category")
}

// DeleteCategory removes a category row.
func (q *queries) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowAffected(result, "category")
}

// GetCategoryAncestors returns the parent chain starting at id (id first, root
// last) using a single recursive query. The walk is depth-capped, so a cyclic
// chain comes back with repeated ids instead of hanging the store.
func (q *queries) GetCategoryAncestors(ctx context.Context, id uuid.UUID) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	query := `
		WITH RECURSIVE ancestors(id, holder_id, parent_id, name, is_income, is_expense, created_at, depth) AS (
			SELECT id, holder_id, parent_id, name, is_income, is_expense, created_at, 0
			FROM categories WHERE id = ?
			UNION ALL
			SELECT c.id, c.holder_id, c.parent_id, c.name, c.is_income, c.is_expense, c.created_at, a.depth + 1
			FROM categories c
			JOIN ancestors a ON c.id = a.parent_id
			WHERE a.depth < ?
		)
		SELECT id, holder_id, parent_id, name, is_income, is_expense, created_at
		FROM ancestors
		ORDER BY depth`

	rows, err := q.db.QueryContext(ctx, query, id.String(), maxAncestorDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to query ancestors: %w", err)
	}
	defer rows.Close()

	return collectCategories(rows)
}

// CategoryNameExists reports whether another category with the same name shares
// the (holder, parent) scope. The root level (nil parent) is its own scope.
func (q *queries) CategoryNameExists(ctx context.Context, holderID uuid.UUID, parentID *uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	query := `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE holder_id = ? AND name = ? AND id <> ?
			AND ((parent_id IS NULL AND ? IS NULL) OR parent_id = ?)
		)`

	parent := nullableID(parentID)
	var exists bool
	err := q.db.QueryRowContext(ctx, query,
		holderID.String(), name, excludeID.String(), parent, parent,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return exists, nil
}

// HolderHasCategories reports whether any category is owned by the holder.
func (q *queries) HolderHasCategories(ctx context.Context, holderID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(holderID, "holderID"); err != nil {
		return false, err
	}

	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE holder_id = ?)`, holderID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check holder categories: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var id, holderID string
	var parent sql.NullString
	if err := row.Scan(&id, &holderID, &parent, &cat.Name, &cat.IsIncome, &cat.IsExpense, &cat.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if cat.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse category id: %w", err)
	}
	if cat.HolderID, err = uuid.Parse(holderID); err != nil {
		return nil, fmt.Errorf("failed to parse holder id: %w", err)
	}
	if cat.ParentID, err = scanNullableID(parent); err != nil {
		return nil, err
	}
	return &cat, nil
}

func collectCategories(rows *sql.Rows) ([]model.Category, error) {
	var categories []model.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
