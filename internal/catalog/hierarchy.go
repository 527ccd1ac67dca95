package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/model"
	"github.com/finbook/finbook/internal/service"
)

// IsReparentValid reports whether assigning newParentID as the parent of
// categoryID keeps the holder's category forest acyclic. A nil parent
// (detaching to root) is always valid.
func (s *Service) IsReparentValid(ctx context.Context, categoryID uuid.UUID, newParentID *uuid.UUID) (bool, error) {
	return isReparentValid(ctx, s.store, categoryID, newParentID)
}

// isReparentValid walks the ancestor chain of the proposed parent with a
// single recursive query. The assignment is invalid if the category itself
// appears in the chain, or if the chain already contains a cycle: a corrupted
// forest must not be silently accepted.
func isReparentValid(ctx context.Context, store service.CategoryStore, categoryID uuid.UUID, newParentID *uuid.UUID) (bool, error) {
	if newParentID == nil {
		return true, nil
	}
	if *newParentID == categoryID {
		// Self-parenting needs no walk.
		return false, nil
	}

	chain, err := store.GetCategoryAncestors(ctx, *newParentID)
	if err != nil {
		return false, fmt.Errorf("failed to walk ancestor chain: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(chain))
	for _, ancestor := range chain {
		if ancestor.ID == categoryID {
			return false, nil
		}
		if _, dup := seen[ancestor.ID]; dup {
			// Pre-existing cycle in the chain.
			return false, nil
		}
		seen[ancestor.ID] = struct{}{}
	}
	return true, nil
}

// CreateCategory creates a category under an optional parent. The parent must
// belong to the same holder, and the name must be unique within the
// (holder, parent) scope.
func (s *Service) CreateCategory(ctx context.Context, holderID uuid.UUID, parentID *uuid.UUID, name string, isIncome, isExpense bool) (*model.Category, error) {
	if name == "" {
		return nil, common.NewValidationError("category name is required")
	}

	category := &model.Category{
		ID:        uuid.New(),
		HolderID:  holderID,
		ParentID:  parentID,
		Name:      name,
		IsIncome:  isIncome,
		IsExpense: isExpense,
		CreatedAt: time.Now().UTC(),
	}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		holder, err := tx.GetHolderByID(ctx, holderID)
		if err != nil {
			return err
		}
		if holder == nil {
			return common.NewNotFoundError("holder", holderID.String())
		}

		if parentID != nil {
			parent, err := tx.GetCategoryByID(ctx, *parentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return common.NewNotFoundError("category", parentID.String())
			}
			if parent.HolderID != holderID {
				return common.NewConflictError("parent category belongs to a different holder")
			}
		}

		taken, err := tx.CategoryNameExists(ctx, holderID, parentID, name, category.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("category name %q already exists at this level", name)
		}

		return tx.CreateCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// MoveCategory assigns a new parent to a category. The cycle guard runs
// inside the same transaction that applies the move.
func (s *Service) MoveCategory(ctx context.Context, categoryID uuid.UUID, newParentID *uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		category, err := tx.GetCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return common.NewNotFoundError("category", categoryID.String())
		}

		if newParentID != nil {
			parent, err := tx.GetCategoryByID(ctx, *newParentID)
			if err != nil {
				return err
			}
			if parent == nil {
				return common.NewNotFoundError("category", newParentID.String())
			}
			if parent.HolderID != category.HolderID {
				return common.NewConflictError("parent category belongs to a different holder")
			}
		}

		valid, err := isReparentValid(ctx, tx, categoryID, newParentID)
		if err != nil {
			return err
		}
		if !valid {
			return common.NewConflictError("moving category %q under this parent would create a cycle", category.Name)
		}

		taken, err := tx.CategoryNameExists(ctx, category.HolderID, newParentID, category.Name, categoryID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("category name %q already exists at the target level", category.Name)
		}

		category.ParentID = newParentID
		return tx.UpdateCategory(ctx, category)
	})
}

// UpdateCategory renames a category and updates its income/expense flags.
func (s *Service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, name string, isIncome, isExpense bool) error {
	if name == "" {
		return common.NewValidationError("category name is required")
	}

	return s.withTx(ctx, func(tx service.Transaction) error {
		category, err := tx.GetCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return common.NewNotFoundError("category", categoryID.String())
		}

		taken, err := tx.CategoryNameExists(ctx, category.HolderID, category.ParentID, name, categoryID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("category name %q already exists at this level", name)
		}

		category.Name = name
		category.IsIncome = isIncome
		category.IsExpense = isExpense
		return tx.UpdateCategory(ctx, category)
	})
}

// DeleteCategory removes a category, promoting its children to the deleted
// node's parent. Transaction usage is not checked here: the transactions
// subsystem owns that policy.
func (s *Service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return s.withTx(ctx, func(tx service.Transaction) error {
		category, err := tx.GetCategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return common.NewNotFoundError("category", categoryID.String())
		}

		siblings, err := tx.ListCategories(ctx, category.HolderID)
		if err != nil {
			return err
		}

		for i := range siblings {
			child := &siblings[i]
			if child.ParentID == nil || *child.ParentID != categoryID {
				continue
			}

			taken, err := tx.CategoryNameExists(ctx, category.HolderID, category.ParentID, child.Name, child.ID)
			if err != nil {
				return err
			}
			if taken {
				return common.NewConflictError("cannot delete %q: child %q would collide at the parent level", category.Name, child.Name)
			}

			child.ParentID = category.ParentID
			if err := tx.UpdateCategory(ctx, child); err != nil {
				return err
			}
		}

		return tx.DeleteCategory(ctx, categoryID)
	})
}
