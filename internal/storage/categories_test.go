package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

func newCategory(holderID uuid.UUID, parentID *uuid.UUID, name string) *model.Category {
	return &model.Category{
		ID:        uuid.New(),
		HolderID:  holderID,
		ParentID:  parentID,
		Name:      name,
		IsExpense: true,
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGetCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	holder := createTestHolder(t, store, "alice")
	root := newCategory(holder.ID, nil, "food")
	if err := store.CreateCategory(ctx, root); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	got, err := store.GetCategoryByID(ctx, root.ID)
	if err != nil {
		t.Fatalf("Failed to get category: %v", err)
	}
	if got == nil {
		t.Fatal("Expected category, got nil")
	}
	if got.Name != "food" || !got.IsRoot() {
		t.Errorf("Unexpected category: %+v", got)
	}

	missing, err := store.GetCategoryByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Unexpected error for missing category: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing category, got %+v", missing)
	}
}

func TestGetCategoryAncestors(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	holder := createTestHolder(t, store, "alice")
	root := newCategory(holder.ID, nil, "root")
	child := newCategory(holder.ID, &root.ID, "child")
	grandchild := newCategory(holder.ID, &child.ID, "grandchild")
	for _, c := range []*model.Category{root, child, grandchild} {
		if err := store.CreateCategory(ctx, c); err != nil {
			t.Fatalf("Failed to create %q: %v", c.Name, err)
		}
	}

	chain, err := store.GetCategoryAncestors(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("Failed to get ancestors: %v", err)
	}
	if len(chain) != 3 {
		t.Fatalf("Expected chain of 3, got %d", len(chain))
	}
	// Self first, root last.
	if chain[0].ID != grandchild.ID || chain[1].ID != child.ID || chain[2].ID != root.ID {
		t.Errorf("Unexpected chain order: %v, %v, %v", chain[0].Name, chain[1].Name, chain[2].Name)
	}

	chain, err = store.GetCategoryAncestors(ctx, root.ID)
	if err != nil {
		t.Fatalf("Failed to get root ancestors: %v", err)
	}
	if len(chain) != 1 {
		t.Errorf("Expected root to have a chain of 1, got %d", len(chain))
	}
}

func TestCategoryNameExists_Scoping(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	holder := createTestHolder(t, store, "alice")
	root := newCategory(holder.ID, nil, "food")
	childA := newCategory(holder.ID, &root.ID, "misc")
	for _, c := range []*model.Category{root, childA} {
		if err := store.CreateCategory(ctx, c); err != nil {
			t.Fatalf("Failed to create %q: %v", c.Name, err)
		}
	}

	tests := []struct {
		parentID *uuid.UUID
		name     string
		label    string
		exclude  uuid.UUID
		want     bool
	}{
		{label: "taken at root", name: "food", parentID: nil, want: true},
		{label: "free at root", name: "misc", parentID: nil, want: false},
		{label: "taken under parent", name: "misc", parentID: &root.ID, want: true},
		{label: "free under parent", name: "food", parentID: &root.ID, want: false},
		{label: "excluded self", name: "food", parentID: nil, exclude: root.ID, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, err := store.CategoryNameExists(ctx, holder.ID, tt.parentID, tt.name, tt.exclude)
			if err != nil {
				t.Fatalf("CategoryNameExists failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("CategoryNameExists = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateCategory_Reparent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	holder := createTestHolder(t, store, "alice")
	root := newCategory(holder.ID, nil, "root")
	child := newCategory(holder.ID, &root.ID, "child")
	for _, c := range []*model.Category{root, child} {
		if err := store.CreateCategory(ctx, c); err != nil {
			t.Fatalf("Failed to create %q: %v", c.Name, err)
		}
	}

	child.ParentID = nil
	if err := store.UpdateCategory(ctx, child); err != nil {
		t.Fatalf("Failed to update category: %v", err)
	}

	got, err := store.GetCategoryByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("Failed to get category: %v", err)
	}
	if !got.IsRoot() {
		t.Errorf("Expected detached category to be root, got parent %v", got.ParentID)
	}
}

func TestDeleteCategory_Missing(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if err := store.DeleteCategory(context.Background(), uuid.New()); err == nil {
		t.Error("Expected error deleting missing category")
	}
}

func TestHolderHasCategories(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	holder := createTestHolder(t, store, "alice")

	has, err := store.HolderHasCategories(ctx, holder.ID)
	if err != nil {
		t.Fatalf("HolderHasCategories failed: %v", err)
	}
	if has {
		t.Error("Expected no categories for fresh holder")
	}

	if err := store.CreateCategory(ctx, newCategory(holder.ID, nil, "food")); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}

	has, err = store.HolderHasCategories(ctx, holder.ID)
	if err != nil {
		t.Fatalf("HolderHasCategories failed: %v", err)
	}
	if !has {
		t.Error("Expected categories for holder")
	}
}
