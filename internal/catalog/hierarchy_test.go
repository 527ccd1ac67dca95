package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/model"
)

func TestIsReparentValid_CycleScenario(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	root1, err := s.CreateCategory(ctx, f.holder.ID, nil, "root1", false, true)
	require.NoError(t, err)
	child1, err := s.CreateCategory(ctx, f.holder.ID, &root1.ID, "child1", false, true)
	require.NoError(t, err)
	grandchild1, err := s.CreateCategory(ctx, f.holder.ID, &child1.ID, "grandchild1", false, true)
	require.NoError(t, err)

	// root1 -> grandchild1 -> child1 -> root1 would close a loop.
	valid, err := s.IsReparentValid(ctx, root1.ID, &grandchild1.ID)
	require.NoError(t, err)
	assert.False(t, valid)

	// The other direction stays legal.
	valid, err = s.IsReparentValid(ctx, grandchild1.ID, &root1.ID)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestIsReparentValid_SelfParent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, f.holder.ID, nil, "food", false, true)
	require.NoError(t, err)

	valid, err := s.IsReparentValid(ctx, cat.ID, &cat.ID)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestIsReparentValid_DetachToRoot(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	parent, err := s.CreateCategory(ctx, f.holder.ID, nil, "parent", false, true)
	require.NoError(t, err)
	child, err := s.CreateCategory(ctx, f.holder.ID, &parent.ID, "child", false, true)
	require.NoError(t, err)

	valid, err := s.IsReparentValid(ctx, child.ID, nil)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestMoveCategory_RejectsCycle(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	root, err := s.CreateCategory(ctx, f.holder.ID, nil, "root", false, true)
	require.NoError(t, err)
	child, err := s.CreateCategory(ctx, f.holder.ID, &root.ID, "child", false, true)
	require.NoError(t, err)

	err = s.MoveCategory(ctx, root.ID, &child.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	// The tree is untouched.
	got, err := s.Store().GetCategoryByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestMoveCategory_CrossHolderParent(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	other, err := s.CreateHolder(ctx, "bob")
	require.NoError(t, err)

	mine, err := s.CreateCategory(ctx, f.holder.ID, nil, "mine", false, true)
	require.NoError(t, err)
	theirs, err := s.CreateCategory(ctx, other.ID, nil, "theirs", false, true)
	require.NoError(t, err)

	err = s.MoveCategory(ctx, mine.ID, &theirs.ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestCreateCategory_SiblingNameScoping(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	root, err := s.CreateCategory(ctx, f.holder.ID, nil, "expenses", false, true)
	require.NoError(t, err)

	// Same name at root level conflicts.
	_, err = s.CreateCategory(ctx, f.holder.ID, nil, "expenses", false, true)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))

	// Same name one level down is a different scope.
	_, err = s.CreateCategory(ctx, f.holder.ID, &root.ID, "expenses", false, true)
	require.NoError(t, err)
}

func TestDeleteCategory_PromotesChildren(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	root, err := s.CreateCategory(ctx, f.holder.ID, nil, "root", false, true)
	require.NoError(t, err)
	mid, err := s.CreateCategory(ctx, f.holder.ID, &root.ID, "mid", false, true)
	require.NoError(t, err)
	leaf, err := s.CreateCategory(ctx, f.holder.ID, &mid.ID, "leaf", false, true)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, mid.ID))

	got, err := s.Store().GetCategoryByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
}

// TestReparentSequence_StaysAcyclic applies random reparent operations to a
// generated forest, each gated by the cycle guard, and verifies after every
// accepted move that no node can reach itself through parent links.
func TestReparentSequence_StaysAcyclic(t *testing.T) {
	s := newTestService(t)
	f := seedFixtures(t, s)
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))

	var categories []*model.Category
	for i := 0; i < 15; i++ {
		var parentID *uuid.UUID
		if len(categories) > 0 && rng.Intn(2) == 0 {
			parentID = &categories[rng.Intn(len(categories))].ID
		}
		cat, err := s.CreateCategory(ctx, f.holder.ID, parentID, fmt.Sprintf("cat-%02d", i), false, true)
		require.NoError(t, err)
		categories = append(categories, cat)
	}

	for step := 0; step < 60; step++ {
		target := categories[rng.Intn(len(categories))]

		var newParent *uuid.UUID
		if rng.Intn(5) > 0 {
			newParent = &categories[rng.Intn(len(categories))].ID
		}

		valid, err := s.IsReparentValid(ctx, target.ID, newParent)
		require.NoError(t, err)
		if !valid {
			continue
		}

		err = s.MoveCategory(ctx, target.ID, newParent)
		if err != nil {
			// A name collision at the target level is fine; a cycle is not.
			require.True(t, common.IsConflict(err))
			continue
		}

		assertForestAcyclic(t, s, f)
	}
}

func assertForestAcyclic(t *testing.T, s *Service, f fixtures) {
	t.Helper()
	ctx := context.Background()

	all, err := s.Store().ListCategories(ctx, f.holder.ID)
	require.NoError(t, err)

	parents := make(map[uuid.UUID]*uuid.UUID, len(all))
	for i := range all {
		parents[all[i].ID] = all[i].ParentID
	}

	for id := range parents {
		seen := map[uuid.UUID]struct{}{}
		for cur := &id; cur != nil; cur = parents[*cur] {
			if _, dup := seen[*cur]; dup {
				t.Fatalf("cycle reachable from category %s", id)
			}
			seen[*cur] = struct{}{}
		}
	}
}
