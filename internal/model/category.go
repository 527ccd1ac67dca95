// Package model defines the core catalog entities.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a node in a holder's category forest.
// A nil ParentID marks a root category.
type Category struct {
	CreatedAt time.Time
	ParentID  *uuid.UUID
	Name      string
	ID        uuid.UUID
	HolderID  uuid.UUID
	IsIncome  bool
	IsExpense bool
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
