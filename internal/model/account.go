package model

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a financial account owned by a registry holder.
// At most one account per holder may have IsDefault set; archived or
// soft-deleted accounts can never be the default.
type Account struct {
	CreatedAt     time.Time
	Name          string
	ID            uuid.UUID
	HolderID      uuid.UUID
	AccountTypeID uuid.UUID
	CurrencyID    uuid.UUID
	BankID        uuid.UUID
	IsDefault     bool
	IsArchived    bool
	IsDeleted     bool
}

// IsActive reports whether the account may participate in default selection.
func (a *Account) IsActive() bool {
	return !a.IsArchived && !a.IsDeleted
}
