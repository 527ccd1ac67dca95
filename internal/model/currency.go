package model

import (
	"time"

	"github.com/google/uuid"
)

// Currency represents a currency reference entry. Char and numeric codes
// are unique among non-deleted currencies.
type Currency struct {
	CreatedAt time.Time
	CharCode  string
	NumCode   string
	Name      string
	ID        uuid.UUID
	IsDeleted bool
}

// AccountType represents an account type reference entry (e.g. checking,
// deposit, brokerage). Name is unique among non-deleted types.
type AccountType struct {
	CreatedAt time.Time
	Name      string
	ID        uuid.UUID
	IsDeleted bool
}
