package model

import (
	"time"

	"github.com/google/uuid"
)

// Country represents a country reference entry.
type Country struct {
	CreatedAt time.Time
	Name      string
	ID        uuid.UUID
}

// Bank represents a bank reference entry. Bank names are unique within a country.
type Bank struct {
	CreatedAt time.Time
	Name      string
	ID        uuid.UUID
	CountryID uuid.UUID
}

// Holder represents a registry holder, the tenant that owns accounts and
// categories.
type Holder struct {
	CreatedAt time.Time
	Name      string
	ID        uuid.UUID
}
