// Package storage provides the data persistence layer for the finbook catalog.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidID      = errors.New("id cannot be zero")
	ErrInvalidRate    = errors.New("invalid exchange rate")
	ErrInvalidAccount = errors.New("invalid account")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures an id parameter is not the zero uuid.
func validateID(id uuid.UUID, paramName string) error {
	if id == uuid.Nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateCategory validates a category before persistence.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := validateID(category.ID, "category.ID"); err != nil {
		return err
	}
	if err := validateID(category.HolderID, "category.HolderID"); err != nil {
		return err
	}
	return validateString(category.Name, "category.Name")
}

// validateAccount validates an account before persistence.
func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateID(account.ID, "account.ID"); err != nil {
		return err
	}
	if err := validateID(account.HolderID, "account.HolderID"); err != nil {
		return err
	}
	if account.AccountTypeID == uuid.Nil || account.CurrencyID == uuid.Nil || account.BankID == uuid.Nil {
		return fmt.Errorf("%w: missing reference id", ErrInvalidAccount)
	}
	return validateString(account.Name, "account.Name")
}

// validateRate validates an exchange rate before persistence.
func validateRate(rate *model.ExchangeRate) error {
	if rate == nil {
		return fmt.Errorf("%w: rate", ErrNilParameter)
	}
	if err := validateID(rate.CurrencyID, "rate.CurrencyID"); err != nil {
		return err
	}
	if rate.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidRate)
	}
	if rate.Nominal <= 0 {
		return fmt.Errorf("%w: nominal must be positive", ErrInvalidRate)
	}
	if rate.Rate.IsNegative() || rate.Rate.IsZero() {
		return fmt.Errorf("%w: rate must be positive", ErrInvalidRate)
	}
	return nil
}
