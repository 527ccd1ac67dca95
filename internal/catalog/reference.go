package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/model"
	"github.com/finbook/finbook/internal/service"
)

// CreateHolder registers a new holder with a globally unique name.
func (s *Service) CreateHolder(ctx context.Context, name string) (*model.Holder, error) {
	if name == "" {
		return nil, common.NewValidationError("holder name is required")
	}

	holder := &model.Holder{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		taken, err := tx.HolderNameExists(ctx, name, holder.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("holder %q already exists", name)
		}
		return tx.CreateHolder(ctx, holder)
	})
	if err != nil {
		return nil, err
	}
	return holder, nil
}

// CreateCurrency registers a new currency. Char code, numeric code, and name
// must each be unique among non-deleted currencies.
func (s *Service) CreateCurrency(ctx context.Context, charCode, numCode, name string) (*model.Currency, error) {
	if charCode == "" || name == "" {
		return nil, common.NewValidationError("currency char code and name are required")
	}

	currency := &model.Currency{
		ID:        uuid.New(),
		CharCode:  charCode,
		NumCode:   numCode,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		taken, err := tx.CurrencyCodeExists(ctx, charCode, numCode, currency.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("currency code %s/%s already exists", charCode, numCode)
		}

		taken, err = tx.CurrencyNameExists(ctx, name, currency.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("currency name %q already exists", name)
		}

		return tx.CreateCurrency(ctx, currency)
	})
	if err != nil {
		return nil, err
	}
	return currency, nil
}

// CreateAccountType registers a new account type with a unique name among
// non-deleted types.
func (s *Service) CreateAccountType(ctx context.Context, name string) (*model.AccountType, error) {
	if name == "" {
		return nil, common.NewValidationError("account type name is required")
	}

	accountType := &model.AccountType{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		taken, err := tx.AccountTypeNameExists(ctx, name, accountType.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("account type %q already exists", name)
		}
		return tx.CreateAccountType(ctx, accountType)
	})
	if err != nil {
		return nil, err
	}
	return accountType, nil
}

// CreateCountry registers a new country with a globally unique name.
func (s *Service) CreateCountry(ctx context.Context, name string) (*model.Country, error) {
	if name == "" {
		return nil, common.NewValidationError("country name is required")
	}

	country := &model.Country{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		taken, err := tx.CountryNameExists(ctx, name, country.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("country %q already exists", name)
		}
		return tx.CreateCountry(ctx, country)
	})
	if err != nil {
		return nil, err
	}
	return country, nil
}

// CreateBank registers a new bank. Bank names are unique within a country.
func (s *Service) CreateBank(ctx context.Context, countryID uuid.UUID, name string) (*model.Bank, error) {
	if name == "" {
		return nil, common.NewValidationError("bank name is required")
	}

	bank := &model.Bank{ID: uuid.New(), CountryID: countryID, Name: name, CreatedAt: time.Now().UTC()}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		country, err := tx.GetCountryByID(ctx, countryID)
		if err != nil {
			return err
		}
		if country == nil {
			return common.NewNotFoundError("country", countryID.String())
		}

		taken, err := tx.BankNameExists(ctx, countryID, name, bank.ID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("bank %q already exists in %s", name, country.Name)
		}

		return tx.CreateBank(ctx, bank)
	})
	if err != nil {
		return nil, err
	}
	return bank, nil
}

// SetExchangeRate records the rate of a currency for a date, replacing any
// previous value for that date. A soft-deleted currency accepts no new rates.
func (s *Service) SetExchangeRate(ctx context.Context, currencyID uuid.UUID, date time.Time, nominal int, rate decimal.Decimal) (*model.ExchangeRate, error) {
	if date.IsZero() {
		return nil, common.NewValidationError("rate date is required")
	}
	if nominal <= 0 || !rate.IsPositive() {
		return nil, common.NewValidationError("rate and nominal must be positive")
	}

	exchangeRate := &model.ExchangeRate{
		ID:         uuid.New(),
		CurrencyID: currencyID,
		Date:       date,
		Nominal:    nominal,
		Rate:       rate,
		CreatedAt:  time.Now().UTC(),
	}

	err := s.withTx(ctx, func(tx service.Transaction) error {
		currency, err := tx.GetCurrencyByID(ctx, currencyID)
		if err != nil {
			return err
		}
		if currency == nil {
			return common.NewNotFoundError("currency", currencyID.String())
		}
		if currency.IsDeleted {
			return common.NewConflictError("currency %q is deleted", currency.CharCode)
		}
		return tx.SaveExchangeRate(ctx, exchangeRate)
	})
	if err != nil {
		return nil, err
	}
	return exchangeRate, nil
}
