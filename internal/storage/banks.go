package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finbook/finbook/internal/model"
)

// CreateBank persists a new bank.
func (q *queries) CreateBank(ctx context.Context, bank *model.Bank) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if bank == nil {
		return fmt.Errorf("%w: bank", ErrNilParameter)
	}
	if err := validateID(bank.ID, "bank.ID"); err != nil {
		return err
	}
	if err := validateID(bank.CountryID, "bank.CountryID"); err != nil {
		return err
	}
	if err := validateString(bank.Name, "bank.Name"); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO banks (id, country_id, name, created_at) VALUES (?, ?, ?, ?)`,
		bank.ID.String(), bank.CountryID.String(), bank.Name, bank.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bank: %w", err)
	}
	return nil
}

// GetBankByID returns a bank by its id, or nil when not found.
func (q *queries) GetBankByID(ctx context.Context, id uuid.UUID) (*model.Bank, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	bank, err := scanBank(q.db.QueryRowContext(ctx,
		`SELECT id, country_id, name, created_at FROM banks WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bank: %w", err)
	}
	return bank, nil
}

// ListBanks returns all banks ordered by name.
func (q *queries) ListBanks(ctx context.Context) ([]model.Bank, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx,
		`SELECT id, country_id, name, created_at FROM banks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query banks: %w", err)
	}
	defer rows.Close()

	var banks []model.Bank
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, *bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banks: %w", err)
	}
	return banks, nil
}

// DeleteBank removes a bank row.
func (q *queries) DeleteBank(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `DELETE FROM banks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete bank: %w", err)
	}
	return requireRowAffected(result, "bank")
}

// BankNameExists reports whether another bank in the same country carries the
// same name.
func (q *queries) BankNameExists(ctx context.Context, countryID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateID(countryID, "countryID"); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM banks WHERE country_id = ? AND name = ? AND id <> ?)`,
		countryID.String(), name, excludeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check bank name: %w", err)
	}
	return exists, nil
}

// CreateCountry persists a new country.
func (q *queries) CreateCountry(ctx context.Context, country *model.Country) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if country == nil {
		return fmt.Errorf("%w: country", ErrNilParameter)
	}
	if err := validateID(country.ID, "country.ID"); err != nil {
		return err
	}
	if err := validateString(country.Name, "country.Name"); err != nil {
		return err
	}

	_, err := q.db.ExecContext(ctx,
		`INSERT INTO countries (id, name, created_at) VALUES (?, ?, ?)`,
		country.ID.String(), country.Name, country.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create country: %w", err)
	}
	return nil
}

// GetCountryByID returns a country by its id, or nil when not found.
func (q *queries) GetCountryByID(ctx context.Context, id uuid.UUID) (*model.Country, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var country model.Country
	var rawID string
	err := q.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM countries WHERE id = ?`, id.String(),
	).Scan(&rawID, &country.Name, &country.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country: %w", err)
	}

	if country.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("failed to parse country id: %w", err)
	}
	return &country, nil
}

// ListCountries returns all countries ordered by name.
func (q *queries) ListCountries(ctx context.Context) ([]model.Country, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := q.db.QueryContext(ctx, `SELECT id, name, created_at FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer rows.Close()

	var countries []model.Country
	for rows.Next() {
		var country model.Country
		var rawID string
		if err := rows.Scan(&rawID, &country.Name, &country.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		if country.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("failed to parse country id: %w", err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating countries: %w", err)
	}
	return countries, nil
}

// DeleteCountry removes a country row.
func (q *queries) DeleteCountry(ctx context.Context, id uuid.UUID) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := q.db.ExecContext(ctx, `DELETE FROM countries WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}
	return requireRowAffected(result, "country")
}

// CountryNameExists reports whether another country carries the same name.
func (q *queries) CountryNameExists(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM countries WHERE name = ? AND id <> ?)`,
		name, excludeID.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check country name: %w", err)
	}
	return exists, nil
}

// BanksUseCountry reports whether any bank references the country.
func (q *queries) BanksUseCountry(ctx context.Context, countryID uuid.UUID) (bool, error) {
	return q.existsCheck(ctx, `SELECT EXISTS(SELECT 1 FROM banks WHERE country_id = ?)`, countryID)
}

func scanBank(row rowScanner) (*model.Bank, error) {
	var bank model.Bank
	var id, countryID string
	if err := row.Scan(&id, &countryID, &bank.Name, &bank.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if bank.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse bank id: %w", err)
	}
	if bank.CountryID, err = uuid.Parse(countryID); err != nil {
		return nil, fmt.Errorf("failed to parse country id: %w", err)
	}
	return &bank, nil
}
