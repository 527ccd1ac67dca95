package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook/internal/model"
)

const rateDateLayout = "2006-01-02"

// SaveExchangeRate inserts or replaces the rate of a currency for a date.
func (q *queries) SaveExchangeRate(ctx context.Context, rate *model.ExchangeRate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRate(rate); err != nil {
		return err
	}

	query := `
		INSERT INTO exchange_rates (id, currency_id, date, nominal, rate, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(currency_id, date) DO UPDATE SET nominal = excluded.nominal, rate = excluded.rate`

	_, err := q.db.ExecContext(ctx, query,
		rate.ID.String(), rate.CurrencyID.String(), rate.Date.Format(rateDateLayout),
		rate.Nominal, rate.Rate.String(), rate.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return nil
}

// ListExchangeRates returns all rates of a currency ordered by date.
func (q *queries) ListExchangeRates(ctx context.Context, currencyID uuid.UUID) ([]model.ExchangeRate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(currencyID, "currencyID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, currency_id, date, nominal, rate, created_at
		FROM exchange_rates
		WHERE currency_id = ?
		ORDER BY date`

	rows, err := q.db.QueryContext(ctx, query, currencyID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []model.ExchangeRate
	for rows.Next() {
		var rate model.ExchangeRate
		var id, currency, date, value string
		if err := rows.Scan(&id, &currency, &date, &rate.Nominal, &value, &rate.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		if rate.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse rate id: %w", err)
		}
		if rate.CurrencyID, err = uuid.Parse(currency); err != nil {
			return nil, fmt.Errorf("failed to parse currency id: %w", err)
		}
		if rate.Date, err = parseRateDate(date); err != nil {
			return nil, err
		}
		if rate.Rate, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("failed to parse rate value %q: %w", value, err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exchange rates: %w", err)
	}
	return rates, nil
}

// RatesUseCurrency reports whether any exchange rate references the currency.
func (q *queries) RatesUseCurrency(ctx context.Context, currencyID uuid.UUID) (bool, error) {
	return q.existsCheck(ctx, `SELECT EXISTS(SELECT 1 FROM exchange_rates WHERE currency_id = ?)`, currencyID)
}

func parseRateDate(s string) (time.Time, error) {
	t, err := time.Parse(rateDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse rate date %q: %w", s, err)
	}
	return t, nil
}
