package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
)

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepositoryFacade {
	return &PgxExchangeRateRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

const rateColumns = `exchange_rate_id, tenant_id, from_currency, to_currency, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by`

func scanRate(row pgx.Row) (*domain.ExchangeRate, error) {
	var er domain.ExchangeRate
	err := row.Scan(
		&er.ExchangeRateID,
		&er.TenantID,
		&er.FromCurrency,
		&er.ToCurrency,
		&er.Rate,
		&er.DateEffective,
		&er.CreatedAt,
		&er.CreatedBy,
		&er.LastUpdatedAt,
		&er.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
	}
	return &er, nil
}

// FindLatestRate returns the newest rate for the pair effective at or before asOf.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, tenantID, fromCurrency, toCurrency string, asOf time.Time) (*domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE tenant_id = $1 AND from_currency = $2 AND to_currency = $3 AND date_effective <= $4
		ORDER BY date_effective DESC
		LIMIT 1;
	`
	return scanRate(r.Pool.QueryRow(ctx, query, tenantID, fromCurrency, toCurrency, asOf))
}

func (r *PgxExchangeRateRepository) ListRates(ctx context.Context, tenantID string) ([]domain.ExchangeRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM exchange_rates
		WHERE tenant_id = $1
		ORDER BY from_currency, to_currency, date_effective DESC;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange rates: %w", err)
	}
	defer rows.Close()

	var rates []domain.ExchangeRate
	for rows.Next() {
		er, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *er)
	}
	return rates, rows.Err()
}

func (r *PgxExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	query := `
		INSERT INTO exchange_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		rate.ExchangeRateID,
		rate.TenantID,
		rate.FromCurrency,
		rate.ToCurrency,
		rate.Rate,
		rate.DateEffective,
		rate.CreatedAt,
		rate.CreatedBy,
		rate.LastUpdatedAt,
		rate.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: exchange rate %s already exists", apperrors.ErrDuplicate, rate.ExchangeRateID)
		}
		return fmt.Errorf("failed to save exchange rate: %w", err)
	}
	return nil
}
