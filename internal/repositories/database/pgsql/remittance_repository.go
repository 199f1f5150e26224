package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
)

type PgxRemittanceRepository struct {
	BaseRepository
}

func newPgxRemittanceRepository(pool *pgxpool.Pool) portsrepo.RemittanceRepositoryFacade {
	return &PgxRemittanceRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.RemittanceRepositoryFacade = (*PgxRemittanceRepository)(nil)

const remittanceColumns = `remittance_id, tenant_id, sender_customer, receiver_partner, principal, fee, currency_code, corridor, funded_by, status, created_at, created_by, last_updated_at, last_updated_by`

func scanRemittance(row pgx.Row) (*domain.Remittance, error) {
	var m domain.Remittance
	err := row.Scan(
		&m.RemittanceID,
		&m.TenantID,
		&m.SenderCustomer,
		&m.ReceiverPartner,
		&m.Principal,
		&m.Fee,
		&m.CurrencyCode,
		&m.Corridor,
		&m.FundedBy,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan remittance: %w", err)
	}
	return &m, nil
}

func (r *PgxRemittanceRepository) FindRemittanceByID(ctx context.Context, tenantID, remittanceID string) (*domain.Remittance, error) {
	query := `SELECT ` + remittanceColumns + ` FROM remittances WHERE tenant_id = $1 AND remittance_id = $2;`
	return scanRemittance(r.Pool.QueryRow(ctx, query, tenantID, remittanceID))
}

func (r *PgxRemittanceRepository) ListRemittances(ctx context.Context, tenantID string, status *domain.RemittanceStatus) ([]domain.Remittance, error) {
	query := `SELECT ` + remittanceColumns + ` FROM remittances WHERE tenant_id = $1`
	args := []any{tenantID}
	if status != nil {
		args = append(args, *status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list remittances: %w", err)
	}
	defer rows.Close()

	var remittances []domain.Remittance
	for rows.Next() {
		m, err := scanRemittance(rows)
		if err != nil {
			return nil, err
		}
		remittances = append(remittances, *m)
	}
	return remittances, rows.Err()
}

func (r *PgxRemittanceRepository) ListTrackingEvents(ctx context.Context, tenantID, remittanceID string) ([]domain.RemittanceTrackingEvent, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT remittance_id, seq, from_status, to_status, actor, at, location, note
		FROM remittance_tracking
		WHERE tenant_id = $1 AND remittance_id = $2
		ORDER BY seq;
	`, tenantID, remittanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracking events: %w", err)
	}
	defer rows.Close()

	var events []domain.RemittanceTrackingEvent
	for rows.Next() {
		var e domain.RemittanceTrackingEvent
		if err := rows.Scan(&e.RemittanceID, &e.Seq, &e.From, &e.To, &e.Actor, &e.At, &e.Location, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan tracking event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PgxRemittanceRepository) SaveRemittance(ctx context.Context, remittance domain.Remittance) error {
	query := `
		INSERT INTO remittances (` + remittanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		remittance.RemittanceID,
		remittance.TenantID,
		remittance.SenderCustomer,
		remittance.ReceiverPartner,
		remittance.Principal,
		remittance.Fee,
		remittance.CurrencyCode,
		remittance.Corridor,
		remittance.FundedBy,
		remittance.Status,
		remittance.CreatedAt,
		remittance.CreatedBy,
		remittance.LastUpdatedAt,
		remittance.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: remittance %s already exists", apperrors.ErrDuplicate, remittance.RemittanceID)
		}
		return fmt.Errorf("failed to save remittance %s: %w", remittance.RemittanceID, err)
	}
	return nil
}

// AdvanceStatus atomically updates the remittance status and appends the
// tracking event. The stored status must still equal event.From, otherwise
// ErrConflict is returned.
func (r *PgxRemittanceRepository) AdvanceStatus(ctx context.Context, tenantID string, event domain.RemittanceTrackingEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE remittances
		SET status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND remittance_id = $2 AND status = $3;
	`, tenantID, event.RemittanceID, event.From, event.To, event.At, event.Actor)
	if err != nil {
		return fmt.Errorf("failed to update remittance status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, ferr := r.FindRemittanceByID(ctx, tenantID, event.RemittanceID); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w: remittance %s is no longer in %s", apperrors.ErrConflict, event.RemittanceID, event.From)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO remittance_tracking (tenant_id, remittance_id, seq, from_status, to_status, actor, at, location, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, tenantID, event.RemittanceID, event.Seq, event.From, event.To, event.Actor, event.At, event.Location, event.Note)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tracking seq %d already recorded", apperrors.ErrConflict, event.Seq)
		}
		return fmt.Errorf("failed to append tracking event: %w", err)
	}

	return r.Commit(ctx, tx)
}
