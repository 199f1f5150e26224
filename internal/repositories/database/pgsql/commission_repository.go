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

type PgxCommissionRepository struct {
	BaseRepository
}

func newPgxCommissionRepository(pool *pgxpool.Pool) portsrepo.CommissionRepositoryFacade {
	return &PgxCommissionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.CommissionRepositoryFacade = (*PgxCommissionRepository)(nil)

const ruleColumns = `rule_id, tenant_id, event_kind, currency_code, customer_tier, percent, floor_amount, cap_amount, priority, waived, revenue_account_code, expense_account_code, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxCommissionRepository) FindRules(ctx context.Context, tenantID string) ([]domain.CommissionRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM commission_rules WHERE tenant_id = $1 ORDER BY priority, rule_id;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list commission rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.CommissionRule
	for rows.Next() {
		var rule domain.CommissionRule
		err := rows.Scan(
			&rule.RuleID,
			&rule.TenantID,
			&rule.EventKind,
			&rule.CurrencyCode,
			&rule.CustomerTier,
			&rule.Percent,
			&rule.Floor,
			&rule.Cap,
			&rule.Priority,
			&rule.Waived,
			&rule.RevenueAccountCode,
			&rule.ExpenseAccountCode,
			&rule.CreatedAt,
			&rule.CreatedBy,
			&rule.LastUpdatedAt,
			&rule.LastUpdatedBy,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("failed to scan commission rule: %w", err)
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// SaveRule inserts or replaces a rule by its ID.
func (r *PgxCommissionRepository) SaveRule(ctx context.Context, rule domain.CommissionRule) error {
	query := `
		INSERT INTO commission_rules (` + ruleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (rule_id) DO UPDATE SET
			event_kind = EXCLUDED.event_kind,
			currency_code = EXCLUDED.currency_code,
			customer_tier = EXCLUDED.customer_tier,
			percent = EXCLUDED.percent,
			floor_amount = EXCLUDED.floor_amount,
			cap_amount = EXCLUDED.cap_amount,
			priority = EXCLUDED.priority,
			waived = EXCLUDED.waived,
			revenue_account_code = EXCLUDED.revenue_account_code,
			expense_account_code = EXCLUDED.expense_account_code,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		rule.RuleID,
		rule.TenantID,
		rule.EventKind,
		rule.CurrencyCode,
		rule.CustomerTier,
		rule.Percent,
		rule.Floor,
		rule.Cap,
		rule.Priority,
		rule.Waived,
		rule.RevenueAccountCode,
		rule.ExpenseAccountCode,
		rule.CreatedAt,
		rule.CreatedBy,
		rule.LastUpdatedAt,
		rule.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save commission rule %s: %w", rule.RuleID, err)
	}
	return nil
}

func (r *PgxCommissionRepository) DeleteRule(ctx context.Context, tenantID, ruleID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM commission_rules WHERE tenant_id = $1 AND rule_id = $2;`, tenantID, ruleID)
	if err != nil {
		return fmt.Errorf("failed to delete commission rule %s: %w", ruleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
