package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData returns net balances per active account as of a date,
// already placed into the debit or credit column by normal side.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, tenantID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT a.code, a.name, a.account_type, a.currency_code,
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'DEBIT'), 0) AS debits,
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'CREDIT'), 0) AS credits
		FROM accounts a
		LEFT JOIN journal_lines l ON l.tenant_id = a.tenant_id AND l.account_code = a.code
		LEFT JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.sequence = l.sequence AND e.effective_date <= $2
		WHERE a.tenant_id = $1 AND a.is_active AND (e.sequence IS NOT NULL OR l.line_id IS NULL)
		GROUP BY a.code, a.name, a.account_type, a.currency_code
		ORDER BY a.code;
	`, tenantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	var out []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var debits, credits decimal.Decimal
		if err := rows.Scan(&row.AccountCode, &row.AccountName, &row.AccountType, &row.CurrencyCode, &debits, &credits); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		net := debits.Sub(credits)
		switch {
		case net.IsPositive():
			row.Debit = net
		case net.IsNegative():
			row.Credit = net.Neg()
		default:
			continue
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetCashFlowData sums cash-account lines in [from, to] by currency and
// cash-flow tag.
func (r *PgxReportingRepository) GetCashFlowData(ctx context.Context, tenantID string, from, to time.Time) (*portsrepo.CashFlowSums, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT l.currency_code, a.cash_flow_tag, l.side, COALESCE(SUM(l.amount), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.sequence = l.sequence
		JOIN accounts a ON a.tenant_id = l.tenant_id AND a.code = l.account_code
		WHERE l.tenant_id = $1 AND a.is_cash AND e.effective_date >= $2 AND e.effective_date <= $3
		GROUP BY l.currency_code, a.cash_flow_tag, l.side;
	`, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash flow data: %w", err)
	}
	defer rows.Close()

	sums := &portsrepo.CashFlowSums{
		Debits:  make(map[portsrepo.CashFlowKey]decimal.Decimal),
		Credits: make(map[portsrepo.CashFlowKey]decimal.Decimal),
	}
	for rows.Next() {
		var key portsrepo.CashFlowKey
		var side domain.EntrySide
		var amount decimal.Decimal
		if err := rows.Scan(&key.CurrencyCode, &key.Tag, &side, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan cash flow row: %w", err)
		}
		if side == domain.Debit {
			sums.Debits[key] = sums.Debits[key].Add(amount)
		} else {
			sums.Credits[key] = sums.Credits[key].Add(amount)
		}
	}
	return sums, rows.Err()
}

// GetProfitAndLossData returns net revenue and expense amounts per account over
// [from, to]. Revenue nets credit minus debit, expense the opposite.
func (r *PgxReportingRepository) GetProfitAndLossData(ctx context.Context, tenantID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT a.code, a.name, a.account_type, a.currency_code,
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'DEBIT'), 0) AS debits,
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'CREDIT'), 0) AS credits
		FROM journal_lines l
		JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.sequence = l.sequence
		JOIN accounts a ON a.tenant_id = l.tenant_id AND a.code = l.account_code
		WHERE l.tenant_id = $1 AND a.account_type IN ('REVENUE', 'EXPENSE')
			AND e.effective_date >= $2 AND e.effective_date <= $3
		GROUP BY a.code, a.name, a.account_type, a.currency_code
		ORDER BY a.code;
	`, tenantID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query profit and loss data: %w", err)
	}
	defer rows.Close()

	var revenue, expenses []domain.AccountAmount
	for rows.Next() {
		var code, name, currency string
		var accountType domain.AccountType
		var debits, credits decimal.Decimal
		if err := rows.Scan(&code, &name, &accountType, &currency, &debits, &credits); err != nil {
			return nil, nil, fmt.Errorf("failed to scan profit and loss row: %w", err)
		}
		if accountType == domain.Revenue {
			revenue = append(revenue, domain.AccountAmount{AccountCode: code, Name: name, CurrencyCode: currency, NetAmount: credits.Sub(debits)})
		} else {
			expenses = append(expenses, domain.AccountAmount{AccountCode: code, Name: name, CurrencyCode: currency, NetAmount: debits.Sub(credits)})
		}
	}
	return revenue, expenses, rows.Err()
}

// GetTenantActivity aggregates revenue, expense and activity counts over a
// period, keeping revenue and expense separate per currency. Customer count is
// distinct remittance senders, the closest activity proxy the core stores.
func (r *PgxReportingRepository) GetTenantActivity(ctx context.Context, tenantID string, from, to time.Time) (*portsrepo.TenantActivity, error) {
	activity := &portsrepo.TenantActivity{
		RevenueByCurrency: make(map[string]decimal.Decimal),
		ExpenseByCurrency: make(map[string]decimal.Decimal),
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT l.currency_code,
			COALESCE(SUM(l.amount) FILTER (WHERE a.account_type = 'REVENUE' AND l.side = 'CREDIT'), 0)
			- COALESCE(SUM(l.amount) FILTER (WHERE a.account_type = 'REVENUE' AND l.side = 'DEBIT'), 0),
			COALESCE(SUM(l.amount) FILTER (WHERE a.account_type = 'EXPENSE' AND l.side = 'DEBIT'), 0)
			- COALESCE(SUM(l.amount) FILTER (WHERE a.account_type = 'EXPENSE' AND l.side = 'CREDIT'), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.sequence = l.sequence
		JOIN accounts a ON a.tenant_id = l.tenant_id AND a.code = l.account_code
		WHERE l.tenant_id = $1 AND a.account_type IN ('REVENUE', 'EXPENSE')
			AND e.effective_date >= $2 AND e.effective_date <= $3
		GROUP BY l.currency_code;
	`, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var currency string
		var revenue, expense decimal.Decimal
		if err := rows.Scan(&currency, &revenue, &expense); err != nil {
			return nil, fmt.Errorf("failed to scan tenant activity row: %w", err)
		}
		activity.RevenueByCurrency[currency] = revenue
		activity.ExpenseByCurrency[currency] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = r.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM journal_entries
		WHERE tenant_id = $1 AND effective_date >= $2 AND effective_date <= $3;
	`, tenantID, from, to).Scan(&activity.EntryCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	err = r.Pool.QueryRow(ctx, `
		SELECT COUNT(DISTINCT sender_customer)
		FROM remittances
		WHERE tenant_id = $1 AND created_at >= $2 AND created_at <= $3;
	`, tenantID, from, to).Scan(&activity.CustomerCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return activity, nil
}
