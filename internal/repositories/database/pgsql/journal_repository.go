package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	"github.com/sarrafly/exchange_backoffice/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for the append-only journal
// and its derived balance snapshots.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, sequence, effective_date, origin_kind, origin_id, description, status, reverses, reversed_by, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.TenantID,
		&e.Sequence,
		&e.EffectiveDate,
		&e.Origin.Kind,
		&e.Origin.EventID,
		&e.Description,
		&e.Status,
		&e.Reverses,
		&e.ReversedBy,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	return &e, nil
}

// AppendEntry atomically assigns the tenant's next sequence number and persists
// the entry with its lines. The unique (tenant, origin kind, origin id) index
// doubles as the idempotency marker; violating it yields ErrDuplicate.
func (r *PgxJournalRepository) AppendEntry(ctx context.Context, entry *domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The tenant write gate serializes appends in-process; MAX+1 under the
	// transaction keeps sequences dense.
	var seq int64
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sequence), 0) + 1 FROM journal_entries WHERE tenant_id = $1;`,
		entry.TenantID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("failed to assign sequence: %w", err)
	}
	entry.Sequence = seq

	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`,
		entry.EntryID,
		entry.TenantID,
		entry.Sequence,
		entry.EffectiveDate,
		entry.Origin.Kind,
		entry.Origin.EventID,
		entry.Description,
		entry.Status,
		entry.Reverses,
		entry.ReversedBy,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: event %s already posted", apperrors.ErrDuplicate, entry.Origin.EventID)
		}
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		batch.Queue(`
			INSERT INTO journal_lines (line_id, entry_id, tenant_id, sequence, account_code, side, amount, currency_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`,
			line.LineID,
			entry.EntryID,
			entry.TenantID,
			entry.Sequence,
			line.AccountCode,
			line.Side,
			line.Amount,
			line.CurrencyCode,
		)
	}
	br := tx.SendBatch(ctx, batch)
	for range entry.Lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert journal lines: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close line batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// MarkReversed links an entry to the entry that reversed it. A second attempt
// finds reversed_by already set and reports the conflict.
func (r *PgxJournalRepository) MarkReversed(ctx context.Context, tenantID string, seq, reversedBy int64, actor string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE journal_entries
		SET reversed_by = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE tenant_id = $1 AND sequence = $2 AND reversed_by IS NULL;
	`, tenantID, seq, reversedBy, domain.Reversed, at, actor)
	if err != nil {
		return fmt.Errorf("failed to mark entry %d reversed: %w", seq, err)
	}
	if tag.RowsAffected() == 0 {
		if _, ferr := r.FindEntryBySequence(ctx, tenantID, seq); ferr != nil {
			return ferr
		}
		return fmt.Errorf("%w: entry %d already reversed", apperrors.ErrDoubleReversal, seq)
	}
	return nil
}

func (r *PgxJournalRepository) FindEntryBySequence(ctx context.Context, tenantID string, seq int64) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND sequence = $2;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, seq))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PgxJournalRepository) FindEntryByOrigin(ctx context.Context, tenantID string, origin domain.EventOrigin) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND origin_kind = $2 AND origin_id = $3;`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, origin.Kind, origin.EventID))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *PgxJournalRepository) loadLines(ctx context.Context, entry *domain.JournalEntry) error {
	rows, err := r.Pool.Query(ctx, `
		SELECT line_id, entry_id, account_code, side, amount, currency_code
		FROM journal_lines
		WHERE tenant_id = $1 AND sequence = $2
		ORDER BY line_id;
	`, entry.TenantID, entry.Sequence)
	if err != nil {
		return fmt.Errorf("failed to load lines for entry %d: %w", entry.Sequence, err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.JournalLine
		if err := rows.Scan(&line.LineID, &line.EntryID, &line.AccountCode, &line.Side, &line.Amount, &line.CurrencyCode); err != nil {
			return fmt.Errorf("failed to scan journal line: %w", err)
		}
		entry.Lines = append(entry.Lines, line)
	}
	return rows.Err()
}

// ScanEntries returns entries ordered by (effective date, sequence),
// restartable via the filter's AfterSeq cursor.
func (r *PgxJournalRepository) ScanEntries(ctx context.Context, tenantID string, filter domain.EntryFilter) ([]domain.JournalEntry, *string, error) {
	query := `SELECT DISTINCT e.entry_id, e.tenant_id, e.sequence, e.effective_date, e.origin_kind, e.origin_id, e.description, e.status, e.reverses, e.reversed_by, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM journal_entries e`
	args := []any{tenantID}
	if filter.AccountCode != "" {
		query += ` JOIN journal_lines l ON l.tenant_id = e.tenant_id AND l.sequence = e.sequence`
	}
	query += ` WHERE e.tenant_id = $1`
	if filter.AfterSeq > 0 {
		// Resume strictly after the cursor entry in scan order. Comparing on
		// (effective_date, sequence) keeps backdated entries from being skipped
		// when their sequence disagrees with their date position.
		args = append(args, filter.AfterSeq)
		query += fmt.Sprintf(` AND (e.effective_date, e.sequence) > (
			SELECT c.effective_date, c.sequence FROM journal_entries c
			WHERE c.tenant_id = $1 AND c.sequence = $%d)`, len(args))
	}
	if filter.AccountCode != "" {
		args = append(args, filter.AccountCode)
		query += fmt.Sprintf(` AND l.account_code = $%d`, len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND e.effective_date >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND e.effective_date <= $%d`, len(args))
	}
	if filter.OriginKind != "" {
		args = append(args, filter.OriginKind)
		query += fmt.Sprintf(` AND e.origin_kind = $%d`, len(args))
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY e.effective_date, e.sequence LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan journal: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		token := pagination.EncodeSeqToken(entries[len(entries)-1].Sequence)
		nextToken = &token
	}

	if filter.IncludeLines {
		for i := range entries {
			if err := r.loadLines(ctx, &entries[i]); err != nil {
				return nil, nil, err
			}
		}
	}
	return entries, nextToken, nil
}

// SumAccountSides sums debit and credit amounts posted to an account with
// effective date in (after, upTo]. The window is bounded by dates rather than
// sequences so an entry appended late with an earlier effective date, or early
// with a later one, still lands in exactly one window.
func (r *PgxJournalRepository) SumAccountSides(ctx context.Context, tenantID, accountCode string, after, upTo time.Time) (decimal.Decimal, decimal.Decimal, int64, error) {
	var debit, credit decimal.Decimal
	var maxSeq int64
	err := r.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'DEBIT'), 0),
			COALESCE(SUM(l.amount) FILTER (WHERE l.side = 'CREDIT'), 0),
			COALESCE(MAX(l.sequence), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.sequence = l.sequence
		WHERE l.tenant_id = $1 AND l.account_code = $2 AND e.effective_date > $3 AND e.effective_date <= $4;
	`, tenantID, accountCode, after, upTo).Scan(&debit, &credit, &maxSeq)
	if err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to sum account %s: %w", accountCode, err)
	}
	return debit, credit, maxSeq, nil
}

// FindAccountLines returns an account's lines within [from, to] ordered by
// (effective date, sequence).
func (r *PgxJournalRepository) FindAccountLines(ctx context.Context, tenantID, accountCode string, from, to time.Time) ([]domain.LedgerLine, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT e.sequence, e.effective_date, e.description, l.side, l.amount, l.currency_code
		FROM journal_lines l
		JOIN journal_entries e ON e.tenant_id = l.tenant_id AND e.sequence = l.sequence
		WHERE l.tenant_id = $1 AND l.account_code = $2 AND e.effective_date >= $3 AND e.effective_date <= $4
		ORDER BY e.effective_date, e.sequence;
	`, tenantID, accountCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger lines for %s: %w", accountCode, err)
	}
	defer rows.Close()

	var lines []domain.LedgerLine
	for rows.Next() {
		var line domain.LedgerLine
		if err := rows.Scan(&line.Sequence, &line.EffectiveDate, &line.Description, &line.Side, &line.Amount, &line.CurrencyCode); err != nil {
			return nil, fmt.Errorf("failed to scan ledger line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AccountHasLines reports whether any journal line references the account.
func (r *PgxJournalRepository) AccountHasLines(ctx context.Context, tenantID, accountCode string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM journal_lines WHERE tenant_id = $1 AND account_code = $2);
	`, tenantID, accountCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check lines for %s: %w", accountCode, err)
	}
	return exists, nil
}

func (r *PgxJournalRepository) SaveSnapshot(ctx context.Context, snap domain.BalanceSnapshot) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO balance_snapshots (tenant_id, account_code, as_of, balance, last_seq)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, account_code, as_of)
		DO UPDATE SET balance = EXCLUDED.balance, last_seq = EXCLUDED.last_seq;
	`, snap.TenantID, snap.AccountCode, snap.AsOf, snap.Balance, snap.LastSeq)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s: %w", snap.AccountCode, err)
	}
	return nil
}

func (r *PgxJournalRepository) FindSnapshot(ctx context.Context, tenantID, accountCode string, notAfter time.Time) (*domain.BalanceSnapshot, error) {
	var snap domain.BalanceSnapshot
	err := r.Pool.QueryRow(ctx, `
		SELECT tenant_id, account_code, as_of, balance, last_seq
		FROM balance_snapshots
		WHERE tenant_id = $1 AND account_code = $2 AND as_of <= $3
		ORDER BY as_of DESC
		LIMIT 1;
	`, tenantID, accountCode, notAfter).Scan(&snap.TenantID, &snap.AccountCode, &snap.AsOf, &snap.Balance, &snap.LastSeq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find snapshot for %s: %w", accountCode, err)
	}
	return &snap, nil
}

func (r *PgxJournalRepository) LatestSnapshotDate(ctx context.Context, tenantID string) (*time.Time, error) {
	var asOf *time.Time
	err := r.Pool.QueryRow(ctx, `
		SELECT MAX(as_of) FROM balance_snapshots WHERE tenant_id = $1;
	`, tenantID).Scan(&asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot horizon: %w", err)
	}
	return asOf, nil
}

func (r *PgxJournalRepository) InvalidateSnapshots(ctx context.Context, tenantID string, from time.Time) error {
	_, err := r.Pool.Exec(ctx, `
		DELETE FROM balance_snapshots WHERE tenant_id = $1 AND as_of >= $2;
	`, tenantID, from)
	if err != nil {
		return fmt.Errorf("failed to invalidate snapshots: %w", err)
	}
	return nil
}
