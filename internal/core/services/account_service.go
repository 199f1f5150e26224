package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
)

var (
	ErrParentCycle    = errors.New("account hierarchy must not contain cycles")
	ErrParentNotFound = errors.New("parent account not found")
)

// accountService manages the per-tenant chart of accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalReader
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, journalRepo portsrepo.JournalReader) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, journalRepo: journalRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates a new ledger account after validating its parent chain.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actor string) (*domain.Account, error) {
	if req.Code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if req.ParentCode == req.Code && req.ParentCode != "" {
		return nil, fmt.Errorf("%w: account %s cannot be its own parent", ErrParentCycle, req.Code)
	}

	if req.ParentCode != "" {
		parent, err := s.accountRepo.FindAccountByCode(ctx, tenantID, req.ParentCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrParentNotFound, req.ParentCode)
			}
			return nil, fmt.Errorf("failed to look up parent account: %w", err)
		}
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("%w: child type %s does not match parent type %s", apperrors.ErrValidation, req.AccountType, parent.AccountType)
		}
		// New accounts cannot introduce a cycle: the parent chain is verified
		// acyclic at every write, so walking it either terminates or trips the
		// visited check on pre-existing corruption.
		if err := s.checkParentChain(ctx, tenantID, req.ParentCode); err != nil {
			return nil, err
		}
	}

	cashFlowTag := req.CashFlowTag
	if cashFlowTag == "" {
		cashFlowTag = domain.CashFlowNone
	}

	now := time.Now().UTC()
	account := domain.Account{
		TenantID:     tenantID,
		Code:         req.Code,
		Name:         req.Name,
		AccountType:  req.AccountType,
		CurrencyCode: req.CurrencyCode,
		ParentCode:   req.ParentCode,
		CashFlowTag:  cashFlowTag,
		IsCash:       req.IsCash,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		s.LogError(ctx, err, "Failed to save account", "tenant_id", tenantID, "code", req.Code)
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", "tenant_id", tenantID, "code", account.Code)
	return &account, nil
}

func (s *accountService) checkParentChain(ctx context.Context, tenantID, startCode string) error {
	visited := map[string]bool{}
	code := startCode
	for code != "" {
		if visited[code] {
			return fmt.Errorf("%w: detected at %s", ErrParentCycle, code)
		}
		visited[code] = true
		acc, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrParentNotFound, code)
			}
			return fmt.Errorf("failed to walk parent chain: %w", err)
		}
		code = acc.ParentCode
	}
	return nil
}

// GetAccountByCode retrieves an account by its stable code.
func (s *accountService) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", "tenant_id", tenantID, "code", code)
		}
		return nil, err
	}
	return account, nil
}

// GetAccountsByCodes retrieves multiple accounts keyed by code.
func (s *accountService) GetAccountsByCodes(ctx context.Context, tenantID string, codes []string) (map[string]domain.Account, error) {
	return s.accountRepo.FindAccountsByCodes(ctx, tenantID, codes)
}

// ListAccountsByType lists the tenant's accounts, optionally filtered by type.
func (s *accountService) ListAccountsByType(ctx context.Context, tenantID string, accountType *domain.AccountType) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, tenantID, accountType)
}

// ParentChain walks the hierarchy from the account up to its root.
func (s *accountService) ParentChain(ctx context.Context, tenantID, code string) ([]domain.Account, error) {
	var chain []domain.Account
	visited := map[string]bool{}
	for code != "" {
		if visited[code] {
			return nil, fmt.Errorf("%w: detected at %s", ErrParentCycle, code)
		}
		visited[code] = true
		acc, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
		if err != nil {
			return nil, err
		}
		chain = append(chain, *acc)
		code = acc.ParentCode
	}
	return chain, nil
}

// DeactivateAccount flips the active flag. Accounts referenced by journal lines
// are never deleted; deactivate-and-keep always succeeds.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, code string, actor string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return nil // Already deactivated; idempotent
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actor

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", "tenant_id", tenantID, "code", code)
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.LogInfo(ctx, "Account deactivated", "tenant_id", tenantID, "code", code)
	return nil
}

// bootstrapSpec describes one seeded account role.
type bootstrapSpec struct {
	prefix      string
	name        string
	accountType domain.AccountType
	cashFlowTag domain.CashFlowTag
	isCash      bool
	perCurrency bool
}

var defaultChart = []bootstrapSpec{
	{domain.AcctCash, "Cash", domain.Asset, domain.CashFlowOperating, true, true},
	{domain.AcctBank, "Bank", domain.Asset, domain.CashFlowOperating, true, true},
	{domain.AcctCustomerPayable, "Customer payable", domain.Liability, domain.CashFlowNone, false, true},
	{domain.AcctFXPosition, "FX position", domain.Asset, domain.CashFlowNone, false, true},
	{domain.AcctFXRevenue, "FX margin revenue", domain.Revenue, domain.CashFlowNone, false, true},
	{domain.AcctFXExpense, "FX spread expense", domain.Expense, domain.CashFlowNone, false, true},
	{domain.AcctRemittanceTransit, "Remittance in transit", domain.Asset, domain.CashFlowNone, false, true},
	{domain.AcctPartnerPayable, "Partner payable", domain.Liability, domain.CashFlowNone, false, true},
	{domain.AcctChecksOutstanding, "Checks outstanding", domain.Liability, domain.CashFlowNone, false, true},
	{domain.AcctFeeReceivable, "Fee receivable", domain.Asset, domain.CashFlowNone, false, true},
	{domain.AcctCommissionRevenue, "Commission revenue", domain.Revenue, domain.CashFlowNone, false, true},
	{domain.AcctRounding, "Rounding residual", domain.Expense, domain.CashFlowNone, false, true},
}

// BootstrapChart seeds the tenant's default chart for the given currencies.
// Existing codes are left untouched so bootstrap is safe to repeat.
func (s *accountService) BootstrapChart(ctx context.Context, tenantID string, currencies []string, actor string) ([]domain.Account, error) {
	now := time.Now().UTC()
	var created []domain.Account
	for _, spec := range defaultChart {
		for _, ccy := range currencies {
			code := domain.RoleAccountCode(spec.prefix, ccy)
			if existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code); err == nil && existing != nil {
				continue
			} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("failed to check bootstrap account %s: %w", code, err)
			}
			created = append(created, domain.Account{
				TenantID:     tenantID,
				Code:         code,
				Name:         spec.name + " " + ccy,
				AccountType:  spec.accountType,
				CurrencyCode: ccy,
				CashFlowTag:  spec.cashFlowTag,
				IsCash:       spec.isCash,
				IsActive:     true,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actor,
					LastUpdatedAt: now,
					LastUpdatedBy: actor,
				},
			})
		}
	}
	if len(created) == 0 {
		return nil, nil
	}
	if err := s.accountRepo.SaveAccounts(ctx, created); err != nil {
		s.LogError(ctx, err, "Failed to bootstrap chart", "tenant_id", tenantID)
		return nil, fmt.Errorf("failed to bootstrap chart: %w", err)
	}
	s.LogInfo(ctx, "Chart bootstrapped", "tenant_id", tenantID, "accounts", len(created))
	return created, nil
}
