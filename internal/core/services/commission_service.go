package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	portsrepo "github.com/sarrafly/exchange_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sarrafly/exchange_backoffice/internal/core/ports/services"
	"github.com/sarrafly/exchange_backoffice/internal/dto"
	"github.com/sarrafly/exchange_backoffice/internal/utils/money"
)

var oneHundred = decimal.NewFromInt(100)

// commissionService evaluates per-tenant commission policy.
type commissionService struct {
	BaseService
	commissionRepo portsrepo.CommissionRepositoryFacade
	currencySvc    portssvc.CurrencySvcFacade
}

// NewCommissionService creates a new CommissionService.
func NewCommissionService(commissionRepo portsrepo.CommissionRepositoryFacade, currencySvc portssvc.CurrencySvcFacade) portssvc.CommissionSvcFacade {
	return &commissionService{commissionRepo: commissionRepo, currencySvc: currencySvc}
}

var _ portssvc.CommissionSvcFacade = (*commissionService)(nil)

// Calculate selects the first matching rule by explicit priority and returns
// the rounded, clamped commission: round(gross * pct / 100) clamped to
// [floor, cap]. No matching rule yields ErrMissingPolicy.
func (s *commissionService) Calculate(ctx context.Context, tenantID string, kind domain.EventKind, gross decimal.Decimal, currencyCode, customerTier string) (*domain.CommissionResult, error) {
	if !gross.IsPositive() {
		return nil, fmt.Errorf("%w: gross amount must be positive", apperrors.ErrValidation)
	}

	rules, err := s.commissionRepo.FindRules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load commission rules: %w", err)
	}

	var matched []domain.CommissionRule
	for _, r := range rules {
		if r.Matches(kind, currencyCode, customerTier) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, fmt.Errorf("%w: no commission rule for %s/%s tier %q", apperrors.ErrMissingPolicy, kind, currencyCode, customerTier)
	}

	// Lowest priority wins; rule ID breaks ties so selection is deterministic.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		return matched[i].RuleID < matched[j].RuleID
	})
	rule := matched[0]

	if rule.Waived {
		return &domain.CommissionResult{
			CurrencyCode: currencyCode,
			RuleID:       rule.RuleID,
			Waived:       true,
		}, nil
	}

	precision, err := s.currencySvc.Precision(ctx, currencyCode)
	if err != nil {
		return nil, err
	}

	amount := money.Round(gross.Mul(rule.Percent).Div(oneHundred), precision)
	if amount.LessThan(rule.Floor) {
		amount = rule.Floor
	}
	if rule.Cap.IsPositive() && amount.GreaterThan(rule.Cap) {
		amount = rule.Cap
	}

	return &domain.CommissionResult{
		Amount:             amount,
		CurrencyCode:       currencyCode,
		RevenueAccountCode: rule.RevenueAccountCode,
		ExpenseAccountCode: rule.ExpenseAccountCode,
		RuleID:             rule.RuleID,
	}, nil
}

// UpsertRule creates or replaces a policy rule.
func (s *commissionService) UpsertRule(ctx context.Context, tenantID string, req dto.UpsertCommissionRuleRequest, actor string) (*domain.CommissionRule, error) {
	if req.Percent.IsNegative() {
		return nil, fmt.Errorf("%w: percent must not be negative", apperrors.ErrValidation)
	}
	if req.Floor.IsNegative() || req.Cap.IsNegative() {
		return nil, fmt.Errorf("%w: floor and cap must not be negative", apperrors.ErrValidation)
	}
	if req.Cap.IsPositive() && req.Cap.LessThan(req.Floor) {
		return nil, fmt.Errorf("%w: cap must not be below floor", apperrors.ErrValidation)
	}

	ruleID := req.RuleID
	if ruleID == "" {
		ruleID = uuid.NewString()
	}

	now := time.Now().UTC()
	rule := domain.CommissionRule{
		RuleID:             ruleID,
		TenantID:           tenantID,
		EventKind:          req.EventKind,
		CurrencyCode:       req.CurrencyCode,
		CustomerTier:       req.CustomerTier,
		Percent:            req.Percent,
		Floor:              req.Floor,
		Cap:                req.Cap,
		Priority:           req.Priority,
		Waived:             req.Waived,
		RevenueAccountCode: req.RevenueAccountCode,
		ExpenseAccountCode: req.ExpenseAccountCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}

	if err := s.commissionRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save commission rule", "tenant_id", tenantID, "rule_id", ruleID)
		return nil, fmt.Errorf("failed to save commission rule: %w", err)
	}

	s.LogInfo(ctx, "Commission rule upserted", "tenant_id", tenantID, "rule_id", ruleID, "kind", rule.EventKind)
	return &rule, nil
}

// ListRules retrieves all rules for a tenant.
func (s *commissionService) ListRules(ctx context.Context, tenantID string) ([]domain.CommissionRule, error) {
	return s.commissionRepo.FindRules(ctx, tenantID)
}

// DeleteRule removes a policy rule.
func (s *commissionService) DeleteRule(ctx context.Context, tenantID, ruleID string, actor string) error {
	if err := s.commissionRepo.DeleteRule(ctx, tenantID, ruleID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete commission rule", "tenant_id", tenantID, "rule_id", ruleID)
		}
		return err
	}
	s.LogInfo(ctx, "Commission rule deleted", "tenant_id", tenantID, "rule_id", ruleID)
	return nil
}
