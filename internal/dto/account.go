package dto

import (
	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a ledger account.
type CreateAccountRequest struct {
	Code         string             `json:"code" binding:"required,max=64"`
	Name         string             `json:"name" binding:"required,max=255"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode string             `json:"currencyCode" binding:"required,min=3,max=10"`
	ParentCode   string             `json:"parentCode"`
	CashFlowTag  domain.CashFlowTag `json:"cashFlowTag" binding:"omitempty,oneof=OPERATING INVESTING FINANCING NONE"`
	IsCash       bool               `json:"isCash"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	TenantID     string             `json:"tenantID"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	CurrencyCode string             `json:"currencyCode"`
	ParentCode   string             `json:"parentCode,omitempty"`
	CashFlowTag  domain.CashFlowTag `json:"cashFlowTag"`
	IsCash       bool               `json:"isCash"`
	IsActive     bool               `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		TenantID:     a.TenantID,
		Code:         a.Code,
		Name:         a.Name,
		AccountType:  a.AccountType,
		CurrencyCode: a.CurrencyCode,
		ParentCode:   a.ParentCode,
		CashFlowTag:  a.CashFlowTag,
		IsCash:       a.IsCash,
		IsActive:     a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// BootstrapChartRequest lists the currencies to seed the default chart for.
type BootstrapChartRequest struct {
	Currencies []string `json:"currencies" binding:"required,min=1,dive,min=3,max=10"`
}
