package dto

import (
	"time"

	"github.com/sarrafly/exchange_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceResponse is the wire shape of a trial balance report.
type TrialBalanceResponse struct {
	AsOf       time.Time                    `json:"asOf"`
	Rows       []domain.TrialBalanceRow     `json:"rows"`
	Totals     map[string]TrialBalanceTotal `json:"totals"`
	IsBalanced bool                         `json:"isBalanced"`
}

// TrialBalanceTotal is the per-currency column total.
type TrialBalanceTotal struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// ToTrialBalanceResponse converts the domain report to its response DTO.
func ToTrialBalanceResponse(r *domain.TrialBalanceReport) TrialBalanceResponse {
	resp := TrialBalanceResponse{
		AsOf:       r.AsOf,
		Rows:       r.Rows,
		Totals:     make(map[string]TrialBalanceTotal, len(r.Totals)),
		IsBalanced: r.IsBalanced,
	}
	for ccy, t := range r.Totals {
		resp.Totals[ccy] = TrialBalanceTotal{Debit: t.Debit, Credit: t.Credit}
	}
	return resp
}
