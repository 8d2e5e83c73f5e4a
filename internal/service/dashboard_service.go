package service

import (
	"github.com/shopspring/decimal"

	"github.com/sgemaster/sge-backend/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summary summarizes the current snapshot.
func (s *ContractService) Summary(principal model.Principal) (model.DashboardSummary, error) {
	if !principal.CanRead() {
		return model.DashboardSummary{}, ErrPermissionDenied
	}
	return Summarize(s.state.Snapshot()), nil
}

// Summarize computes the dashboard cards from a contract snapshot.
func Summarize(contracts []model.Contract) model.DashboardSummary {
	summary := model.DashboardSummary{
		TotalContracts:    len(contracts),
		ArrearsAmount:     decimal.Zero,
		MonthlyBilling:    decimal.Zero,
		CollectionRatePct: decimal.Zero,
	}

	paid := 0
	for _, c := range contracts {
		price := decimal.NewFromFloat(c.Price)
		if c.ServiceStatus == model.ServiceStatusActive {
			summary.ActiveContracts++
			summary.MonthlyBilling = summary.MonthlyBilling.Add(price)
		}
		switch c.PaymentStatus {
		case model.PaymentStatusDelinquent:
			summary.DelinquentCount++
			summary.ArrearsAmount = summary.ArrearsAmount.Add(price)
		case model.PaymentStatusPaid:
			paid++
		}
	}

	if len(contracts) > 0 {
		summary.CollectionRatePct = decimal.NewFromInt(int64(paid)).
			Mul(hundred).
			Div(decimal.NewFromInt(int64(len(contracts)))).
			Round(1)
	}
	return summary
}
