package backend

import (
	"math"

	"github.com/hemalatha2205/CFO-Helper/internal/forecast"
)

// Model holds the baseline business figures the placeholder projection
// starts from. It is not a real forecasting engine.
type Model struct {
	BaseRevenue     float64
	BaseExpenses    float64
	CostPerHire     float64
	CashOnHand      float64
	MaxRunwayMonths float64
}

// DefaultModel returns the baseline used when none is configured.
func DefaultModel() Model {
	return Model{
		BaseRevenue:     500_000,
		BaseExpenses:    300_000,
		CostPerHire:     60_000,
		CashOnHand:      2_400_000,
		MaxRunwayMonths: 60,
	}
}

// Project computes a monthly forecast for the scenario.
//
// Runway is cash on hand divided by the monthly burn, rounded to one decimal
// and capped at MaxRunwayMonths. A business that is not burning cash gets the
// cap.
func (m Model) Project(req forecast.SimulateRequest) forecast.Forecast {
	revenue := m.BaseRevenue * (1 + req.PriceDelta/100)
	expenses := m.BaseExpenses + float64(req.Hires)*m.CostPerHire + req.ExtraSpend
	profit := revenue - expenses

	runway := m.MaxRunwayMonths
	if burn := expenses - revenue; burn > 0 {
		runway = math.Min(math.Round(m.CashOnHand/burn*10)/10, m.MaxRunwayMonths)
	}

	return forecast.Forecast{
		Revenue:      revenue,
		Expenses:     expenses,
		Profit:       profit,
		RunwayMonths: runway,
	}
}
