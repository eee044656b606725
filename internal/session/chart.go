package session

import "github.com/hemalatha2205/CFO-Helper/internal/forecast"

// ChartMonths is the number of monthly points projected per metric.
const ChartMonths = 6

// MonthLabels are the x-axis labels for the projected months.
var MonthLabels = [ChartMonths]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// Dataset is one named metric series.
type Dataset struct {
	Label  string
	Values [ChartMonths]float64
}

// ChartSeries is a read-only projection of a Forecast: revenue and expenses
// repeated for each month.
type ChartSeries struct {
	Labels   [ChartMonths]string
	Datasets [2]Dataset
}

// NewChartSeries projects f into a constant six-month series.
func NewChartSeries(f forecast.Forecast) ChartSeries {
	cs := ChartSeries{
		Labels: MonthLabels,
		Datasets: [2]Dataset{
			{Label: "Revenue (₹)"},
			{Label: "Expenses (₹)"},
		},
	}
	for i := 0; i < ChartMonths; i++ {
		cs.Datasets[0].Values[i] = f.Revenue
		cs.Datasets[1].Values[i] = f.Expenses
	}
	return cs
}
