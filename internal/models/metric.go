package models

// MetricQuote is one day's settled value for a tracked market metric
// (benchmark index, FX rate, commodity, sector proxy).
type MetricQuote struct {
	Value         float64 `json:"value"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	IsUp          bool    `json:"is_up"`
}

// MetricTrend is the start/end delta for a metric across the current
// accumulation window. Start and end come from the first and last dates
// that actually reported a value, so gaps (holidays, outages) are tolerated.
type MetricTrend struct {
	Start         float64 `json:"start"`
	End           float64 `json:"end"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
}
