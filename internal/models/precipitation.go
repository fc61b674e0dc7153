package models

import "strconv"

var (
	DailyHeader   = []string{"Date", "Precipitation"}
	MonthlyHeader = []string{"Month", "Total_Precipitation"}
)

// DailyPrecipitation is one day of the series
type DailyPrecipitation struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Precipitation float64 `json:"precipitation"`
}

func (d DailyPrecipitation) Record() []string {
	return []string{d.Date, formatAmount(d.Precipitation)}
}

// MonthlyPrecipitation is the total for one calendar month.
type MonthlyPrecipitation struct {
	Month              string  `json:"month"` // YYYY-MM
	TotalPrecipitation float64 `json:"totalPrecipitation"`
}

func (m MonthlyPrecipitation) Record() []string {
	return []string{m.Month, formatAmount(m.TotalPrecipitation)}
}

// formatAmount writes whole amounts without a fractional part ("10", not "10.0").
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
