package precip

import (
	"fmt"
	"time"

	"github.com/bbernstein/precipexport/internal/models"
)

// MonthlyTotals sums daily values per calendar month. Months appear in the
// order they are first seen.
func MonthlyTotals(daily []models.DailyPrecipitation) ([]models.MonthlyPrecipitation, error) {
	index := make(map[string]int)
	var months []models.MonthlyPrecipitation

	for i, d := range daily {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing date at row %d: %w", i, err)
		}
		month := date.Format("2006-01")

		idx, ok := index[month]
		if !ok {
			idx = len(months)
			index[month] = idx
			months = append(months, models.MonthlyPrecipitation{Month: month})
		}
		months[idx].TotalPrecipitation += d.Precipitation
	}

	return months, nil
}
