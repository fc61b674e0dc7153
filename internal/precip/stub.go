package precip

import (
	"context"

	"github.com/bbernstein/precipexport/internal/models"
	"github.com/rs/zerolog/log"
)

// StubSource stands in for the geospatial backend. It returns the same two
// days for every query.
type StubSource struct{}

var _ Source = (*StubSource)(nil)

func NewStubSource() *StubSource {
	return &StubSource{}
}

func (s *StubSource) DailySeries(ctx context.Context, q Query) ([]models.DailyPrecipitation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", q.Model.String()).
		Str("scenario", q.Scenario.String()).
		Int("start_year", q.StartYear).
		Int("end_year", q.EndYear).
		Msg("Returning stub precipitation series")

	return []models.DailyPrecipitation{
		{Date: "2023-01-01", Precipitation: 10},
		{Date: "2023-01-02", Precipitation: 12},
	}, nil
}
