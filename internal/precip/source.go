package precip

import (
	"context"
	"fmt"

	"github.com/bbernstein/precipexport/internal/models"
)

// Query identifies one precipitation series.
type Query struct {
	Location  models.Location
	Model     models.ClimateModel
	Scenario  models.Scenario
	StartYear int
	EndYear   int
}

func QueryFor(req models.ExportRequest) Query {
	return Query{
		Location:  req.Location,
		Model:     req.Model,
		Scenario:  req.Scenario,
		StartYear: req.StartYear,
		EndYear:   req.EndYear,
	}
}

// Key is stable for equal queries.
func (q Query) Key() string {
	return fmt.Sprintf("%s:%s:%d:%d:%.6f:%.6f",
		q.Model, q.Scenario, q.StartYear, q.EndYear, q.Location.Latitude, q.Location.Longitude)
}

// Source resolves a location, model, scenario and year range to a daily series.
type Source interface {
	DailySeries(ctx context.Context, q Query) ([]models.DailyPrecipitation, error)
}
