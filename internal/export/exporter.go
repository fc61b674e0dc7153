package export

import (
	"context"
	"fmt"

	"github.com/bbernstein/precipexport/internal/models"
	"github.com/bbernstein/precipexport/internal/precip"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Archiver copies a written file somewhere else and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, localPath string) (string, error)
}

type Exporter struct {
	source   precip.Source
	archiver Archiver
}

type Option func(*Exporter)

func WithArchiver(a Archiver) Option {
	return func(e *Exporter) {
		e.archiver = a
	}
}

func NewExporter(source precip.Source, opts ...Option) *Exporter {
	e := &Exporter{source: source}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes what one export produced. Failed writes and archive
// uploads are collected here rather than returned from Export.
type Result struct {
	RunID    string
	Written  []string
	Archived []string
	errs     *multierror.Error
}

func (r *Result) addError(err error) {
	r.errs = multierror.Append(r.errs, err)
}

// Err is nil when every file was written and archived.
func (r *Result) Err() error {
	return r.errs.ErrorOrNil()
}

type table struct {
	kind   string
	title  string
	dir    string
	path   string
	header []string
	rows   [][]string
}

// Export writes the daily and monthly tables for req. Each table is written
// independently and a failure is reported through reporter without stopping
// the other. The returned error covers only failures that prevent any
// output: an invalid request or a source error.
func (e *Exporter) Export(ctx context.Context, req models.ExportRequest, reporter Reporter) (*Result, error) {
	if reporter == nil {
		reporter = NopReporter
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := log.With().
		Str("run_id", result.RunID).
		Str("station", req.Station).
		Str("model", req.Model.String()).
		Str("scenario", req.Scenario.String()).
		Int("start_year", req.StartYear).
		Int("end_year", req.EndYear).
		Logger()

	reporter.Record(fmt.Sprintf("Processing data for model: %s, years: %d-%d", req.Model, req.StartYear, req.EndYear))
	reporter.Record(fmt.Sprintf("Saving daily data to: %s", req.DailyDir))
	reporter.Record(fmt.Sprintf("Saving monthly data to: %s", req.MonthlyDir))
	logger.Info().Str("location", req.Location.String()).Msg("Starting export")

	daily, err := e.source.DailySeries(ctx, precip.QueryFor(req))
	if err != nil {
		return nil, fmt.Errorf("fetching precipitation series: %w", err)
	}
	monthly, err := precip.MonthlyTotals(daily)
	if err != nil {
		return nil, fmt.Errorf("aggregating monthly totals: %w", err)
	}

	dailyRows := make([][]string, len(daily))
	for i, d := range daily {
		dailyRows[i] = d.Record()
	}
	monthlyRows := make([][]string, len(monthly))
	for i, m := range monthly {
		monthlyRows[i] = m.Record()
	}

	tables := []table{
		{kind: "daily", title: "Daily", dir: req.DailyDir, path: req.DailyPath(), header: models.DailyHeader, rows: dailyRows},
		{kind: "monthly", title: "Monthly", dir: req.MonthlyDir, path: req.MonthlyPath(), header: models.MonthlyHeader, rows: monthlyRows},
	}
	for _, t := range tables {
		e.writeTable(ctx, logger, reporter, result, t)
	}

	logger.Info().
		Int("written", len(result.Written)).
		Int("archived", len(result.Archived)).
		Bool("complete", result.Err() == nil).
		Msg("Export finished")

	return result, nil
}

func (e *Exporter) writeTable(ctx context.Context, logger zerolog.Logger, reporter Reporter, result *Result, t table) {
	if err := writeCSV(t.dir, t.path, t.header, t.rows); err != nil {
		reporter.Record(fmt.Sprintf("Error saving %s data: %v", t.kind, err))
		logger.Error().Err(err).Str("path", t.path).Msgf("Failed to save %s data", t.kind)
		result.addError(fmt.Errorf("saving %s data: %w", t.kind, err))
		return
	}
	result.Written = append(result.Written, t.path)
	reporter.Record(fmt.Sprintf("%s data saved to %s", t.title, t.path))
	logger.Debug().Str("path", t.path).Int("rows", len(t.rows)).Msgf("Saved %s data", t.kind)

	if e.archiver == nil {
		return
	}
	location, err := e.archiver.Archive(ctx, t.path)
	if err != nil {
		reporter.Record(fmt.Sprintf("Error archiving %s data: %v", t.kind, err))
		logger.Error().Err(err).Str("path", t.path).Msgf("Failed to archive %s data", t.kind)
		result.addError(fmt.Errorf("archiving %s data: %w", t.kind, err))
		return
	}
	result.Archived = append(result.Archived, location)
	reporter.Record(fmt.Sprintf("Archived %s data to %s", t.kind, location))
}
