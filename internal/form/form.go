// Package form collects export parameters, validates them and runs the
// export. It depends on the UI only through the Dialog and FolderChooser
// interfaces and the log pane Reporter.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/bbernstein/precipexport/internal/export"
	"github.com/bbernstein/precipexport/internal/models"
	"github.com/rs/zerolog/log"
)

const processingErrorTitle = "Processing Error"

// Dialog shows modal error messages.
type Dialog interface {
	ShowError(title, message string)
}

// FolderChooser asks the user for a directory. ok is false when the user cancels.
type FolderChooser interface {
	ChooseDirectory(ctx context.Context, prompt string) (dir string, ok bool)
}

type Exporter interface {
	Export(ctx context.Context, req models.ExportRequest, reporter export.Reporter) (*export.Result, error)
}

// Form holds the raw field values as typed by the user.
type Form struct {
	Station   string
	Latitude  string
	Longitude string
	Model     string
	Scenario  string
	StartYear string
	EndYear   string

	dailyDir   string
	monthlyDir string

	exporter Exporter
	dialog   Dialog
	chooser  FolderChooser
	pane     export.Reporter
}

func New(exporter Exporter, dialog Dialog, chooser FolderChooser, pane export.Reporter) *Form {
	if pane == nil {
		pane = export.NopReporter
	}
	return &Form{
		exporter: exporter,
		dialog:   dialog,
		chooser:  chooser,
		pane:     pane,
	}
}

func (f *Form) DailyFolder() string {
	return f.dailyDir
}

func (f *Form) MonthlyFolder() string {
	return f.monthlyDir
}

// SelectDailyFolder asks the chooser for the daily output folder. A cancelled
// choice keeps the previous folder.
func (f *Form) SelectDailyFolder(ctx context.Context) bool {
	dir, ok := f.chooser.ChooseDirectory(ctx, "Choose Output Folder for Daily Data")
	if !ok || dir == "" {
		return false
	}
	f.SetDailyFolder(dir)
	return true
}

func (f *Form) SelectMonthlyFolder(ctx context.Context) bool {
	dir, ok := f.chooser.ChooseDirectory(ctx, "Choose Output Folder for Monthly Data")
	if !ok || dir == "" {
		return false
	}
	f.SetMonthlyFolder(dir)
	return true
}

func (f *Form) SetDailyFolder(dir string) {
	f.dailyDir = dir
	f.pane.Record(fmt.Sprintf("Daily data will be saved to: %s", dir))
}

func (f *Form) SetMonthlyFolder(dir string) {
	f.monthlyDir = dir
	f.pane.Record(fmt.Sprintf("Monthly data will be saved to: %s", dir))
}

func (f *Form) Fields() models.RequestFields {
	return models.RequestFields{
		Station:    f.Station,
		Latitude:   f.Latitude,
		Longitude:  f.Longitude,
		Model:      f.Model,
		Scenario:   f.Scenario,
		StartYear:  f.StartYear,
		EndYear:    f.EndYear,
		DailyDir:   f.dailyDir,
		MonthlyDir: f.monthlyDir,
	}
}

// Submit validates the form and runs the export. Every failure is shown
// through the dialog and also returned. The form stays usable afterwards.
func (f *Form) Submit(ctx context.Context) (*export.Result, error) {
	req, err := models.NewExportRequest(f.Fields())
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			log.Debug().Str("kind", validationErr.Kind.String()).Strs("fields", validationErr.Fields).Msg("Form validation failed")
			f.dialog.ShowError(validationErr.Kind.Title(), validationErr.Kind.Message())
			return nil, err
		}
		f.showProcessingError(err)
		return nil, err
	}

	result, err := f.runExport(ctx, req)
	if err != nil {
		f.showProcessingError(err)
		return nil, err
	}

	f.pane.Record("Data processing completed successfully.")
	return result, nil
}

func (f *Form) runExport(ctx context.Context, req models.ExportRequest) (result *export.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Panic recovered in export")
			result = nil
			err = fmt.Errorf("%v", r)
		}
	}()
	return f.exporter.Export(ctx, req, f.pane)
}

func (f *Form) showProcessingError(err error) {
	log.Error().Err(err).Msg("Export failed")
	f.pane.Record(fmt.Sprintf("An error occurred during data processing: %v", err))
	f.dialog.ShowError(processingErrorTitle, fmt.Sprintf("An error occurred: %v", err))
}
