package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bbernstein/precipexport/internal/models"
	"github.com/bbernstein/precipexport/internal/precip"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wantDailyCSV   = "Date,Precipitation\n2023-01-01,10\n2023-01-02,12\n"
	wantMonthlyCSV = "Month,Total_Precipitation\n2023-01,22\n"
)

type recorder struct {
	messages []string
}

func (r *recorder) Record(message string) {
	r.messages = append(r.messages, message)
}

func (r *recorder) contains(prefix string) bool {
	for _, m := range r.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

type mockSource struct {
	dailySeriesFunc func(ctx context.Context, q precip.Query) ([]models.DailyPrecipitation, error)
}

func (m *mockSource) DailySeries(ctx context.Context, q precip.Query) ([]models.DailyPrecipitation, error) {
	return m.dailySeriesFunc(ctx, q)
}

type mockArchiver struct {
	archiveFunc func(ctx context.Context, localPath string) (string, error)
	paths       []string
}

func (m *mockArchiver) Archive(ctx context.Context, localPath string) (string, error) {
	m.paths = append(m.paths, localPath)
	return m.archiveFunc(ctx, localPath)
}

func testRequest(t *testing.T) models.ExportRequest {
	t.Helper()
	root := t.TempDir()
	return models.ExportRequest{
		Station:    "Seattle",
		Location:   models.Location{Latitude: 47.6062, Longitude: -122.3321},
		Model:      models.ModelCESM2,
		Scenario:   models.ScenarioSSP245,
		StartYear:  2023,
		EndYear:    2023,
		DailyDir:   filepath.Join(root, "daily"),
		MonthlyDir: filepath.Join(root, "monthly"),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestExportWritesBothTables(t *testing.T) {
	req := testRequest(t)
	rec := &recorder{}

	result, err := NewExporter(precip.NewStubSource()).Export(context.Background(), req, rec)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	dailyPath := filepath.Join(req.DailyDir, "CESM2_2023_2023_daily.csv")
	monthlyPath := filepath.Join(req.MonthlyDir, "CESM2_2023_2023_monthly.csv")

	assert.Equal(t, wantDailyCSV, readFile(t, dailyPath))
	assert.Equal(t, wantMonthlyCSV, readFile(t, monthlyPath))
	assert.Equal(t, []string{dailyPath, monthlyPath}, result.Written)
	assert.NotEmpty(t, result.RunID)

	assert.Equal(t, []string{
		"Processing data for model: CESM2, years: 2023-2023",
		"Saving daily data to: " + req.DailyDir,
		"Saving monthly data to: " + req.MonthlyDir,
		"Daily data saved to " + dailyPath,
		"Monthly data saved to " + monthlyPath,
	}, rec.messages)
}

func TestExportCreatesNestedAndExistingDirectories(t *testing.T) {
	req := testRequest(t)
	req.DailyDir = filepath.Join(req.DailyDir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(req.MonthlyDir, 0o755))

	result, err := NewExporter(precip.NewStubSource()).Export(context.Background(), req, nil)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	assert.FileExists(t, req.DailyPath())
	assert.FileExists(t, req.MonthlyPath())
}

func TestExportSameDirectoryForBothTables(t *testing.T) {
	req := testRequest(t)
	req.MonthlyDir = req.DailyDir

	result, err := NewExporter(precip.NewStubSource()).Export(context.Background(), req, nil)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	entries, err := os.ReadDir(req.DailyDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExportOverwritesExistingFiles(t *testing.T) {
	req := testRequest(t)
	require.NoError(t, os.MkdirAll(req.DailyDir, 0o755))
	require.NoError(t, os.WriteFile(req.DailyPath(), []byte(strings.Repeat("stale,row\n", 50)), 0o644))

	exporter := NewExporter(precip.NewStubSource())
	for i := 0; i < 2; i++ {
		result, err := exporter.Export(context.Background(), req, nil)
		require.NoError(t, err)
		require.NoError(t, result.Err())
	}

	assert.Equal(t, wantDailyCSV, readFile(t, req.DailyPath()))
	assert.Equal(t, wantMonthlyCSV, readFile(t, req.MonthlyPath()))
}

func TestExportDailyFailureStillWritesMonthly(t *testing.T) {
	req := testRequest(t)
	// a regular file where the daily directory should be makes it unwritable
	blocker := filepath.Join(filepath.Dir(req.DailyDir), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	req.DailyDir = filepath.Join(blocker, "daily")
	rec := &recorder{}

	result, err := NewExporter(precip.NewStubSource()).Export(context.Background(), req, rec)
	require.NoError(t, err)

	assert.Error(t, result.Err())
	assert.Contains(t, result.Err().Error(), "saving daily data")
	assert.Equal(t, []string{req.MonthlyPath()}, result.Written)
	assert.Equal(t, wantMonthlyCSV, readFile(t, req.MonthlyPath()))
	assert.NoFileExists(t, req.DailyPath())

	assert.True(t, rec.contains("Error saving daily data: "))
	assert.True(t, rec.contains("Monthly data saved to "))
	assert.False(t, rec.contains("Daily data saved to "))
}

func TestExportMonthlyFailureStillWritesDaily(t *testing.T) {
	req := testRequest(t)
	require.NoError(t, os.MkdirAll(req.MonthlyDir, 0o755))
	// a directory in place of the monthly file cannot be opened for writing
	require.NoError(t, os.MkdirAll(req.MonthlyPath(), 0o755))
	rec := &recorder{}

	result, err := NewExporter(precip.NewStubSource()).Export(context.Background(), req, rec)
	require.NoError(t, err)

	assert.Error(t, result.Err())
	assert.Equal(t, wantDailyCSV, readFile(t, req.DailyPath()))
	assert.True(t, rec.contains("Daily data saved to "))
	assert.True(t, rec.contains("Error saving monthly data: "))
}

func TestExportSourceError(t *testing.T) {
	req := testRequest(t)
	source := &mockSource{
		dailySeriesFunc: func(ctx context.Context, q precip.Query) ([]models.DailyPrecipitation, error) {
			return nil, errors.New("backend unavailable")
		},
	}

	result, err := NewExporter(source).Export(context.Background(), req, nil)

	assert.Nil(t, result)
	assert.EqualError(t, err, "fetching precipitation series: backend unavailable")
	assert.NoDirExists(t, req.DailyDir)
	assert.NoDirExists(t, req.MonthlyDir)
}

func TestExportMalformedSeries(t *testing.T) {
	req := testRequest(t)
	source := &mockSource{
		dailySeriesFunc: func(ctx context.Context, q precip.Query) ([]models.DailyPrecipitation, error) {
			return []models.DailyPrecipitation{{Date: "yesterday", Precipitation: 1}}, nil
		},
	}

	_, err := NewExporter(source).Export(context.Background(), req, nil)
	assert.ErrorContains(t, err, "aggregating monthly totals")
}

func TestExportPassesQueryToSource(t *testing.T) {
	req := testRequest(t)
	req.Model = models.ModelMIROC6
	req.Scenario = models.ScenarioSSP585
	req.StartYear = 2030
	req.EndYear = 2060

	var got precip.Query
	source := &mockSource{
		dailySeriesFunc: func(ctx context.Context, q precip.Query) ([]models.DailyPrecipitation, error) {
			got = q
			return precip.NewStubSource().DailySeries(ctx, q)
		},
	}

	result, err := NewExporter(source).Export(context.Background(), req, nil)
	require.NoError(t, err)
	require.NoError(t, result.Err())

	assert.Equal(t, precip.QueryFor(req), got)
	assert.FileExists(t, filepath.Join(req.DailyDir, "MIROC6_2030_2060_daily.csv"))
	assert.FileExists(t, filepath.Join(req.MonthlyDir, "MIROC6_2030_2060_monthly.csv"))
}

func TestExportRejectsInvalidRequest(t *testing.T) {
	req := testRequest(t)
	req.MonthlyDir = ""
	rec := &recorder{}

	_, err := NewExporter(precip.NewStubSource()).Export(context.Background(), req, rec)

	var validationErr *models.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, models.KindFolders, validationErr.Kind)
	assert.Empty(t, rec.messages)
	assert.NoDirExists(t, req.DailyDir)
}

func TestExportArchive(t *testing.T) {
	tests := []struct {
		name         string
		archiveErr   error
		wantArchived int
		wantMessage  string
	}{
		{
			name:         "archives both files",
			wantArchived: 2,
			wantMessage:  "Archived daily data to s3://exports/",
		},
		{
			name:         "archive failure is reported only",
			archiveErr:   errors.New("access denied"),
			wantArchived: 0,
			wantMessage:  "Error archiving monthly data: access denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testRequest(t)
			rec := &recorder{}
			archiver := &mockArchiver{
				archiveFunc: func(ctx context.Context, localPath string) (string, error) {
					if tt.archiveErr != nil {
						return "", tt.archiveErr
					}
					return "s3://exports/" + filepath.Base(localPath), nil
				},
			}

			result, err := NewExporter(precip.NewStubSource(), WithArchiver(archiver)).Export(context.Background(), req, rec)
			require.NoError(t, err)

			assert.Equal(t, []string{req.DailyPath(), req.MonthlyPath()}, archiver.paths)
			assert.Len(t, result.Archived, tt.wantArchived)
			assert.True(t, rec.contains(tt.wantMessage), "messages: %v", rec.messages)
			assert.Equal(t, wantDailyCSV, readFile(t, req.DailyPath()))
			assert.Equal(t, wantMonthlyCSV, readFile(t, req.MonthlyPath()))
			if tt.archiveErr != nil {
				assert.Error(t, result.Err())
			} else {
				assert.NoError(t, result.Err())
			}
		})
	}
}

func TestExportSkipsArchiveForFailedWrite(t *testing.T) {
	req := testRequest(t)
	blocker := filepath.Join(filepath.Dir(req.DailyDir), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	req.DailyDir = filepath.Join(blocker, "daily")

	archiver := &mockArchiver{
		archiveFunc: func(ctx context.Context, localPath string) (string, error) {
			return "s3://exports/" + filepath.Base(localPath), nil
		},
	}

	_, err := NewExporter(precip.NewStubSource(), WithArchiver(archiver)).Export(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{req.MonthlyPath()}, archiver.paths)
}

func TestReporters(t *testing.T) {
	var buf bytes.Buffer
	var logBuf bytes.Buffer
	var funcMessages []string

	reporter := MultiReporter{
		NewWriterReporter(&buf),
		NewLogReporter(zerolog.New(&logBuf), zerolog.InfoLevel),
		ReporterFunc(func(m string) { funcMessages = append(funcMessages, m) }),
		nil,
	}
	reporter.Record("first")
	reporter.Record("second")
	NopReporter.Record("ignored")

	assert.Equal(t, "first\nsecond\n", buf.String())
	assert.Equal(t, []string{"first", "second"}, funcMessages)
	assert.Contains(t, logBuf.String(), `"message":"first"`)
	assert.Contains(t, logBuf.String(), `"level":"info"`)
}
