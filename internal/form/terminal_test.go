package form

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bbernstein/precipexport/internal/export"
	"github.com/bbernstein/precipexport/internal/precip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(input string) (*Terminal, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewTerminal(strings.NewReader(input), &out, &errOut), &out, &errOut
}

func TestTerminalShowError(t *testing.T) {
	term, out, errOut := newTestTerminal("")

	term.ShowError("T", "m")

	assert.Equal(t, "+-------+\n| [T] m |\n+-------+\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestTerminalChooseDirectory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantDir string
		wantOK  bool
	}{
		{name: "path", input: "/data/out\n", wantDir: "/data/out", wantOK: true},
		{name: "trimmed", input: "  /data/out  \n", wantDir: "/data/out", wantOK: true},
		{name: "empty answer cancels", input: "\n", wantOK: false},
		{name: "end of input cancels", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, out, _ := newTestTerminal(tt.input)

			dir, ok := term.ChooseDirectory(context.Background(), "Choose Output Folder for Daily Data")

			assert.Equal(t, tt.wantDir, dir)
			assert.Equal(t, tt.wantOK, ok)
			assert.Contains(t, out.String(), "Choose Output Folder for Daily Data")
		})
	}
}

func TestTerminalFill(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantModel    string
		wantScenario string
	}{
		{
			name:         "menu numbers",
			input:        "Seattle\n47.6\n-122.3\n4\n2\n2020\n2030\n",
			wantModel:    "CESM2",
			wantScenario: "ssp245",
		},
		{
			name:         "menu names",
			input:        "Seattle\n47.6\n-122.3\nCanESM5\nssp585\n2020\n2030\n",
			wantModel:    "CanESM5",
			wantScenario: "ssp585",
		},
		{
			name:         "out of range number kept as typed",
			input:        "Seattle\n47.6\n-122.3\n99\n0\n2020\n2030\n",
			wantModel:    "99",
			wantScenario: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term, out, _ := newTestTerminal(tt.input)
			f := New(&mockExporter{}, term, term, nil)

			require.NoError(t, term.Fill(context.Background(), f))

			assert.Equal(t, "Seattle", f.Station)
			assert.Equal(t, "47.6", f.Latitude)
			assert.Equal(t, "-122.3", f.Longitude)
			assert.Equal(t, tt.wantModel, f.Model)
			assert.Equal(t, tt.wantScenario, f.Scenario)
			assert.Equal(t, "2020", f.StartYear)
			assert.Equal(t, "2030", f.EndYear)
			assert.Contains(t, out.String(), "   4) CESM2")
			assert.Contains(t, out.String(), "   2) ssp245")
		})
	}
}

func TestTerminalFillKeepsValuesOnEmptyAnswer(t *testing.T) {
	term, out, _ := newTestTerminal(strings.Repeat("\n", 7))
	f := New(&mockExporter{}, term, term, nil)
	f.Station = "Seattle"
	f.Model = "CESM2"

	require.NoError(t, term.Fill(context.Background(), f))

	assert.Equal(t, "Seattle", f.Station)
	assert.Equal(t, "CESM2", f.Model)
	assert.Empty(t, f.Latitude)
	assert.Contains(t, out.String(), "Enter Station Name [Seattle]: ")
}

func TestTerminalConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "y\n", want: true},
		{input: "YES\n", want: true},
		{input: "n\n", want: false},
		{input: "\n", want: false},
		{input: "maybe\n", want: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			term, _, _ := newTestTerminal(tt.input)

			got, err := term.Confirm(context.Background(), "Process another request?")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalRun(t *testing.T) {
	root := t.TempDir()
	dailyDir := filepath.Join(root, "daily")
	monthlyDir := filepath.Join(root, "monthly")

	// first round leaves the station empty, second round fixes it and
	// keeps everything else
	input := "\n47.6\n-122.3\n4\n2\n2020\n2030\n" +
		dailyDir + "\n" + monthlyDir + "\n" +
		"y\n" +
		"Seattle\n" + strings.Repeat("\n", 8) +
		"n\n"
	term, out, errOut := newTestTerminal(input)
	var pane bytes.Buffer
	f := New(export.NewExporter(precip.NewStubSource()), term, term, export.NewWriterReporter(&pane))

	err := term.Run(context.Background(), f)

	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(errOut.String(), "[Input Error] Please fill in all the fields."))
	assert.Contains(t, out.String(), "Process another request? [y/N]: ")
	assert.FileExists(t, filepath.Join(dailyDir, "CESM2_2020_2030_daily.csv"))
	assert.FileExists(t, filepath.Join(monthlyDir, "CESM2_2020_2030_monthly.csv"))

	logged := pane.String()
	assert.Contains(t, logged, "Daily data will be saved to: "+dailyDir+"\n")
	assert.Contains(t, logged, "Monthly data will be saved to: "+monthlyDir+"\n")
	assert.True(t, strings.HasSuffix(logged, "Data processing completed successfully.\n"))
}

func TestTerminalRunEndOfInput(t *testing.T) {
	term, _, errOut := newTestTerminal("Seattle\n")
	exp := &mockExporter{}
	f := New(exp, term, term, nil)

	err := term.Run(context.Background(), f)

	assert.NoError(t, err)
	assert.Empty(t, exp.calls)
	assert.Empty(t, errOut.String())
}

func TestTerminalRunCancelled(t *testing.T) {
	term, _, _ := newTestTerminal("Seattle\n")
	f := New(&mockExporter{}, term, term, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := term.Run(ctx, f)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTerminalRunFolderErrorThenNoFiles(t *testing.T) {
	root := t.TempDir()
	input := "Seattle\n47.6\n-122.3\n4\n2\n2020\n2030\n\n\nn\n"
	term, _, errOut := newTestTerminal(input)
	exp := &mockExporter{}
	f := New(exp, term, term, nil)

	require.NoError(t, term.Run(context.Background(), f))

	assert.Contains(t, errOut.String(), "[Folder Error] Please select both daily and monthly output folders.")
	assert.Empty(t, exp.calls)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
