package models

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	MinYear = 1990
	MaxYear = 2100
)

// Location is a point in decimal degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// ExportRequest is everything the form collects for one export.
type ExportRequest struct {
	Station    string       `json:"station"`
	Location   Location     `json:"location"`
	Model      ClimateModel `json:"model"`
	Scenario   Scenario     `json:"scenario"`
	StartYear  int          `json:"startYear"`
	EndYear    int          `json:"endYear"`
	DailyDir   string       `json:"dailyDir"`
	MonthlyDir string       `json:"monthlyDir"`
}

// RequestFields is the raw form input. An empty directory means no folder was chosen.
type RequestFields struct {
	Station    string
	Latitude   string
	Longitude  string
	Model      string
	Scenario   string
	StartYear  string
	EndYear    string
	DailyDir   string
	MonthlyDir string
}

// NewExportRequest parses raw form input and validates the result.
// Errors are always *ValidationError.
func NewExportRequest(f RequestFields) (ExportRequest, error) {
	var missing []string

	req := ExportRequest{
		Station:    strings.TrimSpace(f.Station),
		DailyDir:   f.DailyDir,
		MonthlyDir: f.MonthlyDir,
	}

	if lat, ok := parseCoordinate(f.Latitude); ok {
		req.Location.Latitude = lat
	} else {
		missing = append(missing, "latitude")
	}
	if lon, ok := parseCoordinate(f.Longitude); ok {
		req.Location.Longitude = lon
	} else {
		missing = append(missing, "longitude")
	}

	if m, err := ParseClimateModel(strings.TrimSpace(f.Model)); err == nil {
		req.Model = m
	}
	if s, err := ParseScenario(strings.TrimSpace(f.Scenario)); err == nil {
		req.Scenario = s
	}

	if y, err := strconv.Atoi(strings.TrimSpace(f.StartYear)); err == nil {
		req.StartYear = y
	} else {
		missing = append(missing, "start_year")
	}
	if y, err := strconv.Atoi(strings.TrimSpace(f.EndYear)); err == nil {
		req.EndYear = y
	} else {
		missing = append(missing, "end_year")
	}

	if len(missing) > 0 {
		// report every missing field, not only the unparseable ones
		all := append(req.missingFields(), missing...)
		return ExportRequest{}, NewValidationError(KindMissingFields, dedupe(all)...)
	}

	if err := req.Validate(); err != nil {
		return ExportRequest{}, err
	}
	return req, nil
}

// Validate checks the request in the order the form reports problems:
// missing fields, coordinates, year range, folders.
func (r ExportRequest) Validate() error {
	if missing := r.missingFields(); len(missing) > 0 {
		return NewValidationError(KindMissingFields, missing...)
	}

	if r.Location.Latitude < -90 || r.Location.Latitude > 90 {
		return NewValidationError(KindCoordinates, "latitude")
	}
	if r.Location.Longitude < -180 || r.Location.Longitude > 180 {
		return NewValidationError(KindCoordinates, "longitude")
	}

	if r.StartYear < MinYear || r.EndYear > MaxYear || r.StartYear > r.EndYear {
		return NewValidationError(KindYearRange, "start_year", "end_year")
	}

	var folders []string
	if r.DailyDir == "" {
		folders = append(folders, "daily_dir")
	}
	if r.MonthlyDir == "" {
		folders = append(folders, "monthly_dir")
	}
	if len(folders) > 0 {
		return NewValidationError(KindFolders, folders...)
	}

	return nil
}

// missingFields treats zero coordinates as unset, like an untouched numeric entry.
func (r ExportRequest) missingFields() []string {
	var missing []string
	if r.Station == "" {
		missing = append(missing, "station")
	}
	if r.Location.Latitude == 0 {
		missing = append(missing, "latitude")
	}
	if r.Location.Longitude == 0 {
		missing = append(missing, "longitude")
	}
	if !r.Model.Valid() {
		missing = append(missing, "model")
	}
	if _, err := ParseScenario(string(r.Scenario)); err != nil {
		missing = append(missing, "scenario")
	}
	return missing
}

// DailyFileName is "<model>_<start>_<end>_daily.csv".
func (r ExportRequest) DailyFileName() string {
	return fmt.Sprintf("%s_%d_%d_daily.csv", r.Model, r.StartYear, r.EndYear)
}

// MonthlyFileName is "<model>_<start>_<end>_monthly.csv".
func (r ExportRequest) MonthlyFileName() string {
	return fmt.Sprintf("%s_%d_%d_monthly.csv", r.Model, r.StartYear, r.EndYear)
}

func (r ExportRequest) DailyPath() string {
	return filepath.Join(r.DailyDir, r.DailyFileName())
}

func (r ExportRequest) MonthlyPath() string {
	return filepath.Join(r.MonthlyDir, r.MonthlyFileName())
}

func parseCoordinate(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func dedupe(fields []string) []string {
	seen := make(map[string]bool, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
