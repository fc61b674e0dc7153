package models

import (
	"fmt"
	"strings"
)

// ValidationKind groups request validation failures by the message shown to the user.
type ValidationKind int

const (
	KindMissingFields ValidationKind = iota + 1
	KindCoordinates
	KindYearRange
	KindFolders
)

func (k ValidationKind) String() string {
	switch k {
	case KindMissingFields:
		return "missing_fields"
	case KindCoordinates:
		return "coordinates"
	case KindYearRange:
		return "year_range"
	case KindFolders:
		return "folders"
	default:
		return "unknown"
	}
}

// Title is the dialog title for the kind.
func (k ValidationKind) Title() string {
	switch k {
	case KindMissingFields:
		return "Input Error"
	case KindCoordinates:
		return "Coordinate Error"
	case KindYearRange:
		return "Year Error"
	case KindFolders:
		return "Folder Error"
	default:
		return "Error"
	}
}

// Message is the user-facing dialog text for the kind.
func (k ValidationKind) Message() string {
	switch k {
	case KindMissingFields:
		return "Please fill in all the fields."
	case KindCoordinates:
		return "Please enter a valid latitude and longitude."
	case KindYearRange:
		return "Please choose a valid year range."
	case KindFolders:
		return "Please select both daily and monthly output folders."
	default:
		return "Invalid request."
	}
}

// ValidationError reports why an export request was rejected
type ValidationError struct {
	Kind   ValidationKind
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("invalid request (%s)", e.Kind)
	}
	return fmt.Sprintf("invalid request (%s): %s", e.Kind, strings.Join(e.Fields, ", "))
}

func NewValidationError(kind ValidationKind, fields ...string) *ValidationError {
	return &ValidationError{
		Kind:   kind,
		Fields: fields,
	}
}
