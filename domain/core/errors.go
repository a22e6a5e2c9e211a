package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound      = errors.New("resource not found")
	ErrChartNotFound = fmt.Errorf("%w: chart", ErrNotFound)

	// Pipeline errors
	ErrDataEmpty           = errors.New("no usable data")
	ErrSelectionIncomplete = errors.New("column selection incomplete")
	ErrIneligible          = errors.New("chart type not eligible")
	ErrExportFailed        = errors.New("export failed")
	ErrRenderMismatch      = errors.New("statistics result does not match chart type")

	// Sequencing errors
	ErrStaleResult = errors.New("stale result discarded")

	// Collaborator errors
	ErrDecode             = errors.New("decode failed")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrUnknownChartType   = errors.New("unknown chart type")
	ErrUnknownColumn      = errors.New("unknown column")
	ErrInvalidChartRecord = errors.New("invalid chart record")
)

// DataEmptyError reports a table with zero rows or zero valid columns.
type DataEmptyError struct {
	Reason string
}

func (e *DataEmptyError) Error() string {
	if e.Reason == "" {
		return ErrDataEmpty.Error()
	}
	return fmt.Sprintf("%s: %s", ErrDataEmpty, e.Reason)
}

func (e *DataEmptyError) Unwrap() error { return ErrDataEmpty }

// ColumnSelectionIncompleteError lists the column roles that have not been chosen yet.
type ColumnSelectionIncompleteError struct {
	Missing []string
}

func (e *ColumnSelectionIncompleteError) Error() string {
	return fmt.Sprintf("%s: select %s", ErrSelectionIncomplete, strings.Join(e.Missing, " and "))
}

func (e *ColumnSelectionIncompleteError) Unwrap() error { return ErrSelectionIncomplete }

// ChartEligibilityError carries the human readable reason a chart type was rejected.
type ChartEligibilityError struct {
	ChartType string
	Reason    string
}

func (e *ChartEligibilityError) Error() string {
	return fmt.Sprintf("%s chart: %s", e.ChartType, e.Reason)
}

func (e *ChartEligibilityError) Unwrap() error { return ErrIneligible }

// ExportFailureError wraps a capture or encode failure.
type ExportFailureError struct {
	Format string
	Cause  error
}

func (e *ExportFailureError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s as %s", ErrExportFailed, e.Format)
	}
	return fmt.Sprintf("%s as %s: %v", ErrExportFailed, e.Format, e.Cause)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *ExportFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExportFailed}
	}
	return []error{ErrExportFailed, e.Cause}
}

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewIneligible(chartType, reason string) error {
	return &ChartEligibilityError{ChartType: chartType, Reason: reason}
}

func NewDecodeError(format string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDecode, format, err)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError reports errors raised before statistics are computed.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDataEmpty) ||
		errors.Is(err, ErrSelectionIncomplete) ||
		errors.Is(err, ErrIneligible) ||
		errors.Is(err, ErrUnknownColumn)
}

// ReasonOf extracts the eligibility reason, or the error text for other errors.
func ReasonOf(err error) string {
	var ineligible *ChartEligibilityError
	if errors.As(err, &ineligible) {
		return ineligible.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
