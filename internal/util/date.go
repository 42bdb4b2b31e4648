package util

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is matched by every *InvalidDateError.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a value that cannot be read as a calendar date.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid date: %s", e.Reason)
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidDate) hold for any InvalidDateError.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// longDateLayout is the en-US long form, e.g. "January 15, 2024".
const longDateLayout = "January 2, 2006"

// dateLayouts are the string forms accepted by ParseAndFormatDate, tried in order.
var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
}

// FormatDate renders t as "Month D, YYYY" in its own location.
// The zero time is rejected rather than printed as "January 1, 1".
func FormatDate(t time.Time) (string, error) {
	if t.IsZero() {
		return "", &InvalidDateError{Reason: "zero time"}
	}
	return t.Format(longDateLayout), nil
}

// ParseAndFormatDate parses s with one of the accepted layouts and formats
// it with FormatDate.
func ParseAndFormatDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &InvalidDateError{Reason: "empty input"}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatDate(t)
		}
	}
	return "", &InvalidDateError{Input: s, Reason: "unrecognized format"}
}
