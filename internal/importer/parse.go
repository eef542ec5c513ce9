package importer

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

var errNegative = errors.New("must not be negative")

// parseTimestamp accepts the common date-time spellings found in exported
// spreadsheets. Values without an offset are read as UTC wall clock.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &ParseError{Column: "timestamp", Value: s, Err: firstErr}
}

// parseBool treats "true", "1" and "yes" in any case as true and anything
// else as false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// maxCount bounds counts so integral floats cannot overflow int.
const maxCount = math.MaxInt32

var errTooLarge = errors.New("value too large")

// parseCount parses a non-negative integer, also accepting integral float
// text such as "45.0".
func parseCount(column, s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, &ParseError{Column: column, Value: s, Err: errNegative}
		}
		if n > maxCount {
			return 0, &ParseError{Column: column, Value: s, Err: errTooLarge}
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Column: column, Value: s, Err: err}
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, &ParseError{Column: column, Value: s, Err: errors.New("not an integer")}
	}
	if f < 0 {
		return 0, &ParseError{Column: column, Value: s, Err: errNegative}
	}
	if f > maxCount {
		return 0, &ParseError{Column: column, Value: s, Err: errTooLarge}
	}
	return int(f), nil
}

func parseScore(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		if err == nil {
			err = errors.New("not a finite number")
		}
		return 0, &ParseError{Column: "security_training_score", Value: s, Err: err}
	}
	return f, nil
}
