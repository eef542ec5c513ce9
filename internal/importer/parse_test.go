package importer

import (
	"strings"
	"testing"
	"time"
)

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", " True ", "1", "yes", "Yes"} {
		if !parseBool(s) {
			t.Errorf("parseBool(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "false", "0", "no", "y", "1.0", "t"} {
		if parseBool(s) {
			t.Errorf("parseBool(%q) = true, want false", s)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-01-15 09:30:00",
		"2024-01-15T09:30:00",
		"2024-01-15T09:30:00Z",
		"2024-01-15 09:30",
		"2024-01-15 09:30:00.000",
		"2024/01/15 09:30",
		"01/15/2024 09:30:00",
		"1/15/2024 09:30",
	} {
		got, err := parseTimestamp(s)
		if err != nil {
			t.Errorf("parseTimestamp(%q): %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", s, got, want)
		}
	}

	got, err := parseTimestamp("2024-01-15")
	if err != nil || !got.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date only: got %v err %v", got, err)
	}

	// Offsets keep the recorded wall clock.
	got, err = parseTimestamp("2024-01-15T09:30:00+02:00")
	if err != nil || got.Hour() != 9 {
		t.Errorf("offset: got %v err %v", got, err)
	}

	if _, err := parseTimestamp("yesterday"); err == nil || !strings.Contains(err.Error(), "timestamp") {
		t.Errorf("expected timestamp parse error, got %v", err)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"45", 45, false},
		{"45.0", 45, false},
		{"0", 0, false},
		{"4.5", 0, true},
		{"-1", 0, true},
		{"-3.0", 0, true},
		{"abc", 0, true},
		{"2147483647", 2147483647, false},
		{"2147483648", 0, true},
		{"1e19", 0, true},
		{"9223372036854775808", 0, true},
		{"9223372036854775807", 0, true},
	}
	for _, tt := range tests {
		got, err := parseCount("n", tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCount(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
