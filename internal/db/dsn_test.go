package db

import "testing"

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{":memory:", ":memory:?_pragma=foreign_keys(1)"},
		{"data/risk.db", "data/risk.db?_pragma=foreign_keys(1)"},
		{"file:risk.db?mode=ro", "file:risk.db?mode=ro&_pragma=foreign_keys(1)"},
	}
	for _, tt := range tests {
		if got := withForeignKeys(tt.in); got != tt.want {
			t.Errorf("withForeignKeys(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
