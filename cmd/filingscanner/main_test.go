package main

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	start, end, err := parseRange("2024-01-01", "2024-01-05", time.UTC)
	if err != nil {
		t.Fatalf("parseRange: %v", err)
	}
	if start.Format(time.DateOnly) != "2024-01-01" || end.Format(time.DateOnly) != "2024-01-05" {
		t.Fatalf("unexpected range %v..%v", start, end)
	}

	if _, _, err := parseRange("2024-01-05", "2024-01-01", time.UTC); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, _, err := parseRange("yesterday", "", time.UTC); err == nil {
		t.Fatalf("expected error for malformed date")
	}
	if _, end, err := parseRange("2024-01-01", "", time.UTC); err != nil || end.Before(start) {
		t.Fatalf("open-ended range should end today: %v %v", end, err)
	}
}
