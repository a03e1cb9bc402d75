package relay

import (
	"testing"
	"time"
)

func TestFormatUpdated(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

	loc := time.FixedZone("KST", 9*60*60)
	if got, want := FormatUpdated(ts, loc), "updated: 2024-03-02 00:04:05 KST"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got, want := FormatUpdated(ts, nil), "updated: 2024-03-01 15:04:05 UTC"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := FormatUpdated(time.Time{}, loc); got != "" {
		t.Fatalf("expected empty string for zero time, got %q", got)
	}
}

func TestLoadLocationFallback(t *testing.T) {
	loc, err := LoadLocation("Not/AZone")
	if err == nil {
		t.Fatalf("expected error for unknown zone")
	}
	if loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
}
