// ABOUTME: Tests for the calendar Date type.
// ABOUTME: Covers parsing, ordering and JSON encoding.
package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-09")
	if err != nil {
		t.Fatalf("ParseDate failed: %v", err)
	}
	if !d.Equal(NewDate(2024, time.March, 9)) {
		t.Errorf("ParseDate = %s, want 2024-03-09", d)
	}

	if _, err := ParseDate("03/09/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2024, time.January, 1)
	b := a.AddDays(1)

	if !a.Before(b) || !b.After(a) {
		t.Errorf("expected %s before %s", a, b)
	}
	if b.String() != "2024-01-02" {
		t.Errorf("AddDays(1) = %s, want 2024-01-02", b)
	}
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	ts := time.Date(2024, time.May, 5, 23, 59, 0, 0, time.FixedZone("X", 3600))
	if got := DateOf(ts).String(); got != "2024-05-05" {
		t.Errorf("DateOf = %s, want 2024-05-05", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.December, 31)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"2025-12-31"` {
		t.Errorf("Marshal = %s, want \"2025-12-31\"", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("Unmarshal = %s, want %s", back, d)
	}

	var empty Date
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil {
		t.Fatalf("Unmarshal empty failed: %v", err)
	}
	if !empty.IsZero() {
		t.Error("expected zero date from empty string")
	}
}
