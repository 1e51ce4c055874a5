package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		d, err := ParseDate("2024-03-09")
		if err != nil {
			t.Fatalf("ParseDate() returned an unexpected error: %v", err)
		}
		if d != (Date{Year: 2024, Month: time.March, Day: 9}) {
			t.Errorf("Expected 2024-03-09, but got %+v", d)
		}
		if d.String() != "2024-03-09" {
			t.Errorf("Expected String() to be '2024-03-09', but got '%s'", d.String())
		}
	})

	for _, input := range []string{"", "2024-3-9", "2024-02-30", "09/03/2024", "2024-03-09T00:00:00Z"} {
		t.Run("rejects "+input, func(t *testing.T) {
			if _, err := ParseDate(input); err == nil {
				t.Errorf("Expected an error for %q, but got none", input)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	testCases := []struct {
		name     string
		start    string
		days     int
		expected string
	}{
		{name: "previous day", start: "2024-03-09", days: -1, expected: "2024-03-08"},
		{name: "across month", start: "2024-03-01", days: -1, expected: "2024-02-29"},
		{name: "across year", start: "2024-01-01", days: -1, expected: "2023-12-31"},
		{name: "forward", start: "2023-12-31", days: 2, expected: "2024-01-02"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MustParseDate(tc.start).AddDays(tc.days).String()
			if got != tc.expected {
				t.Errorf("Expected %s, but got %s", tc.expected, got)
			}
		})
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	instant := time.Date(2024, time.March, 9, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	if got := DateOf(instant).String(); got != "2024-03-09" {
		t.Errorf("Expected UTC date 2024-03-09, but got %s", got)
	}
	if got := DateOf(instant.In(tokyo)).String(); got != "2024-03-10" {
		t.Errorf("Expected JST date 2024-03-10, but got %s", got)
	}
}

func TestDailyActivityJSON(t *testing.T) {
	var a DailyActivity
	err := json.Unmarshal([]byte(`{"date":"2024-01-02","lessonsCompleted":1,"wordsLearned":0,"practiceTime":15}`), &a)
	if err != nil {
		t.Fatalf("Unmarshal returned an unexpected error: %v", err)
	}
	if a.Date.String() != "2024-01-02" || a.PracticeTime != 15 {
		t.Errorf("Unexpected activity %+v", a)
	}

	out, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal returned an unexpected error: %v", err)
	}
	expected := `{"date":"2024-01-02","lessonsCompleted":1,"wordsLearned":0,"practiceTime":15}`
	if string(out) != expected {
		t.Errorf("Expected %s, but got %s", expected, out)
	}

	if err := json.Unmarshal([]byte(`{"date":"yesterday"}`), &a); err == nil {
		t.Error("Expected malformed date to be rejected")
	}
}

func TestHasActivity(t *testing.T) {
	if (DailyActivity{}).HasActivity() {
		t.Error("Expected zero record to have no activity")
	}
	if !(DailyActivity{PracticeTime: 1}).HasActivity() {
		t.Error("Expected practice time alone to count as activity")
	}
}
