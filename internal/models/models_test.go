package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "rfc3339", in: `"2025-03-01T10:30:00Z"`, want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{name: "naive with micros", in: `"2025-03-01T10:30:00.123456"`, want: time.Date(2025, 3, 1, 10, 30, 0, 123456000, time.UTC)},
		{name: "space separated", in: `"2025-03-01 10:30:00"`, want: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)},
		{name: "date only", in: `"2025-03-01"`, want: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}

	t.Run("null", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte("null"), &ts); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ts.IsZero() {
			t.Error("expected zero timestamp")
		}
		out, _ := json.Marshal(ts)
		if string(out) != "null" {
			t.Errorf("expected zero to marshal as null, got %s", out)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		var ts Timestamp
		if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
			t.Error("expected error for unparseable timestamp")
		}
	})
}

func TestFilters(t *testing.T) {
	t.Run("FlashcardFilter omits zero values", func(t *testing.T) {
		if q := (FlashcardFilter{}).Query(); len(q) != 0 {
			t.Errorf("expected empty query, got %v", q)
		}
		q := FlashcardFilter{Language: "fr", Due: true}.Query()
		if q.Get("language") != "fr" || q.Get("due") != "true" || q.Has("category") {
			t.Errorf("unexpected query %v", q)
		}
	})

	t.Run("ScheduleFilter keeps Monday", func(t *testing.T) {
		monday := 0
		q := ScheduleFilter{DayOfWeek: &monday}.Query()
		if q.Get("day_of_week") != "0" {
			t.Errorf("expected day_of_week=0, got %v", q)
		}
	})

	t.Run("ProgressFilter formats dates", func(t *testing.T) {
		q := ProgressFilter{StartDate: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)}.Query()
		if q.Get("start_date") != "2025-01-02T00:00:00Z" {
			t.Errorf("unexpected start_date %q", q.Get("start_date"))
		}
		if q.Has("end_date") {
			t.Error("zero end date should be omitted")
		}
	})
}
