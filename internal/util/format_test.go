package util

import (
	"testing"
	"time"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name           string
		correct, total int64
		want           float64
	}{
		{"no answers", 0, 0, 0},
		{"four of seven", 4, 7, 57.1},
		{"all correct", 3, 3, 100},
		{"round half up", 1, 8, 12.5},
		{"two thirds", 2, 3, 66.7},
		{"none correct", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accuracy(tt.correct, tt.total); got != tt.want {
				t.Errorf("Accuracy(%d, %d) = %v, want %v", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0с"},
		{-5, "0с"},
		{9, "9с"},
		{250, "4м 10с"},
		{3600, "1ч 0м 0с"},
		{7500, "2ч 5м 0с"},
		// 整 24 小时仍按小时显示
		{24 * 3600, "24ч 0м 0с"},
		{25*3600 + 3*60 + 4, "1д 1ч 3м 4с"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDaysSinceJoin(t *testing.T) {
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if got := DaysSinceJoin(joined, joined); got != 0 {
		t.Errorf("same instant = %d, want 0", got)
	}
	if got := DaysSinceJoin(joined, joined.Add(time.Hour)); got != 1 {
		t.Errorf("one hour later = %d, want 1", got)
	}
	if got := DaysSinceJoin(joined, joined.Add(48*time.Hour)); got != 2 {
		t.Errorf("two days later = %d, want 2", got)
	}
}

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(" 3, 1,,2 ", "ids")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 2 {
		t.Errorf("got %v, want [3 1 2]", ids)
	}

	if _, err := ParseIDList("1,x", "ids"); KindOf(err) != KindValidation {
		t.Errorf("non-numeric id: kind = %q, want validation", KindOf(err))
	}
	if _, err := ParsePositiveInt("0", "id"); err == nil {
		t.Error("expected error for 0")
	}
}
