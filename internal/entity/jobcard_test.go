package entity

import (
	"testing"
	"time"
)

func TestFormatJobCardNumber(t *testing.T) {
	day := time.Date(2025, 1, 24, 10, 30, 0, 0, time.Local)

	if got := JobCardNumberPrefix(day); got != "JC-20250124-" {
		t.Errorf("Expected JC-20250124-, got %s", got)
	}
	if got := FormatJobCardNumber(day, 1); got != "JC-20250124-0001" {
		t.Errorf("Expected JC-20250124-0001, got %s", got)
	}
	if got := FormatJobCardNumber(day, 42); got != "JC-20250124-0042" {
		t.Errorf("Expected JC-20250124-0042, got %s", got)
	}
	if got := FormatJobCardNumber(day, 9999); got != "JC-20250124-9999" {
		t.Errorf("Expected JC-20250124-9999, got %s", got)
	}
}

func TestIsValidJobCardNumber(t *testing.T) {
	valid := []string{
		"JC-20250124-0001",
		"JC-20251231-9999",
	}
	for _, s := range valid {
		if !IsValidJobCardNumber(s) {
			t.Errorf("Expected %s to be valid", s)
		}
	}

	invalid := []string{
		"",
		"JC-20250124-001",
		"JC-20250124-00011",
		"JC-2025012-0001",
		"WO-20250124-0001",
		"JC-20250124-abcd",
		"jc-20250124-0001",
		"JC-20250124-0001 ",
	}
	for _, s := range invalid {
		if IsValidJobCardNumber(s) {
			t.Errorf("Expected %s to be invalid", s)
		}
	}
}

func TestDateFromJobCardNumber(t *testing.T) {
	d := DateFromJobCardNumber("JC-20250124-0007")
	if d == nil {
		t.Fatal("Expected a date, got nil")
	}
	if d.Year() != 2025 || d.Month() != time.January || d.Day() != 24 {
		t.Errorf("Expected 2025-01-24, got %v", d)
	}

	// 格式不对或日期非法都返回nil
	for _, s := range []string{"", "garbage", "JC-20251342-0001", "JC-0001"} {
		if got := DateFromJobCardNumber(s); got != nil {
			t.Errorf("Expected nil for %q, got %v", s, got)
		}
	}
}

func TestCalcProgressPercentage(t *testing.T) {
	cases := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
	}
	for _, c := range cases {
		if got := CalcProgressPercentage(c.completed, c.total); got != c.want {
			t.Errorf("CalcProgressPercentage(%d, %d) = %d, want %d", c.completed, c.total, got, c.want)
		}
	}
}
