package timetricks

import (
	"testing"
	"time"
)

func TestMidnightOnDSTDay(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatal(err)
	}

	// 2024-03-10 is the spring-forward day in America/Los_Angeles.
	in := time.Date(2024, time.March, 10, 15, 30, 0, 0, la)
	got := Midnight(in)
	want := time.Date(2024, time.March, 10, 0, 0, 0, 0, la)
	if !got.Equal(want) {
		t.Errorf("Midnight(%v) = %v, want %v", in, got, want)
	}
	if got.Hour() != 0 {
		t.Errorf("Midnight hour = %d, want 0", got.Hour())
	}
}

func TestNextDay(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Fatal(err)
	}

	in := time.Date(2024, time.March, 9, 23, 59, 0, 0, la)
	got := NextDay(in)
	want := time.Date(2024, time.March, 10, 0, 0, 0, 0, la)
	if !got.Equal(want) {
		t.Errorf("NextDay(%v) = %v, want %v", in, got, want)
	}

	// Spring-forward day is only 23 hours long.
	if d := NextDay(got).Sub(got); d != 23*time.Hour {
		t.Errorf("length of DST day = %v, want 23h", d)
	}
}

func TestDay(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	table := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, time.June, 1, 5, 0, 0, 0, time.UTC), "Today"},
		{time.Date(2024, time.June, 2, 5, 0, 0, 0, time.UTC), "Tomorrow"},
		{time.Date(2024, time.June, 4, 5, 0, 0, 0, time.UTC), "Tuesday"},
		{time.Date(2024, time.June, 20, 5, 0, 0, 0, time.UTC), "06/20"},
		{time.Date(2024, time.May, 20, 5, 0, 0, 0, time.UTC), "05/20"},
	}

	for _, tc := range table {
		t.Run(tc.want, func(t *testing.T) {
			if got := Day(tc.in, now); got != tc.want {
				t.Errorf("Day(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
