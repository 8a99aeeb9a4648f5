package recurrence

import (
	"testing"
	"time"

	"building_scheduler/internal/models"
)

// 2024-05-06 is a Monday.
var week = at(2024, 5, 6, 0, 0)

func TestWeekStart(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{at(2024, 5, 6, 0, 0), week},
		{at(2024, 5, 8, 13, 45), week},
		{at(2024, 5, 12, 23, 59), week},
		{at(2024, 5, 13, 0, 0), at(2024, 5, 13, 0, 0)},
		{at(2024, 1, 3, 8, 0), at(2024, 1, 1, 0, 0)},
	}
	for _, tc := range cases {
		if got := WeekStart(tc.in); !got.Equal(tc.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if !IsWeekStart(week) || IsWeekStart(at(2024, 5, 7, 0, 0)) || IsWeekStart(at(2024, 5, 6, 1, 0)) {
		t.Fatal("IsWeekStart misclassified")
	}
}

func TestOccurrences_DayRule(t *testing.T) {
	spec, _ := ValidateDaySpecifier([]models.Weekday{models.Monday, models.Wednesday}, nil)
	got, err := Occurrences(models.DayRule(spec), at(2020, 1, 1, 9, 0), week)
	if err != nil {
		t.Fatalf("occurrences: %v", err)
	}
	want := []time.Time{at(2024, 5, 6, 9, 0), at(2024, 5, 8, 9, 0)}
	assertTimes(t, got, want)
}

func TestOccurrences_DayRuleExclusion(t *testing.T) {
	spec, _ := ValidateDaySpecifier(
		[]models.Weekday{models.Monday, models.Wednesday, models.Friday},
		[]time.Time{at(2024, 5, 8, 9, 0)},
	)
	got, err := Occurrences(models.DayRule(spec), at(2024, 5, 1, 9, 0), week)
	if err != nil {
		t.Fatalf("occurrences: %v", err)
	}
	assertTimes(t, got, []time.Time{at(2024, 5, 6, 9, 0), at(2024, 5, 10, 9, 0)})

	// same rule, following week: exclusion no longer applies
	got, _ = Occurrences(models.DayRule(spec), at(2024, 5, 1, 9, 0), at(2024, 5, 13, 0, 0))
	assertTimes(t, got, []time.Time{at(2024, 5, 13, 9, 0), at(2024, 5, 15, 9, 0), at(2024, 5, 17, 9, 0)})
}

func TestOccurrences_DayRuleMidnightAndSunday(t *testing.T) {
	spec, _ := ValidateDaySpecifier([]models.Weekday{models.Monday, models.Sunday}, nil)
	got, err := Occurrences(models.DayRule(spec), at(2024, 1, 1, 0, 0), week)
	if err != nil {
		t.Fatalf("occurrences: %v", err)
	}
	assertTimes(t, got, []time.Time{at(2024, 5, 6, 0, 0), at(2024, 5, 12, 0, 0)})
}

func TestOccurrences_TimeRule(t *testing.T) {
	cases := []struct {
		name     string
		p        models.TimePattern
		excluded []time.Time
		trigger  time.Time
		want     []time.Time
	}{
		{
			name:    "daily at pattern time",
			p:       pattern("****", "**", "**", "07", "30"),
			trigger: at(2024, 1, 1, 12, 0),
			want: []time.Time{
				at(2024, 5, 6, 7, 30), at(2024, 5, 7, 7, 30), at(2024, 5, 8, 7, 30), at(2024, 5, 9, 7, 30),
				at(2024, 5, 10, 7, 30), at(2024, 5, 11, 7, 30), at(2024, 5, 12, 7, 30),
			},
		},
		{
			name:     "daily with exclusion",
			p:        pattern("****", "**", "**", "07", "30"),
			excluded: []time.Time{at(2024, 5, 9, 7, 30)},
			trigger:  at(2024, 1, 1, 12, 0),
			want: []time.Time{
				at(2024, 5, 6, 7, 30), at(2024, 5, 7, 7, 30), at(2024, 5, 8, 7, 30),
				at(2024, 5, 10, 7, 30), at(2024, 5, 11, 7, 30), at(2024, 5, 12, 7, 30),
			},
		},
		{
			name:    "fixed date takes clock from trigger",
			p:       pattern("2024", "05", "08", "**", "**"),
			trigger: at(2024, 1, 1, 14, 15),
			want:    []time.Time{at(2024, 5, 8, 14, 15)},
		},
		{
			name:    "every year on a day of month",
			p:       pattern("****", "**", "10", "18", "00"),
			trigger: at(2019, 3, 3, 1, 0),
			want:    []time.Time{at(2024, 5, 10, 18, 0)},
		},
		{
			name:    "other year",
			p:       pattern("2023", "05", "08", "09", "00"),
			trigger: at(2023, 5, 8, 9, 0),
			want:    nil,
		},
		{
			name:    "other month",
			p:       pattern("****", "06", "**", "09", "00"),
			trigger: at(2024, 1, 1, 9, 0),
			want:    nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, err := ValidateTimeSpecifier(tc.p, tc.excluded)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			got, err := Occurrences(models.TimeRule(spec), tc.trigger, week)
			if err != nil {
				t.Fatalf("occurrences: %v", err)
			}
			assertTimes(t, got, tc.want)
		})
	}
}

func TestOccursInWeek(t *testing.T) {
	day, _ := ValidateDaySpecifier([]models.Weekday{models.Saturday}, nil)
	if !OccursInWeek(models.DayRule(day), week) {
		t.Fatal("day rule must occur in every week")
	}

	cases := []struct {
		p    models.TimePattern
		want bool
	}{
		{pattern("2024", "05", "12", "**", "**"), true},
		{pattern("2024", "05", "13", "**", "**"), false},
		{pattern("****", "05", "**", "09", "00"), true},
		{pattern("2025", "**", "**", "09", "00"), false},
		{pattern("****", "**", "**", "09", "00"), true},
	}
	for _, tc := range cases {
		spec, err := ValidateTimeSpecifier(tc.p, nil)
		if err != nil {
			t.Fatalf("validate %s: %v", tc.p, err)
		}
		if got := OccursInWeek(models.TimeRule(spec), week); got != tc.want {
			t.Errorf("OccursInWeek(%s) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestOccursInWeek_MonthBoundary(t *testing.T) {
	// week of 2024-04-29 spans April and May
	start := at(2024, 4, 29, 0, 0)
	for _, p := range []models.TimePattern{
		pattern("****", "04", "30", "**", "**"),
		pattern("****", "05", "01", "**", "**"),
	} {
		spec, _ := ValidateTimeSpecifier(p, nil)
		if !OccursInWeek(models.TimeRule(spec), start) {
			t.Errorf("%s should occur in week of %v", p, start)
		}
		got, err := Occurrences(models.TimeRule(spec), at(2024, 1, 1, 8, 0), start)
		if err != nil || len(got) != 1 {
			t.Errorf("%s: got %v, %v", p, got, err)
		}
	}
}

func assertTimes(t *testing.T, got, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}
