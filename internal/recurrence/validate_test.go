package recurrence

import (
	"fmt"
	"testing"
	"time"

	"building_scheduler/internal/models"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func pattern(y, mo, d, h, mi string) models.TimePattern {
	return models.TimePattern{Year: y, Month: mo, Day: d, Hour: h, Minute: mi}
}

func TestValidateDaySpecifier(t *testing.T) {
	cases := []struct {
		name     string
		days     []models.Weekday
		excluded []time.Time
		reason   models.Reason
	}{
		{name: "no days", days: nil, reason: models.ReasonNoDaySelected},
		{name: "unknown code", days: []models.Weekday{"Xx"}, reason: models.ReasonInvalidWeekday},
		{
			name:     "duplicate exclusion",
			days:     []models.Weekday{models.Monday},
			excluded: []time.Time{at(2024, 5, 6, 9, 0), at(2024, 5, 6, 9, 0)},
			reason:   models.ReasonDuplicateExclusion,
		},
		{
			name:     "exclusions equal at minute precision",
			days:     []models.Weekday{models.Monday},
			excluded: []time.Time{at(2024, 5, 6, 9, 0), at(2024, 5, 6, 9, 0).Add(30 * time.Second)},
			reason:   models.ReasonDuplicateExclusion,
		},
		{name: "ok", days: []models.Weekday{models.Friday}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDaySpecifier(tc.days, tc.excluded)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !models.IsValidation(err, tc.reason) {
				t.Fatalf("want %s, got %v", tc.reason, err)
			}
		})
	}
}

func TestValidateDaySpecifier_OrdersAndDedupes(t *testing.T) {
	spec, err := ValidateDaySpecifier([]models.Weekday{models.Sunday, models.Monday, models.Wednesday, models.Monday}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Weekday{models.Monday, models.Wednesday, models.Sunday}
	if fmt.Sprint(spec.Days) != fmt.Sprint(want) {
		t.Fatalf("days = %v, want %v", spec.Days, want)
	}
}

func TestValidateTimeSpecifier(t *testing.T) {
	cases := []struct {
		name     string
		p        models.TimePattern
		excluded []time.Time
		reason   models.Reason
	}{
		{name: "empty", p: pattern("", "", "", "", ""), reason: models.ReasonEmptyPattern},
		{name: "all wildcard", p: pattern("****", "**", "**", "**", "**"), reason: models.ReasonAllWildcard},
		{name: "short year", p: pattern("24", "**", "**", "09", "00"), reason: models.ReasonIncompletePattern},
		{name: "long minute", p: pattern("****", "**", "**", "09", "000"), reason: models.ReasonIncompletePattern},
		{name: "blank field", p: pattern("****", "", "**", "09", "00"), reason: models.ReasonIncompletePattern},
		{name: "mixed field", p: pattern("****", "0*", "**", "09", "00"), reason: models.ReasonInvalidCalendarField},
		{name: "month 13", p: pattern("****", "13", "**", "**", "**"), reason: models.ReasonInvalidCalendarField},
		{name: "day 32", p: pattern("****", "**", "32", "**", "**"), reason: models.ReasonInvalidCalendarField},
		{name: "hour 24", p: pattern("****", "**", "**", "24", "**"), reason: models.ReasonInvalidCalendarField},
		{name: "minute 60", p: pattern("****", "**", "**", "**", "60"), reason: models.ReasonInvalidCalendarField},
		{
			name:     "duplicate exclusion",
			p:        pattern("****", "**", "**", "09", "00"),
			excluded: []time.Time{at(2024, 5, 6, 9, 0), at(2024, 5, 6, 9, 0)},
			reason:   models.ReasonDuplicateExclusion,
		},
		{
			name:     "exclusion on single instant",
			p:        pattern("2024", "05", "06", "09", "00"),
			excluded: []time.Time{at(2024, 5, 6, 9, 0)},
			reason:   models.ReasonExclusionNotAllowed,
		},
		{name: "single instant", p: pattern("2024", "05", "06", "09", "00")},
		{
			name:     "daily with exclusion",
			p:        pattern("****", "**", "**", "09", "00"),
			excluded: []time.Time{at(2024, 5, 6, 9, 0)},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateTimeSpecifier(tc.p, tc.excluded)
			if tc.reason == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !models.IsValidation(err, tc.reason) {
				t.Fatalf("want %s, got %v", tc.reason, err)
			}
		})
	}
}

// Every two-digit value is accepted exactly when it is inside the field's calendar range.
func TestValidateTimeSpecifier_FieldRanges(t *testing.T) {
	ranges := []struct {
		field    string
		min, max int
		build    func(v string) models.TimePattern
	}{
		{"month", 1, 12, func(v string) models.TimePattern { return pattern("2024", v, "01", "00", "00") }},
		{"day", 1, 31, func(v string) models.TimePattern { return pattern("2024", "01", v, "00", "00") }},
		{"hour", 0, 23, func(v string) models.TimePattern { return pattern("2024", "01", "01", v, "00") }},
		{"minute", 0, 59, func(v string) models.TimePattern { return pattern("2024", "01", "01", "00", v) }},
	}
	for _, r := range ranges {
		for v := 0; v <= 99; v++ {
			s := fmt.Sprintf("%02d", v)
			_, err := ValidateTimeSpecifier(r.build(s), nil)
			inRange := v >= r.min && v <= r.max
			if inRange && err != nil {
				t.Errorf("%s %s: unexpected error %v", r.field, s, err)
			}
			if !inRange && !models.IsValidation(err, models.ReasonInvalidCalendarField) {
				t.Errorf("%s %s: want InvalidCalendarField, got %v", r.field, s, err)
			}
		}
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	_, err := Validate(models.RecurrenceRule{Kind: models.RuleKind(7)})
	if !models.IsValidation(err, models.ReasonInvalidRuleKind) {
		t.Fatalf("want InvalidRuleKind, got %v", err)
	}
}

func TestMinute_Truncates(t *testing.T) {
	in := time.Date(2024, 5, 6, 9, 15, 42, 99, time.FixedZone("X", 3600))
	got := Minute(in)
	want := at(2024, 5, 6, 9, 15)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("Minute = %v, want %v", got, want)
	}
}
