package recurrence

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"building_scheduler/internal/models"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	day, err := ValidateDaySpecifier([]models.Weekday{models.Monday, models.Wednesday}, []time.Time{at(2024, 5, 8, 9, 0)})
	if err != nil {
		t.Fatalf("day: %v", err)
	}
	daily, err := ValidateTimeSpecifier(pattern("****", "**", "**", "07", "30"), []time.Time{at(2024, 5, 7, 7, 30), at(2024, 5, 9, 7, 30)})
	if err != nil {
		t.Fatalf("time: %v", err)
	}
	once, err := ValidateTimeSpecifier(pattern("2024", "12", "25", "06", "00"), nil)
	if err != nil {
		t.Fatalf("once: %v", err)
	}

	for _, rule := range []models.RecurrenceRule{models.DayRule(day), models.TimeRule(daily), models.TimeRule(once)} {
		w := Encode(rule)
		got, err := Decode(w)
		if err != nil {
			t.Fatalf("decode %+v: %v", w, err)
		}
		if !reflect.DeepEqual(got, rule) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, rule)
		}
	}
}

func TestEncode_WireForm(t *testing.T) {
	day, _ := ValidateDaySpecifier([]models.Weekday{models.Friday, models.Monday}, nil)
	w := Encode(models.DayRule(day))
	if w.Type != "0" || w.Specifier != "Mo, Fr" || len(w.Excluded) != 0 {
		t.Fatalf("day wire = %+v", w)
	}

	ts, _ := ValidateTimeSpecifier(pattern("****", "**", "**", "09", "00"), []time.Time{at(2024, 5, 6, 9, 0)})
	w = Encode(models.TimeRule(ts))
	if w.Type != "1" || w.Specifier != "********0900" {
		t.Fatalf("time wire = %+v", w)
	}
	if len(w.Excluded) != 1 || w.Excluded[0] != "202405060900" {
		t.Fatalf("excluded = %v", w.Excluded)
	}
}

func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name   string
		wire   Wire
		reason models.Reason
		parse  bool
	}{
		{name: "unknown type", wire: Wire{Type: "5", Specifier: "Mo"}, parse: true},
		{name: "bad day code", wire: Wire{Type: "0", Specifier: "Mo, Xy"}, reason: models.ReasonInvalidWeekday},
		{name: "no days", wire: Wire{Type: "0", Specifier: " "}, reason: models.ReasonNoDaySelected},
		{name: "short pattern", wire: Wire{Type: "1", Specifier: "2024"}, reason: models.ReasonIncompletePattern},
		{name: "empty pattern", wire: Wire{Type: "1", Specifier: ""}, reason: models.ReasonEmptyPattern},
		{name: "bad exclusion", wire: Wire{Type: "0", Specifier: "Mo", Excluded: []string{"yesterday"}}, parse: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(tc.wire)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.parse {
				var pe *models.ParseError
				if !errors.As(err, &pe) {
					t.Fatalf("want ParseError, got %T %v", err, err)
				}
				return
			}
			if !models.IsValidation(err, tc.reason) {
				t.Fatalf("want %s, got %v", tc.reason, err)
			}
		})
	}
}

func TestDecode_SkipsBlankExclusions(t *testing.T) {
	rule, err := Decode(Wire{Type: "0", Specifier: "Tu", Excluded: []string{"", "  "}})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rule.Excluded()) != 0 {
		t.Fatalf("excluded = %v", rule.Excluded())
	}
}

func TestParseTime_Lenient(t *testing.T) {
	got, err := ParseTime(` "202405060930" `)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(at(2024, 5, 6, 9, 30)) {
		t.Fatalf("got %v", got)
	}
}

func TestDescribe(t *testing.T) {
	day, _ := ValidateDaySpecifier([]models.Weekday{models.Wednesday, models.Monday}, []time.Time{at(2024, 5, 6, 9, 0)})
	text, exc := Describe(models.DayRule(day))
	if text != "Day Specifier: Monday, Wednesday" {
		t.Fatalf("text = %q", text)
	}
	if len(exc) != 1 || exc[0] != "Excluded Time: 2024-05-06 09:00" {
		t.Fatalf("excluded = %v", exc)
	}

	once, _ := ValidateTimeSpecifier(pattern("2024", "05", "06", "09", "00"), nil)
	if text, _ := Describe(models.TimeRule(once)); text != "Time Specifier: 2024-05-06 09:00" {
		t.Fatalf("text = %q", text)
	}
	daily, _ := ValidateTimeSpecifier(pattern("****", "**", "**", "09", "00"), nil)
	if text, _ := Describe(models.TimeRule(daily)); text != "Time Specifier: ********0900" {
		t.Fatalf("text = %q", text)
	}
}
