// Package recurrence validates, serialises and expands event recurrence rules.
package recurrence

import (
	"strings"
	"time"

	"building_scheduler/internal/models"
)

// digitRule constrains the second digit of a two-digit field given its first digit.
type digitRule map[byte]string

// Valid leading-digit / second-digit sets for each calendar field.
var fieldDigits = map[string]digitRule{
	"month":  {'0': "123456789", '1': "012"},
	"day":    {'0': "123456789", '1': "0123456789", '2': "0123456789", '3': "01"},
	"hour":   {'0': "0123456789", '1': "0123456789", '2': "0123"},
	"minute": {'0': "0123456789", '1': "0123456789", '2': "0123456789", '3': "0123456789", '4': "0123456789", '5': "0123456789"},
}

// ValidateDaySpecifier checks that at least one day is selected and no exclusion repeats.
// Days are returned deduplicated in Monday-first order.
func ValidateDaySpecifier(days []models.Weekday, excluded []time.Time) (models.DaySpecifier, error) {
	if len(days) == 0 {
		return models.DaySpecifier{}, models.Invalid(models.ReasonNoDaySelected, "select at least one day")
	}
	selected := make(map[models.Weekday]bool, len(days))
	for _, d := range days {
		if d.Index() < 0 {
			return models.DaySpecifier{}, models.Invalid(models.ReasonInvalidWeekday, "unknown weekday code %q", string(d))
		}
		selected[d] = true
	}
	ordered := make([]models.Weekday, 0, len(selected))
	for _, d := range models.Weekdays {
		if selected[d] {
			ordered = append(ordered, d)
		}
	}
	exc, err := normalizeExcluded(excluded)
	if err != nil {
		return models.DaySpecifier{}, err
	}
	return models.DaySpecifier{Days: ordered, Excluded: exc}, nil
}

// ValidateTimeSpecifier checks a wildcard pattern and its exclusions.
func ValidateTimeSpecifier(p models.TimePattern, excluded []time.Time) (models.TimeSpecifier, error) {
	fields := p.Fields()

	blank := true
	for _, f := range fields {
		if strings.TrimSpace(f.Value) != "" {
			blank = false
			break
		}
	}
	if blank {
		return models.TimeSpecifier{}, models.Invalid(models.ReasonEmptyPattern, "time pattern is empty")
	}

	allWild := true
	for _, f := range fields {
		if !f.Wildcard() {
			allWild = false
			break
		}
	}
	if allWild {
		return models.TimeSpecifier{}, models.Invalid(models.ReasonAllWildcard, "at least one field must be specified")
	}

	for _, f := range fields {
		if len(f.Value) != f.Width {
			return models.TimeSpecifier{}, models.Invalid(models.ReasonIncompletePattern,
				"%s must be %d characters, got %q", f.Name, f.Width, f.Value)
		}
	}

	for _, f := range fields {
		if err := validateField(f); err != nil {
			return models.TimeSpecifier{}, err
		}
	}

	exc, err := normalizeExcluded(excluded)
	if err != nil {
		return models.TimeSpecifier{}, err
	}
	if len(exc) > 0 && !p.HasWildcard() {
		return models.TimeSpecifier{}, models.Invalid(models.ReasonExclusionNotAllowed,
			"pattern %s names a single instant and cannot have exclusions", p.String())
	}
	return models.TimeSpecifier{Pattern: p, Excluded: exc}, nil
}

// Validate re-checks a rule of either kind.
func Validate(rule models.RecurrenceRule) (models.RecurrenceRule, error) {
	switch rule.Kind {
	case models.KindDaySpecifier:
		if rule.Day == nil {
			return models.RecurrenceRule{}, models.Invalid(models.ReasonNoDaySelected, "day specifier is missing")
		}
		spec, err := ValidateDaySpecifier(rule.Day.Days, rule.Day.Excluded)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		return models.DayRule(spec), nil
	case models.KindTimeSpecifier:
		if rule.Time == nil {
			return models.RecurrenceRule{}, models.Invalid(models.ReasonEmptyPattern, "time specifier is missing")
		}
		spec, err := ValidateTimeSpecifier(rule.Time.Pattern, rule.Time.Excluded)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		return models.TimeRule(spec), nil
	}
	return models.RecurrenceRule{}, models.Invalid(models.ReasonInvalidRuleKind, "unknown rule kind %d", int(rule.Kind))
}

func validateField(f models.PatternField) error {
	if f.Wildcard() {
		return nil
	}
	for i := 0; i < len(f.Value); i++ {
		if f.Value[i] < '0' || f.Value[i] > '9' {
			return models.Invalid(models.ReasonInvalidCalendarField, "%s %q must be all digits or all '*'", f.Name, f.Value)
		}
	}
	rule, ok := fieldDigits[f.Name]
	if !ok {
		// year: any four digits
		return nil
	}
	allowed, ok := rule[f.Value[0]]
	if !ok || !strings.ContainsRune(allowed, rune(f.Value[1])) {
		return models.Invalid(models.ReasonInvalidCalendarField, "%s %q is out of range", f.Name, f.Value)
	}
	return nil
}

// normalizeExcluded truncates to minute precision and rejects exact repeats.
func normalizeExcluded(excluded []time.Time) ([]time.Time, error) {
	if len(excluded) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(excluded))
	out := make([]time.Time, 0, len(excluded))
	for _, t := range excluded {
		m := Minute(t)
		key := m.Format(models.TimeLayout)
		if seen[key] {
			return nil, models.Invalid(models.ReasonDuplicateExclusion, "excluded time %s appears more than once", key)
		}
		seen[key] = true
		out = append(out, m)
	}
	return out, nil
}

// Minute drops seconds and below and re-expresses t as a naive wall-clock time in UTC.
func Minute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
}
