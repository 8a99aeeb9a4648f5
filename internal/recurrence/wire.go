package recurrence

import (
	"strconv"
	"strings"
	"time"

	"building_scheduler/internal/models"
)

// Wire form of a rule: repeat type, specifier text and excluded timestamps.
type Wire struct {
	Type      string
	Specifier string
	Excluded  []string
}

// Encode renders a rule in its persisted form. Day codes are joined with ", ".
func Encode(rule models.RecurrenceRule) Wire {
	w := Wire{Type: strconv.Itoa(int(rule.Kind))}
	switch rule.Kind {
	case models.KindDaySpecifier:
		if rule.Day != nil {
			codes := make([]string, 0, len(rule.Day.Days))
			for _, d := range rule.Day.Days {
				codes = append(codes, string(d))
			}
			w.Specifier = strings.Join(codes, ", ")
		}
	case models.KindTimeSpecifier:
		if rule.Time != nil {
			w.Specifier = rule.Time.Pattern.String()
		}
	}
	for _, t := range rule.Excluded() {
		w.Excluded = append(w.Excluded, FormatTime(t))
	}
	return w
}

// Decode parses and validates a persisted rule.
func Decode(w Wire) (models.RecurrenceRule, error) {
	excluded := make([]time.Time, 0, len(w.Excluded))
	for _, raw := range w.Excluded {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		t, err := ParseTime(raw)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		excluded = append(excluded, t)
	}

	var kind models.RuleKind
	if err := kind.UnmarshalText([]byte(w.Type)); err != nil {
		return models.RecurrenceRule{}, &models.ParseError{Field: "repeat type", Value: w.Type, Err: err}
	}

	switch kind {
	case models.KindDaySpecifier:
		days, err := ParseDays(w.Specifier)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		spec, err := ValidateDaySpecifier(days, excluded)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		return models.DayRule(spec), nil
	default:
		pattern, err := ParsePattern(w.Specifier)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		spec, err := ValidateTimeSpecifier(pattern, excluded)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		return models.TimeRule(spec), nil
	}
}

// ParseDays splits a comma-joined list of two-letter day codes.
func ParseDays(s string) ([]models.Weekday, error) {
	var days []models.Weekday
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := models.ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}

// ParsePattern splits a 12-character YYYYMMDDHHmm specifier into its fields.
func ParsePattern(s string) (models.TimePattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.TimePattern{}, models.Invalid(models.ReasonEmptyPattern, "time pattern is empty")
	}
	if len(s) != models.PatternWidth {
		return models.TimePattern{}, models.Invalid(models.ReasonIncompletePattern,
			"pattern must be %d characters, got %d", models.PatternWidth, len(s))
	}
	return models.TimePattern{
		Year:   s[0:4],
		Month:  s[4:6],
		Day:    s[6:8],
		Hour:   s[8:10],
		Minute: s[10:12],
	}, nil
}

// ParseTime reads a persisted YYYYMMDDHHmm timestamp. Surrounding quotes and spaces are ignored.
func ParseTime(raw string) (time.Time, error) {
	s := strings.Trim(raw, " \t\r\n\"")
	t, err := time.Parse(models.TimeLayout, s)
	if err != nil {
		return time.Time{}, &models.ParseError{Field: "timestamp", Value: raw, Err: err}
	}
	return t, nil
}

// FormatTime renders a naive timestamp in YYYYMMDDHHmm form.
func FormatTime(t time.Time) string {
	return t.Format(models.TimeLayout)
}

// Describe renders a rule for the event information view.
func Describe(rule models.RecurrenceRule) (string, []string) {
	var excluded []string
	for _, t := range rule.Excluded() {
		excluded = append(excluded, "Excluded Time: "+t.Format("2006-01-02 15:04"))
	}
	switch rule.Kind {
	case models.KindDaySpecifier:
		if rule.Day == nil {
			return "Day Specifier", excluded
		}
		names := make([]string, 0, len(rule.Day.Days))
		for _, d := range rule.Day.Days {
			names = append(names, d.Name())
		}
		return "Day Specifier: " + strings.Join(names, ", "), excluded
	default:
		if rule.Time == nil {
			return "Time Specifier", excluded
		}
		p := rule.Time.Pattern
		if !p.HasWildcard() {
			if t, err := time.Parse(models.TimeLayout, p.String()); err == nil {
				return "Time Specifier: " + t.Format("2006-01-02 15:04"), excluded
			}
		}
		return "Time Specifier: " + p.String(), excluded
	}
}
