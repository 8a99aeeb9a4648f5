package models

import (
	"strings"
	"time"
)

// Weekday is a two-letter day code as persisted in day specifiers.
type Weekday string

const (
	Monday    Weekday = "Mo"
	Tuesday   Weekday = "Tu"
	Wednesday Weekday = "We"
	Thursday  Weekday = "Th"
	Friday    Weekday = "Fr"
	Saturday  Weekday = "Sa"
	Sunday    Weekday = "Su"
)

// Weekdays lists all day codes in grid column order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ParseWeekday accepts a two-letter code, case-insensitively.
func ParseWeekday(code string) (Weekday, error) {
	c := strings.TrimSpace(code)
	for _, d := range Weekdays {
		if strings.EqualFold(string(d), c) {
			return d, nil
		}
	}
	return "", Invalid(ReasonInvalidWeekday, "unknown weekday code %q", code)
}

// Index returns the grid column, 0 for Monday through 6 for Sunday. Unknown codes return -1.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if w == d {
			return i
		}
	}
	return -1
}

// Name returns the full English day name.
func (d Weekday) Name() string {
	return weekdayNames[d]
}

// WeekdayOf returns the code of a date's day of week.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[ColumnOf(t)]
}

// ColumnOf returns the Monday-based grid column of a date.
func ColumnOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// RuleKind tags the recurrence variant. The values match the persisted repeat type.
type RuleKind int

const (
	KindDaySpecifier  RuleKind = 0
	KindTimeSpecifier RuleKind = 1
)

func (k RuleKind) String() string {
	if k == KindTimeSpecifier {
		return "time"
	}
	return "day"
}

func (k RuleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RuleKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "day", "0":
		*k = KindDaySpecifier
	case "time", "1":
		*k = KindTimeSpecifier
	default:
		return Invalid(ReasonInvalidRuleKind, "unknown rule kind %q", string(b))
	}
	return nil
}

// DaySpecifier repeats an event every week on the selected days.
type DaySpecifier struct {
	Days     []Weekday   `json:"days" yaml:"days"`
	Excluded []time.Time `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// Field widths of a time pattern.
const (
	YearWidth  = 4
	FieldWidth = 2
	// PatternWidth is the length of a serialised YYYYMMDDHHmm pattern.
	PatternWidth = YearWidth + 4*FieldWidth
)

// TimePattern is a YYYY MM DD HH mm pattern. Each field is digits or '*' repeated to its width.
type TimePattern struct {
	Year   string `json:"year" yaml:"year"`
	Month  string `json:"month" yaml:"month"`
	Day    string `json:"day" yaml:"day"`
	Hour   string `json:"hour" yaml:"hour"`
	Minute string `json:"minute" yaml:"minute"`
}

// String concatenates the fields into the 12-character wire form.
func (p TimePattern) String() string {
	return p.Year + p.Month + p.Day + p.Hour + p.Minute
}

// Fields returns the pattern fields in order with their names.
func (p TimePattern) Fields() []PatternField {
	return []PatternField{
		{Name: "year", Value: p.Year, Width: YearWidth},
		{Name: "month", Value: p.Month, Width: FieldWidth},
		{Name: "day", Value: p.Day, Width: FieldWidth},
		{Name: "hour", Value: p.Hour, Width: FieldWidth},
		{Name: "minute", Value: p.Minute, Width: FieldWidth},
	}
}

// HasWildcard reports whether any field contains '*'.
func (p TimePattern) HasWildcard() bool {
	return strings.Contains(p.String(), "*")
}

// PatternField is one named field of a TimePattern.
type PatternField struct {
	Name  string
	Value string
	Width int
}

// Wildcard reports whether the field is fully wildcard.
func (f PatternField) Wildcard() bool {
	return f.Value != "" && strings.Trim(f.Value, "*") == ""
}

// IsWildcard reports whether a raw field value consists only of '*'.
func IsWildcard(v string) bool {
	return v != "" && strings.Trim(v, "*") == ""
}

// TimeSpecifier repeats an event on every instant matching a wildcard pattern.
type TimeSpecifier struct {
	Pattern  TimePattern `json:"pattern" yaml:"pattern"`
	Excluded []time.Time `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// RecurrenceRule is a tagged variant: exactly one of Day or Time is set, as Kind says.
type RecurrenceRule struct {
	Kind RuleKind       `json:"kind" yaml:"kind"`
	Day  *DaySpecifier  `json:"day,omitempty" yaml:"day,omitempty"`
	Time *TimeSpecifier `json:"time,omitempty" yaml:"time,omitempty"`
}

// DayRule wraps a DaySpecifier.
func DayRule(spec DaySpecifier) RecurrenceRule {
	return RecurrenceRule{Kind: KindDaySpecifier, Day: &spec}
}

// TimeRule wraps a TimeSpecifier.
func TimeRule(spec TimeSpecifier) RecurrenceRule {
	return RecurrenceRule{Kind: KindTimeSpecifier, Time: &spec}
}

// Excluded returns the rule's excluded occurrence timestamps.
func (r RecurrenceRule) Excluded() []time.Time {
	switch {
	case r.Kind == KindDaySpecifier && r.Day != nil:
		return r.Day.Excluded
	case r.Kind == KindTimeSpecifier && r.Time != nil:
		return r.Time.Excluded
	}
	return nil
}
