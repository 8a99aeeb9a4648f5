package recurrence

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/teambition/rrule-go"

	"building_scheduler/internal/models"
)

var rruleWeekdays = map[models.Weekday]rrule.Weekday{
	models.Monday:    rrule.MO,
	models.Tuesday:   rrule.TU,
	models.Wednesday: rrule.WE,
	models.Thursday:  rrule.TH,
	models.Friday:    rrule.FR,
	models.Saturday:  rrule.SA,
	models.Sunday:    rrule.SU,
}

// WeekStart returns the Monday 00:00 of the week containing day.
func WeekStart(day time.Time) time.Time {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -models.ColumnOf(d))
}

// IsWeekStart reports whether t is a Monday at midnight.
func IsWeekStart(t time.Time) bool {
	return t.Weekday() == time.Monday && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// OccursInWeek reports whether the rule can be active in the week starting weekStart.
// Day rules repeat every week; time rules need a date in the week matching the pattern's date fields.
func OccursInWeek(rule models.RecurrenceRule, weekStart time.Time) bool {
	switch rule.Kind {
	case models.KindDaySpecifier:
		return rule.Day != nil && len(rule.Day.Days) > 0
	case models.KindTimeSpecifier:
		if rule.Time == nil {
			return false
		}
		start := WeekStart(weekStart)
		for i := 0; i < models.DaysPerWeek; i++ {
			if matchesDate(rule.Time.Pattern, start.AddDate(0, 0, i)) {
				return true
			}
		}
	}
	return false
}

// Occurrences returns the concrete instants the rule contributes within the week, ascending,
// with excluded timestamps removed. trigger supplies the time of day wherever the rule does not.
func Occurrences(rule models.RecurrenceRule, trigger, weekStart time.Time) ([]time.Time, error) {
	start := WeekStart(weekStart)
	end := start.AddDate(0, 0, models.DaysPerWeek)

	var (
		set *rrule.Set
		err error
	)
	switch rule.Kind {
	case models.KindDaySpecifier:
		if rule.Day == nil {
			return nil, fmt.Errorf("day rule without specifier")
		}
		set, err = daySet(*rule.Day, trigger, start)
	case models.KindTimeSpecifier:
		if rule.Time == nil {
			return nil, fmt.Errorf("time rule without specifier")
		}
		set, err = timeSet(*rule.Time, trigger, start)
	default:
		return nil, fmt.Errorf("unknown rule kind %d", int(rule.Kind))
	}
	if err != nil {
		return nil, err
	}

	var out []time.Time
	for _, t := range set.Between(start, end, true) {
		if !t.Before(end) {
			continue
		}
		if rule.Kind == models.KindTimeSpecifier && !matchesYear(rule.Time.Pattern, t) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func daySet(spec models.DaySpecifier, trigger, weekStart time.Time) (*rrule.Set, error) {
	days := make([]rrule.Weekday, 0, len(spec.Days))
	for _, d := range spec.Days {
		wd, ok := rruleWeekdays[d]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", string(d))
		}
		days = append(days, wd)
	}
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   atClock(weekStart, trigger.Hour(), trigger.Minute()),
		Wkst:      rrule.MO,
		Byweekday: days,
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}
	return withExclusions(r, spec.Excluded), nil
}

func timeSet(spec models.TimeSpecifier, trigger, weekStart time.Time) (*rrule.Set, error) {
	p := spec.Pattern
	hour, minute := trigger.Hour(), trigger.Minute()
	if !models.IsWildcard(p.Hour) {
		v, err := strconv.Atoi(p.Hour)
		if err != nil {
			return nil, &models.ParseError{Field: "hour", Value: p.Hour, Err: err}
		}
		hour = v
	}
	if !models.IsWildcard(p.Minute) {
		v, err := strconv.Atoi(p.Minute)
		if err != nil {
			return nil, &models.ParseError{Field: "minute", Value: p.Minute, Err: err}
		}
		minute = v
	}

	opt := rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: atClock(weekStart, hour, minute),
	}
	if !models.IsWildcard(p.Month) {
		v, err := strconv.Atoi(p.Month)
		if err != nil {
			return nil, &models.ParseError{Field: "month", Value: p.Month, Err: err}
		}
		opt.Bymonth = []int{v}
	}
	if !models.IsWildcard(p.Day) {
		v, err := strconv.Atoi(p.Day)
		if err != nil {
			return nil, &models.ParseError{Field: "day", Value: p.Day, Err: err}
		}
		opt.Bymonthday = []int{v}
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build daily rule: %w", err)
	}
	return withExclusions(r, spec.Excluded), nil
}

func withExclusions(r *rrule.RRule, excluded []time.Time) *rrule.Set {
	set := &rrule.Set{}
	set.RRule(r)
	for _, ex := range excluded {
		set.ExDate(Minute(ex))
	}
	return set
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func matchesDate(p models.TimePattern, day time.Time) bool {
	return matchesYear(p, day) &&
		fieldMatches(p.Month, int(day.Month())) &&
		fieldMatches(p.Day, day.Day())
}

func matchesYear(p models.TimePattern, t time.Time) bool {
	return fieldMatches(p.Year, t.Year())
}

func fieldMatches(field string, value int) bool {
	if models.IsWildcard(field) {
		return true
	}
	v, err := strconv.Atoi(field)
	return err == nil && v == value
}
