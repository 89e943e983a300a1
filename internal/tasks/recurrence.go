package tasks

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// RecurrenceType is the calendar unit a recurring task advances by.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// ParseRecurrenceType accepts any casing and surrounding whitespace.
func ParseRecurrenceType(s string) (RecurrenceType, error) {
	t := RecurrenceType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRecurrenceType, s)
}

// RecurrenceRule describes how a task repeats.
type RecurrenceRule struct {
	Type RecurrenceType `json:"type"`
	// Interval defaults to 1 when zero.
	Interval int `json:"interval,omitempty"`
	// DaysOfWeek uses time.Weekday numbering (0 = Sunday). Weekly rules only.
	DaysOfWeek      []int      `json:"days_of_week,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	OccurrenceLimit *int       `json:"occurrence_limit,omitempty"`
}

// Validate reports the first configuration problem of the rule.
func (r RecurrenceRule) Validate() error {
	switch r.Type {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRecurrenceType, r.Type)
	}
	if r.Interval < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.Interval)
	}
	for _, day := range r.DaysOfWeek {
		if day < 0 || day > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, day)
		}
	}
	if r.OccurrenceLimit != nil && *r.OccurrenceLimit <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOccurrenceLimit, *r.OccurrenceLimit)
	}
	return nil
}

func (r RecurrenceRule) interval() int {
	if r.Interval <= 0 {
		return 1
	}
	return r.Interval
}

// weekdays returns the configured days sorted and de-duplicated, leaving
// r.DaysOfWeek untouched.
func (r RecurrenceRule) weekdays() []int {
	days := slices.Clone(r.DaysOfWeek)
	slices.Sort(days)
	return slices.Compact(days)
}

func (r RecurrenceRule) clone() *RecurrenceRule {
	c := r
	c.DaysOfWeek = slices.Clone(r.DaysOfWeek)
	c.EndDate = clonePtr(r.EndDate)
	c.OccurrenceLimit = clonePtr(r.OccurrenceLimit)
	return &c
}

// Advance returns the due date following from.
//
// Weekly rules with DaysOfWeek move to the next configured weekday after
// from's weekday in the same week. Past the last configured day they wrap to
// the first configured day of the week Interval weeks later (weeks start on
// Sunday). Monthly and yearly steps keep the day of month, clamped to the
// last day of a shorter month.
func Advance(rule RecurrenceRule, from time.Time) (time.Time, error) {
	if err := rule.Validate(); err != nil {
		return time.Time{}, err
	}

	interval := rule.interval()
	switch rule.Type {
	case RecurrenceDaily:
		return from.AddDate(0, 0, interval), nil
	case RecurrenceWeekly:
		days := rule.weekdays()
		if len(days) == 0 {
			return from.AddDate(0, 0, 7*interval), nil
		}
		return nextWeekday(from, days, interval), nil
	case RecurrenceMonthly:
		return addMonthsClamped(from, interval), nil
	case RecurrenceYearly:
		return addMonthsClamped(from, 12*interval), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownRecurrenceType, rule.Type)
}

func nextWeekday(from time.Time, days []int, interval int) time.Time {
	current := int(from.Weekday())
	for _, day := range days {
		if day > current {
			return from.AddDate(0, 0, day-current)
		}
	}
	return from.AddDate(0, 0, 7*interval-current+days[0])
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, minute, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, hour, minute, sec, t.Nanosecond(), t.Location())
	if last := daysIn(firstOfTarget); day > last {
		day = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, minute, sec, t.Nanosecond(), t.Location())
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
