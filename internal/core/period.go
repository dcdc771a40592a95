package core

import (
	"errors"
	"time"
)

const (
	PeriodAll       PeriodSelector = "all"
	PeriodToday     PeriodSelector = "today"
	PeriodThisWeek  PeriodSelector = "week"
	PeriodThisMonth PeriodSelector = "month"
	PeriodCustom    PeriodSelector = "custom"
)

type (
	PeriodSelector string

	// Period is a time window selector. Start and End are only
	// meaningful for PeriodCustom and are inclusive on both ends.
	Period struct {
		Selector PeriodSelector
		Start    time.Time
		End      time.Time
	}
)

var ErrInvalidPeriod = errors.New("invalid period selector")

func (s PeriodSelector) Validate() error {
	switch s {
	case PeriodAll, PeriodToday, PeriodThisWeek, PeriodThisMonth, PeriodCustom:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// dayUTC truncates an instant to day granularity in UTC. Every period
// comparison goes through this normalization so that records never drift
// across a day boundary with the client timezone.
func dayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Matches reports whether a dated record falls inside the period window
// relative to the reference instant now. Comparison is on the UTC date
// component. Weeks start on Sunday and run 7 days inclusive. A custom
// period with either bound missing matches everything; that permissive
// fallback is deliberate, not an accident of parsing.
func (p Period) Matches(recordDate, now time.Time) bool {
	if p.Selector == PeriodAll || p.Selector == "" {
		return true
	}

	record := dayUTC(recordDate)
	today := dayUTC(now)

	switch p.Selector {
	case PeriodToday:
		return record.Equal(today)
	case PeriodThisWeek:
		weekStart := today.AddDate(0, 0, -int(today.Weekday()))
		weekEnd := weekStart.AddDate(0, 0, 6)
		return !record.Before(weekStart) && !record.After(weekEnd)
	case PeriodThisMonth:
		return record.Year() == today.Year() && record.Month() == today.Month()
	case PeriodCustom:
		if p.Start.IsZero() || p.End.IsZero() {
			return true
		}
		start := dayUTC(p.Start)
		end := dayUTC(p.End)
		return !record.Before(start) && !record.After(end)
	default:
		return true
	}
}
