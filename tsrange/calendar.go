package tsrange

import (
	"fmt"
	"time"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/registry"
)

// stepper walks the period ends of one host frequency.
type stepper interface {
	// rollForward returns the first period end on or after t.
	rollForward(t time.Time) time.Time
	// next returns the period end following t, which must be on offset.
	next(t time.Time) time.Time
	onOffset(t time.Time) bool
}

func stepperFor(freq registry.HostFreq) (stepper, error) {
	switch freq {
	case registry.Annual:
		return monthEndStepper{months: 12, anchor: time.December}, nil
	case registry.Quarterly:
		return monthEndStepper{months: 3, anchor: time.December}, nil
	case registry.Monthly:
		return monthEndStepper{months: 1, anchor: time.December}, nil
	case registry.WeeklyFriday:
		return weeklyStepper{weekday: time.Friday}, nil
	case registry.Business:
		return businessStepper{}, nil
	case registry.Daily:
		return fixedStepper{d: 24 * time.Hour}, nil
	case registry.Hourly:
		return fixedStepper{d: time.Hour, intraday: true}, nil
	case registry.Minutely:
		return fixedStepper{d: time.Minute, intraday: true}, nil
	case registry.Secondly:
		return fixedStepper{d: time.Second, intraday: true}, nil
	case registry.Millisecondly:
		return fixedStepper{d: time.Millisecond, intraday: true}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrUnsupportedFrequency, string(freq))
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthEnd(year int, month time.Month) time.Time {
	// day 0 of the following month is the last day of month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// monthEndStepper steps over month ends every months months, aligned so that
// anchor is one of the period-ending months.
type monthEndStepper struct {
	months int
	anchor time.Month
}

func (s monthEndStepper) aligned(m time.Month) bool {
	return (int(m)-int(s.anchor)+12)%s.months == 0
}

func (s monthEndStepper) rollForward(t time.Time) time.Time {
	t = midnight(t)
	y, m := t.Year(), t.Month()
	for !s.aligned(m) {
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	end := monthEnd(y, m)
	if end.Before(t) {
		return monthEnd(y, m+time.Month(s.months))
	}

	return end
}

func (s monthEndStepper) next(t time.Time) time.Time {
	return monthEnd(t.Year(), t.Month()+time.Month(s.months))
}

func (s monthEndStepper) onOffset(t time.Time) bool {
	return t.Equal(midnight(t)) && s.aligned(t.Month()) && t.Equal(monthEnd(t.Year(), t.Month()))
}

type weeklyStepper struct {
	weekday time.Weekday
}

func (s weeklyStepper) rollForward(t time.Time) time.Time {
	t = midnight(t)
	shift := (int(s.weekday) - int(t.Weekday()) + 7) % 7

	return t.AddDate(0, 0, shift)
}

func (s weeklyStepper) next(t time.Time) time.Time {
	return t.AddDate(0, 0, 7)
}

func (s weeklyStepper) onOffset(t time.Time) bool {
	return t.Equal(midnight(t)) && t.Weekday() == s.weekday
}

type businessStepper struct{}

func (businessStepper) rollForward(t time.Time) time.Time {
	t = midnight(t)
	switch t.Weekday() { //nolint: exhaustive
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t
	}
}

func (s businessStepper) next(t time.Time) time.Time {
	return s.rollForward(t.AddDate(0, 0, 1))
}

func (businessStepper) onOffset(t time.Time) bool {
	wd := t.Weekday()
	return t.Equal(midnight(t)) && wd != time.Saturday && wd != time.Sunday
}

// fixedStepper steps by a constant duration. Daily steps are anchored at
// midnight; intraday steps start wherever the range starts.
type fixedStepper struct {
	d        time.Duration
	intraday bool
}

func (s fixedStepper) rollForward(t time.Time) time.Time {
	if s.intraday {
		rolled := t.Truncate(s.d)
		if rolled.Before(t) {
			rolled = rolled.Add(s.d)
		}

		return rolled
	}

	m := midnight(t)
	if m.Before(t) {
		return m.AddDate(0, 0, 1)
	}

	return m
}

func (s fixedStepper) next(t time.Time) time.Time {
	if s.intraday {
		return t.Add(s.d)
	}

	return t.AddDate(0, 0, 1)
}

func (s fixedStepper) onOffset(t time.Time) bool {
	if s.intraday {
		return t.Equal(t.Truncate(s.d))
	}

	return t.Equal(midnight(t))
}
