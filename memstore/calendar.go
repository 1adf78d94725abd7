package memstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
	"github.com/arloliu/fameport/store"
)

// Calendar implements store.Calendar.
//
// Daily indices count days since 1970-01-01. Business indices count
// weekdays, with index 0 on Monday 1969-12-29. Weekly indices count weeks
// ending on the frequency's weekday, with index 0 the first such week ending
// on or after 1970-01-01. Month-based indices are year*periodsPerYear plus
// the period within the year, and intraday indices count periods since the
// Unix epoch.
type Calendar struct{}

var _ store.Calendar = Calendar{}

const (
	secondsPerDay = 24 * 60 * 60
	// epochWeekday is the weekday of daily index 0.
	epochWeekday = time.Thursday
	minYear      = 1
	maxYear      = 9999
)

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func dayOf(t time.Time) int64 {
	return floorDiv(t.UTC().Unix(), secondsPerDay)
}

func dayTime(day int64) time.Time {
	return time.Unix(day*secondsPerDay, 0).UTC()
}

func dateDay(year int, month time.Month, day int) int64 {
	return dayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// monthPeriods describes the month-based frequencies: how many months one
// period spans, or how many periods split one month.
type monthPeriods struct {
	months   int
	perMonth int
}

var monthBased = map[format.Frequency]monthPeriods{
	format.FreqAnnualDec:     {months: 12, perMonth: 1},
	format.FreqSemiannualDec: {months: 6, perMonth: 1},
	format.FreqQuarterlyDec:  {months: 3, perMonth: 1},
	format.FreqMonthly:       {months: 1, perMonth: 1},
	format.FreqTwiceMonthly:  {months: 1, perMonth: 2},
	format.FreqTenDay:        {months: 1, perMonth: 3},
}

var intradayUnits = map[format.Frequency]time.Duration{
	format.FreqHour:        time.Hour,
	format.FreqMinute:      time.Minute,
	format.FreqSecond:      time.Second,
	format.FreqMillisecond: time.Millisecond,
}

func (p monthPeriods) perYear() int64 {
	return int64(12 / p.months * p.perMonth)
}

// subPeriod returns which part of its month day falls in.
func (p monthPeriods) subPeriod(day int) int64 {
	switch p.perMonth {
	case 2:
		if day > 15 {
			return 1
		}
	case 3:
		return int64(min((day-1)/10, 2))
	}

	return 0
}

func (p monthPeriods) index(t time.Time) int64 {
	y, m, d := t.Date()
	monthInYear := int64(m-1) / int64(p.months)

	return int64(y)*p.perYear() + monthInYear*int64(p.perMonth) + p.subPeriod(d)
}

// bounds returns the first and last day of period index.
func (p monthPeriods) bounds(index int64) (int64, int64) {
	year := floorDiv(index, p.perYear())
	within := floorMod(index, p.perYear())
	month := time.Month(within/int64(p.perMonth)*int64(p.months) + 1)
	sub := within % int64(p.perMonth)

	if p.perMonth == 1 {
		first := dateDay(int(year), month, 1)
		last := dateDay(int(year), month+time.Month(p.months), 0)

		return first, last
	}

	monthEnd := dateDay(int(year), month+1, 0)
	daysPer := int64(15)
	if p.perMonth == 3 {
		daysPer = 10
	}
	first := dateDay(int(year), month, 1) + sub*daysPer
	last := first + daysPer - 1
	if sub == int64(p.perMonth)-1 {
		last = monthEnd
	}

	return first, last
}

func weeklyEnd(freq format.Frequency) (time.Weekday, bool) {
	if freq < format.FreqWeeklySunday || freq > format.FreqWeeklySaturday {
		return 0, false
	}

	return time.Weekday(freq - format.FreqWeeklySunday), true
}

// weeklyRef is the daily index of the first period end on or after day 0.
func weeklyRef(end time.Weekday) int64 {
	return floorMod(int64(end)-int64(epochWeekday), 7)
}

func checkYear(t time.Time) error {
	if y := t.Year(); y < minYear || y > maxYear {
		return fmt.Errorf("%w: year %d", errs.ErrDateOutOfRange, y)
	}

	return nil
}

// TimeToIndex converts t to the index of the period of freq containing it.
// Business days have gaps: under format.PolicyContinue a weekend time moves
// to the following Monday, under format.PolicyStrict it is an error.
func (Calendar) TimeToIndex(freq format.Frequency, t time.Time, policy format.TimePolicy) (int64, error) {
	t = t.UTC()
	if err := checkYear(t); err != nil {
		return 0, err
	}

	if unit, ok := intradayUnits[freq]; ok {
		return floorDiv(t.UnixMilli(), int64(unit/time.Millisecond)), nil
	}
	if p, ok := monthBased[freq]; ok {
		return p.index(t), nil
	}
	if end, ok := weeklyEnd(freq); ok {
		day := dayOf(t)
		ref := weeklyRef(end)
		periodEnd := day + floorMod(ref-day, 7)

		return floorDiv(periodEnd-ref, 7), nil
	}

	switch freq { //nolint:exhaustive
	case format.FreqDaily:
		return dayOf(t), nil
	case format.FreqBusiness:
		d := dayOf(t) + 3
		week, wd := floorDiv(d, 7), floorMod(d, 7)
		if wd < 5 {
			return week*5 + wd, nil
		}
		if policy == format.PolicyStrict {
			return 0, fmt.Errorf("%w: %s is not a business day", errs.ErrOffGrid, t.Format(time.DateOnly))
		}

		return (week + 1) * 5, nil
	default:
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidFrequency, freq)
	}
}

// periodDays returns the first and last daily index of a period.
func periodDays(freq format.Frequency, index int64) (int64, int64, error) {
	if unit, ok := intradayUnits[freq]; ok {
		start := time.UnixMilli(index * int64(unit/time.Millisecond)).UTC()
		day := dayOf(start)

		return day, day, nil
	}
	if p, ok := monthBased[freq]; ok {
		first, last := p.bounds(index)
		return first, last, nil
	}
	if end, ok := weeklyEnd(freq); ok {
		last := weeklyRef(end) + 7*index
		return last - 6, last, nil
	}

	switch freq { //nolint:exhaustive
	case format.FreqDaily:
		return index, index, nil
	case format.FreqBusiness:
		day := floorDiv(index, 5)*7 + floorMod(index, 5) - 3
		return day, day, nil
	default:
		return 0, 0, fmt.Errorf("%w: %s", errs.ErrInvalidFrequency, freq)
	}
}

// IndexToDaily returns the daily index of the first or last day of a period.
func (Calendar) IndexToDaily(freq format.Frequency, index int64, endpoint format.Endpoint) (int64, error) {
	first, last, err := periodDays(freq, index)
	if err != nil {
		return 0, err
	}

	day := last
	if endpoint == format.BeginningOfPeriod {
		day = first
	}
	if err := checkYear(dayTime(day)); err != nil {
		return 0, err
	}

	return day, nil
}

// DecodeDaily splits a daily index into its calendar date.
func (Calendar) DecodeDaily(daily int64) (int, time.Month, int, error) {
	t := dayTime(daily)
	if err := checkYear(t); err != nil {
		return 0, 0, 0, err
	}

	y, m, d := t.Date()

	return y, m, d, nil
}

// DecodeTime returns the instant a period starts at.
func (Calendar) DecodeTime(freq format.Frequency, index int64) (time.Time, error) {
	if unit, ok := intradayUnits[freq]; ok {
		t := time.UnixMilli(index * int64(unit/time.Millisecond)).UTC()
		if err := checkYear(t); err != nil {
			return time.Time{}, err
		}

		return t, nil
	}

	first, _, err := periodDays(freq, index)
	if err != nil {
		return time.Time{}, err
	}
	t := dayTime(first)
	if err := checkYear(t); err != nil {
		return time.Time{}, err
	}

	return t, nil
}

var monthAbbrev = [...]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// DateLiteral renders a period as a date literal left-aligned in a field of
// width characters. Decimal style uses numbers separated by colons
// ("2020:03", "2020:03:31"); otherwise periods are lettered ("2020M3",
// "31MAR2020"). Every supported annual-type frequency ends in December, so
// the fiscal year setting never changes the year shown.
func (c Calendar) DateLiteral(freq format.Frequency, index int64, style format.DateStyle, width int) (string, error) {
	literal, err := c.literal(freq, index, style)
	if err != nil {
		return "", err
	}
	if len(literal) > width {
		return "", fmt.Errorf("%w: literal %q exceeds width %d", errs.ErrTruncated, literal, width)
	}

	return literal + strings.Repeat(" ", width-len(literal)), nil
}

func (c Calendar) literal(freq format.Frequency, index int64, style format.DateStyle) (string, error) {
	if freq == format.FreqCase {
		return strconv.FormatInt(index, 10), nil
	}

	if p, ok := monthBased[freq]; ok {
		first, _ := p.bounds(index)
		t := dayTime(first)
		if err := checkYear(t); err != nil {
			return "", err
		}
		year := t.Year()
		within := floorMod(index, p.perYear())

		switch {
		case p.months == 12:
			return strconv.Itoa(year), nil
		case p.months > 1:
			letter := "Q"
			if p.months == 6 {
				letter = "S"
			}
			if style.Decimal {
				return fmt.Sprintf("%d:%d", year, within+1), nil
			}

			return fmt.Sprintf("%d%s%d", year, letter, within+1), nil
		case p.perMonth == 1:
			if style.Decimal {
				return fmt.Sprintf("%d:%02d", year, t.Month()), nil
			}

			return fmt.Sprintf("%d%s%d", year, "M", t.Month()), nil
		default:
			return fmt.Sprintf("%d:%02d:%d", year, t.Month(), within%int64(p.perMonth)+1), nil
		}
	}

	daily, err := c.IndexToDaily(freq, index, format.EndOfPeriod)
	if err != nil {
		return "", err
	}
	y, m, d, err := c.DecodeDaily(daily)
	if err != nil {
		return "", err
	}

	var date string
	if style.Decimal {
		date = fmt.Sprintf("%d:%02d:%02d", y, m, d)
	} else {
		date = fmt.Sprintf("%02d%s%d", d, monthAbbrev[m-1], y)
	}

	unit, intraday := intradayUnits[freq]
	if !intraday {
		return date, nil
	}

	t, err := c.DecodeTime(freq, index)
	if err != nil {
		return "", err
	}
	switch unit {
	case time.Hour:
		return fmt.Sprintf("%s %02d:00", date, t.Hour()), nil
	case time.Minute:
		return date + t.Format(" 15:04"), nil
	case time.Second:
		return date + t.Format(" 15:04:05"), nil
	default:
		return date + t.Format(" 15:04:05.000"), nil
	}
}

var typeLabels = map[format.DataType]string{
	format.TypeUndefined: "UNDEFINED",
	format.TypeNumeric:   "NUMERIC",
	format.TypeNameList:  "NAMELIST",
	format.TypeBoolean:   "BOOLEAN",
	format.TypeString:    "STRING",
	format.TypePrecision: "PRECISION",
}

var frequencyLabels = map[format.Frequency]string{
	format.FreqDaily:           "DAILY",
	format.FreqBusiness:        "BUSINESS",
	format.FreqWeeklySunday:    "WEEKLY(SUNDAY)",
	format.FreqWeeklyMonday:    "WEEKLY(MONDAY)",
	format.FreqWeeklyTuesday:   "WEEKLY(TUESDAY)",
	format.FreqWeeklyWednesday: "WEEKLY(WEDNESDAY)",
	format.FreqWeeklyThursday:  "WEEKLY(THURSDAY)",
	format.FreqWeeklyFriday:    "WEEKLY(FRIDAY)",
	format.FreqWeeklySaturday:  "WEEKLY(SATURDAY)",
	format.FreqTenDay:          "TENDAY",
	format.FreqTwiceMonthly:    "TWICEMONTHLY",
	format.FreqMonthly:         "MONTHLY",
	format.FreqQuarterlyDec:    "QUARTERLY(DECEMBER)",
	format.FreqSemiannualDec:   "SEMIANNUAL(DECEMBER)",
	format.FreqAnnualDec:       "ANNUAL(DECEMBER)",
	format.FreqMillisecond:     "MILLISECONDLY",
	format.FreqSecond:          "SECONDLY",
	format.FreqMinute:          "MINUTELY",
	format.FreqHour:            "HOURLY",
}

// TypeLabel returns the base name of a type code. Date types are named after
// their frequency.
func (Calendar) TypeLabel(t format.DataType) (string, error) {
	if t.IsDate() {
		if label, ok := frequencyLabels[t.Frequency()]; ok {
			return label, nil
		}
	} else if label, ok := typeLabels[t]; ok {
		return label, nil
	}

	return "", fmt.Errorf("%w: type code %d", errs.ErrUnsupportedType, int32(t))
}
