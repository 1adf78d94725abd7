package memstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fameport/errs"
	"github.com/arloliu/fameport/format"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_TimeToIndex(t *testing.T) {
	cal := Calendar{}

	tests := []struct {
		name string
		freq format.Frequency
		t    time.Time
		want int64
	}{
		{"daily epoch", format.FreqDaily, date(1970, 1, 1), 0},
		{"daily before epoch", format.FreqDaily, date(1969, 12, 31), -1},
		{"business monday", format.FreqBusiness, date(1969, 12, 29), 0},
		{"business thursday", format.FreqBusiness, date(1970, 1, 1), 3},
		{"business next monday", format.FreqBusiness, date(1970, 1, 5), 5},
		{"business saturday continues", format.FreqBusiness, date(1970, 1, 3), 5},
		{"weekly friday end", format.FreqWeeklyFriday, date(1970, 1, 2), 0},
		{"weekly friday inside", format.FreqWeeklyFriday, date(1970, 1, 6), 1},
		{"monthly", format.FreqMonthly, date(2020, 1, 15), 2020 * 12},
		{"monthly march", format.FreqMonthly, date(2020, 3, 31), 2020*12 + 2},
		{"quarterly", format.FreqQuarterlyDec, date(2020, 5, 1), 2020*4 + 1},
		{"semiannual", format.FreqSemiannualDec, date(2020, 7, 1), 2020*2 + 1},
		{"annual", format.FreqAnnualDec, date(2020, 12, 31), 2020},
		{"twice monthly first half", format.FreqTwiceMonthly, date(2020, 2, 15), 2020*24 + 2},
		{"twice monthly second half", format.FreqTwiceMonthly, date(2020, 2, 16), 2020*24 + 3},
		{"ten day last third", format.FreqTenDay, date(2020, 1, 31), 2020*36 + 2},
		{"hour", format.FreqHour, time.Date(1970, 1, 2, 3, 30, 0, 0, time.UTC), 27},
		{"minute", format.FreqMinute, time.Date(1970, 1, 1, 1, 2, 59, 0, time.UTC), 62},
		{"second", format.FreqSecond, time.Date(1970, 1, 1, 0, 0, 10, 0, time.UTC), 10},
		{"millisecond", format.FreqMillisecond, time.Date(1970, 1, 1, 0, 0, 1, 5e6, time.UTC), 1005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.TimeToIndex(tt.freq, tt.t, format.PolicyContinue)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCalendar_TimeToIndex_Errors(t *testing.T) {
	cal := Calendar{}

	_, err := cal.TimeToIndex(format.FreqBusiness, date(1970, 1, 3), format.PolicyStrict)
	require.ErrorIs(t, err, errs.ErrOffGrid)

	_, err = cal.TimeToIndex(format.Frequency(999), date(2020, 1, 1), format.PolicyContinue)
	require.ErrorIs(t, err, errs.ErrInvalidFrequency)

	_, err = cal.TimeToIndex(format.FreqDaily, date(10000, 1, 1), format.PolicyContinue)
	require.ErrorIs(t, err, errs.ErrDateOutOfRange)
}

func TestCalendar_RoundTrip(t *testing.T) {
	cal := Calendar{}
	start := date(2019, 12, 30)

	for _, freq := range format.Frequencies() {
		if freq == format.FreqCase {
			continue
		}
		t.Run(freq.String(), func(t *testing.T) {
			first, err := cal.TimeToIndex(freq, start, format.PolicyContinue)
			require.NoError(t, err)

			for idx := first; idx < first+40; idx++ {
				begin, err := cal.DecodeTime(freq, idx)
				require.NoError(t, err)

				back, err := cal.TimeToIndex(freq, begin, format.PolicyStrict)
				require.NoError(t, err)
				require.Equal(t, idx, back, "period start %s", begin)

				lo, err := cal.IndexToDaily(freq, idx, format.BeginningOfPeriod)
				require.NoError(t, err)
				hi, err := cal.IndexToDaily(freq, idx, format.EndOfPeriod)
				require.NoError(t, err)
				require.LessOrEqual(t, lo, hi)
			}
		})
	}
}

func TestCalendar_IndexToDaily(t *testing.T) {
	cal := Calendar{}
	month := int64(2020*12 + 1)

	first, err := cal.IndexToDaily(format.FreqMonthly, month, format.BeginningOfPeriod)
	require.NoError(t, err)
	last, err := cal.IndexToDaily(format.FreqMonthly, month, format.EndOfPeriod)
	require.NoError(t, err)

	y, m, d, err := cal.DecodeDaily(first)
	require.NoError(t, err)
	require.Equal(t, []int{2020, 2, 1}, []int{y, int(m), d})

	y, m, d, err = cal.DecodeDaily(last)
	require.NoError(t, err)
	require.Equal(t, []int{2020, 2, 29}, []int{y, int(m), d})

	_, err = cal.IndexToDaily(format.FreqCase, 1, format.EndOfPeriod)
	require.ErrorIs(t, err, errs.ErrInvalidFrequency)
}

func TestCalendar_DateLiteral(t *testing.T) {
	cal := Calendar{}
	decimal := format.DateStyle{Decimal: true}
	lettered := format.DateStyle{}
	hour := time.Date(2020, 3, 31, 13, 0, 0, 0, time.UTC).Unix() / 3600

	tests := []struct {
		name  string
		freq  format.Frequency
		index int64
		style format.DateStyle
		want  string
	}{
		{"case", format.FreqCase, 7, decimal, "7"},
		{"annual", format.FreqAnnualDec, 2020, decimal, "2020"},
		{"quarterly decimal", format.FreqQuarterlyDec, 2020*4 + 2, decimal, "2020:3"},
		{"quarterly lettered", format.FreqQuarterlyDec, 2020*4 + 2, lettered, "2020Q3"},
		{"semiannual lettered", format.FreqSemiannualDec, 2020 * 2, lettered, "2020S1"},
		{"monthly decimal", format.FreqMonthly, 2020*12 + 2, decimal, "2020:03"},
		{"monthly lettered", format.FreqMonthly, 2020*12 + 2, lettered, "2020M3"},
		{"twice monthly", format.FreqTwiceMonthly, 2020*24 + 1, decimal, "2020:01:2"},
		{"daily decimal", format.FreqDaily, dateDay(2020, 3, 31), decimal, "2020:03:31"},
		{"daily lettered", format.FreqDaily, dateDay(2020, 3, 31), lettered, "31MAR2020"},
		{"hourly", format.FreqHour, hour, decimal, "2020:03:31 13:00"},
		{"minutely", format.FreqMinute, hour*60 + 45, decimal, "2020:03:31 13:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.DateLiteral(tt.freq, tt.index, tt.style, 20)
			require.NoError(t, err)
			require.Len(t, got, 20)
			require.Equal(t, tt.want, got[:len(tt.want)])
		})
	}

	_, err := cal.DateLiteral(format.FreqDaily, 0, decimal, 4)
	require.ErrorIs(t, err, errs.ErrTruncated)
}

func TestCalendar_TypeLabel(t *testing.T) {
	cal := Calendar{}

	tests := []struct {
		t    format.DataType
		want string
	}{
		{format.TypeNumeric, "NUMERIC"},
		{format.TypePrecision, "PRECISION"},
		{format.TypeNameList, "NAMELIST"},
		{format.DateType(format.FreqMonthly), "MONTHLY"},
		{format.DateType(format.FreqWeeklyFriday), "WEEKLY(FRIDAY)"},
		{format.DateType(format.FreqAnnualDec), "ANNUAL(DECEMBER)"},
	}
	for _, tt := range tests {
		got, err := cal.TypeLabel(tt.t)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := cal.TypeLabel(format.DataType(7))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}
