package column

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		format, sep int
		want        string
	}{
		{DateJUL, 0, "23/064"},
		{DateMDY, 1, "03-05-23"},
		{DateDMY, 2, "05.03.23"},
		{DateYMD, 4, "23 03 05"},
		{DateUSA, 1, "03/05/2023"},
		{DateISO, 0, "2023-03-05"},
		{DateEUR, 0, "05.03.2023"},
		{DateJIS, 0, "2023-03-05"},
	}
	for _, tc := range cases {
		s := FormatDate(d, tc.format, tc.sep)
		assert.Equal(t, tc.want, s)
		assert.Len(t, s, DateLength(tc.format))

		back, err := ParseDate(s, tc.format, time.UTC)
		require.NoError(t, err, s)
		assert.Equal(t, d, back, s)
	}
}

func TestTwoDigitYearWindow(t *testing.T) {
	d, err := ParseDate("12/31/39", DateMDY, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2039, d.Year())

	d, err = ParseDate("01/01/40", DateMDY, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1940, d.Year())
}

func TestParseDateErrors(t *testing.T) {
	for _, s := range []string{"2023-02-30", "2023-13-01", "20x3-01-01", "2023-1-1"} {
		_, err := ParseDate(s, DateISO, time.UTC)
		assert.True(t, common.IsDataTypeMismatch(err), s)
	}
}

func TestFormatTime(t *testing.T) {
	tm := time.Date(1970, 1, 1, 0, 5, 9, 0, time.UTC)
	assert.Equal(t, "00:05:09", FormatTime(tm, TimeHMS, 0))
	assert.Equal(t, "00 05 09", FormatTime(tm, TimeHMS, 3))
	assert.Equal(t, "12:05 AM", FormatTime(tm, TimeUSA, 0))
	assert.Equal(t, "00.05.09", FormatTime(tm, TimeISO, 0))
	assert.Equal(t, "00.05.09", FormatTime(tm, TimeEUR, 0))
	assert.Equal(t, "00:05:09", FormatTime(tm, TimeJIS, 0))

	back, err := ParseTime("12:05 AM", TimeUSA, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, back.Hour())

	_, err = ParseTime("25:00:00", TimeJIS, time.UTC)
	assert.True(t, common.IsDataTypeMismatch(err))
}

func TestParseTimeHour24(t *testing.T) {
	midnight, err := ParseTime("24:00:00", TimeJIS, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), midnight)

	for _, s := range []string{"24:30:00", "24:00:01", "24.59.59", "13:00 AM", "13:00 PM"} {
		t.Run(s, func(t *testing.T) {
			format := TimeJIS
			if strings.HasSuffix(s, "M") {
				format = TimeUSA
			}
			_, err := ParseTime(s, format, time.UTC)
			assert.True(t, common.IsDataTypeMismatch(err))
		})
	}
}

func TestTimestampStrings(t *testing.T) {
	ts := time.Date(2023, 3, 5, 14, 7, 9, 123456000, time.UTC)
	assert.Equal(t, "2023-03-05-14.07.09.123456", FormatTimestampWire(ts))
	assert.Equal(t, "2023-03-05 14:07:09.123456", FormatTimestamp(ts))

	for _, s := range []string{
		"2023-03-05-14.07.09.123456",
		"2023-03-05 14:07:09.123456",
		"2023-03-05 14:07:09.123456000",
	} {
		got, err := ParseTimestamp(s, time.UTC)
		require.NoError(t, err, s)
		assert.Equal(t, ts, got, s)
	}

	got, err := ParseTimestamp("2023-03-05 14:07:09.5", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 500000000, got.Nanosecond())

	got, err = ParseTimestamp("2023-03-05", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())

	_, err = ParseTimestamp("2023-03-05T14", time.UTC)
	assert.True(t, common.IsDataTypeMismatch(err))
}

func TestFormatCodes(t *testing.T) {
	code, ok := DateFormatCode("EUR")
	assert.True(t, ok)
	assert.Equal(t, DateEUR, code)
	_, ok = DateFormatCode("xyz")
	assert.False(t, ok)

	code, ok = TimeFormatCode("usa")
	assert.True(t, ok)
	assert.Equal(t, TimeUSA, code)

	code, ok = DateSeparatorCode(".")
	assert.True(t, ok)
	assert.Equal(t, 2, code)
	code, ok = TimeSeparatorCode(",")
	assert.True(t, ok)
	assert.Equal(t, 2, code)
}
