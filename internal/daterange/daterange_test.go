package daterange

import (
	"testing"
	"time"

	"pcsolotto-backend/internal/apperr"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

// 2025-09-04 20:00 in Manila
var now = time.Date(2025, time.September, 4, 12, 0, 0, 0, time.UTC)

func requireValidation(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	require.Equal(t, message, apperr.MessageOf(err))
}

func TestNormalizeDefaults(t *testing.T) {
	r, err := Normalize(Input{}, now)
	require.NoError(t, err)
	require.Equal(t, "January 1, 2015", FormatHuman(r.Start))
	require.Equal(t, "September 4, 2025", FormatHuman(r.End))
	require.Equal(t, "pcso:results:2015-01-01:2025-09-04:game0", r.CacheKey())
}

func TestNormalizePartialSideDefaultsWholeSide(t *testing.T) {
	r, err := Normalize(Input{StartYear: ptr(2024)}, now)
	require.NoError(t, err)
	require.Equal(t, "January 1, 2015", FormatHuman(r.Start))
	require.Equal(t, "September 4, 2025", FormatHuman(r.End))

	r, err = Normalize(Input{
		StartMonth: ptr("March"), StartDay: ptr(3), StartYear: ptr(2020),
		EndMonth: ptr("March"), EndDay: ptr(3),
	}, now)
	require.NoError(t, err)
	require.Equal(t, "March 3, 2020", FormatHuman(r.Start))
	require.Equal(t, "September 4, 2025", FormatHuman(r.End))
}

func TestNormalizeTodayIsManila(t *testing.T) {
	// 2025-09-04 17:00 UTC is already September 5 in Manila
	late := time.Date(2025, time.September, 4, 17, 0, 0, 0, time.UTC)
	r, err := Normalize(Input{}, late)
	require.NoError(t, err)
	require.Equal(t, "September 5, 2025", FormatHuman(r.End))
}

func TestNormalizeMonthIsCaseInsensitive(t *testing.T) {
	r, err := Normalize(Input{
		StartMonth: ptr(" september "), StartDay: ptr(1), StartYear: ptr(2025),
		EndMonth: ptr("SEPTEMBER"), EndDay: ptr(4), EndYear: ptr(2025),
	}, now)
	require.NoError(t, err)
	require.Equal(t, "pcso:results:2025-09-01:2025-09-04:game0", r.CacheKey())
}

func TestNormalizeValidation(t *testing.T) {
	cases := []struct {
		name    string
		in      Input
		message string
	}{
		{
			name: "unknown month",
			in: Input{
				StartMonth: ptr("Septober"), StartDay: ptr(1), StartYear: ptr(2024),
			},
			message: "Invalid month name provided.",
		},
		{
			name: "february 30",
			in: Input{
				StartMonth: ptr("February"), StartDay: ptr(30), StartYear: ptr(2024),
			},
			message: "Invalid day for the given month/year.",
		},
		{
			name: "february 29 outside a leap year",
			in: Input{
				EndMonth: ptr("February"), EndDay: ptr(29), EndYear: ptr(2023),
			},
			message: "Invalid day for the given month/year.",
		},
		{
			name: "year before 2015",
			in: Input{
				StartMonth: ptr("January"), StartDay: ptr(1), StartYear: ptr(2014),
			},
			message: "Year must be between 2015 and 2025.",
		},
		{
			name: "year after this year",
			in: Input{
				EndMonth: ptr("January"), EndDay: ptr(1), EndYear: ptr(2026),
			},
			message: "Year must be between 2015 and 2025.",
		},
		{
			name: "end after today",
			in: Input{
				EndMonth: ptr("September"), EndDay: ptr(5), EndYear: ptr(2025),
			},
			message: "End date cannot be later than September 4, 2025 (today in Manila).",
		},
		{
			name: "start after end",
			in: Input{
				StartMonth: ptr("January"), StartDay: ptr(2), StartYear: ptr(2024),
				EndMonth: ptr("January"), EndDay: ptr(1), EndYear: ptr(2024),
			},
			message: "End date cannot be earlier than start date.",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Normalize(c.in, now)
			requireValidation(t, err, c.message)
		})
	}
}

func TestNormalizeLeapDay(t *testing.T) {
	r, err := Normalize(Input{
		StartMonth: ptr("February"), StartDay: ptr(29), StartYear: ptr(2024),
		EndMonth: ptr("February"), EndDay: ptr(29), EndYear: ptr(2024),
	}, now)
	require.NoError(t, err)
	require.True(t, r.Start.Equal(r.End))
}
