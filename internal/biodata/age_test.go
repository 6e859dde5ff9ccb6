package biodata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAgeDayFirst(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// 15 Aug 1995 to 1 Jan 2024 is 28 completed years: the reference
	// date falls before the August birthday.
	assert.Equal(t, "28", CalculateAgeAt("15/08/1995", now))
	assert.Equal(t, "28", CalculateAgeAt("15-08-1995", now))
	assert.Equal(t, "28", CalculateAgeAt("15.08.1995", now))
}

func TestCalculateAgeOnBirthday(t *testing.T) {
	now := time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "29", CalculateAgeAt("15/08/1995", now))

	dayBefore := time.Date(2024, time.August, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "28", CalculateAgeAt("15/08/1995", dayBefore))
}

func TestCalculateAgeOrdinalsAndText(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "31", CalculateAgeAt("5th June 1992", now))
	assert.Equal(t, "24", CalculateAgeAt("1st January 2000", now))
	assert.Equal(t, "28", CalculateAgeAt("15 Aug 1995", now))
	assert.Equal(t, "28", CalculateAgeAt("Aug 15, 1995", now))
}

func TestCalculateAgeYearFirst(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "28", CalculateAgeAt("1995/08/15", now))
	assert.Equal(t, "28", CalculateAgeAt("1995-08-15", now))
}

// Known ambiguity, kept on purpose: a date that is valid month-first is
// taken month-first by the direct attempt, so 12/03/1998 means
// 3 December 1998 here, not 12 March. The day-first fallback only
// applies when the direct attempt fails (e.g. 15/08/1995).
func TestCalculateAgeMonthFirstAmbiguity(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "25", CalculateAgeAt("12/03/1998", now))
}

func TestCalculateAgeInvalid(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, CalculateAgeAt("", now))
	assert.Empty(t, CalculateAgeAt("   ", now))
	assert.Empty(t, CalculateAgeAt("not a date", now))
	assert.Empty(t, CalculateAgeAt("12/1998", now))
	assert.Empty(t, CalculateAgeAt("aa/bb/cccc", now))
}

func TestCalculateAgeQuoteStripping(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "28", CalculateAgeAt("'15/08/1995'", now))
}
