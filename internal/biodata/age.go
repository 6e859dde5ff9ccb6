package biodata

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ordinalRe = regexp.MustCompile(`(?i)(\d+)(st|nd|rd|th)`)

// directLayouts are tried in order against the normalized date string.
// The month-first layout is deliberate: it reproduces the behavior the
// dashboard has always had for ambiguous dates like 12/03/1998, where
// the direct attempt wins before the day-first fallback gets a chance.
var directLayouts = []string{
	"2006/1/2",
	"1/2/2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// CalculateAge returns the completed-years age for a free-text date of
// birth, or "" when the date cannot be understood.
func CalculateAge(dob string) string {
	return CalculateAgeAt(dob, time.Now())
}

// CalculateAgeAt is CalculateAge against an explicit reference date.
func CalculateAgeAt(dob string, now time.Time) string {
	clean := strings.TrimSpace(dob)
	if clean == "" {
		return ""
	}
	clean = ordinalRe.ReplaceAllString(clean, "$1")
	clean = strings.NewReplacer("'", "", `"`, "").Replace(clean)
	clean = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '/'
		}
		return r
	}, clean)
	clean = strings.TrimSpace(clean)

	birth, ok := parseDirect(clean)
	if !ok {
		birth, ok = parseDayFirst(clean)
	}
	if !ok {
		return ""
	}

	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return strconv.Itoa(age)
}

func parseDirect(s string) (time.Time, bool) {
	for _, layout := range directLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDayFirst reinterprets a slash-separated date as day/month/year,
// the convention for this locale. Out-of-range components roll over via
// time.Date.
func parseDayFirst(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}
