package network

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var fourDigits = regexp.MustCompile(`\d{4}`)

// ParseYear extracts a year from a free-form time string.
//
// A leading integer wins ("1925", "1925年3月", " 1913-05"). Failing that, the
// first run of four digits anywhere in the string is used ("约1920年").
func ParseYear(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if y, ok := leadingInt(s); ok {
		return y, true
	}
	if m := fourDigits.FindString(s); m != "" {
		y, err := strconv.Atoi(m)
		if err == nil {
			return y, true
		}
	}
	return 0, false
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	y, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return y, true
}

// EarliestYear returns the minimum parseable year across events, never later
// than maxYear. Events without a parseable year are ignored; if none parse the
// result is maxYear.
func EarliestYear(events []Event, maxYear int) int {
	earliest := maxYear
	for _, ev := range events {
		if y, ok := ParseYear(ev.Time); ok && y < earliest {
			earliest = y
		}
	}
	return earliest
}
