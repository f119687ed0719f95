package widget

import (
	"strconv"
	"time"
)

// DaysBetween returns the absolute number of calendar days between the
// local dates of start and end. Times of day are ignored, so the result
// does not change across daylight saving transitions.
func DaysBetween(start, end time.Time) int {
	days := int(civil(end).Sub(civil(start)).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

func civil(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatNumber formats n with comma thousands separators.
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	out := make([]byte, 0, len(s)+len(s)/3)
	head := len(s) % 3
	if head > 0 {
		out = append(out, s[:head]...)
	}
	for i := head; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}
