package history

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Slash-separated numeric dates are read
// month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseDate reads a calendar date from a history cell. A blank cell yields
// ok == false and no error: the row simply has no date and falls outside
// every month. Any time-of-day part is discarded.
func ParseDate(s string) (date time.Time, ok bool, err error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false, nil
	}
	for _, layout := range dateLayouts {
		if t, perr := time.Parse(layout, v); perr == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date format")
}
