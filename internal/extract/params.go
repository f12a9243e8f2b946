package extract

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Params selects the month whose tasks are extracted.
type Params struct {
	Month time.Month
	Year  int
}

func (p Params) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}

// Validate checks that Month is in 1..12.
func (p Params) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("invalid month %d: must be 1-12", int(p.Month))
	}
	return nil
}

// MonthNames returns January..December.
func MonthNames() []string {
	names := make([]string, 0, 12)
	for m := time.January; m <= time.December; m++ {
		names = append(names, m.String())
	}
	return names
}

// ParseMonth accepts a full English month name, its three-letter
// abbreviation (any case) or a number 1-12.
func ParseMonth(s string) (time.Month, error) {
	v := strings.TrimSpace(s)
	if n, err := strconv.Atoi(v); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("invalid month %q: must be 1-12", s)
		}
		return time.Month(n), nil
	}

	lower := strings.ToLower(v)
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if lower == name || (len(lower) == 3 && lower == name[:3]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid month %q", s)
}

// SelectableYears returns the years a caller may pick: the current year
// and the one before it.
func SelectableYears(now time.Time) []int {
	return []int{now.Year(), now.Year() - 1}
}

// CheckYear returns an error unless year is one of SelectableYears(now).
func CheckYear(year int, now time.Time) error {
	for _, y := range SelectableYears(now) {
		if y == year {
			return nil
		}
	}
	return fmt.Errorf("invalid year %d: choose %d or %d", year, now.Year(), now.Year()-1)
}
