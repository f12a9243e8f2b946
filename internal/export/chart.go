package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/runnerr0/rhtasks/internal/extract"
)

// ChartWidth is the length of the longest bar.
const ChartWidth = 40

// BarWidth scales count against peak to at most width cells. Any non-zero
// count gets at least one cell.
func BarWidth(count, peak, width int) int {
	if count <= 0 || peak <= 0 {
		return 0
	}
	n := count * width / peak
	if n == 0 {
		n = 1
	}
	return n
}

// WriteChart draws one horizontal bar per day.
func WriteChart(w io.Writer, days []extract.DailyCount) error {
	peak := 0
	for _, d := range days {
		if d.Count > peak {
			peak = d.Count
		}
	}
	for _, d := range days {
		bar := strings.Repeat("█", BarWidth(d.Count, peak, ChartWidth))
		if _, err := fmt.Fprintf(w, "%s  %-*s %d\n", d.Date, ChartWidth, bar, d.Count); err != nil {
			return err
		}
	}
	return nil
}
