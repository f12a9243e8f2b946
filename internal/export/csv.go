package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/runnerr0/rhtasks/internal/extract"
)

// CSVHeader is the header row of the task table.
var CSVHeader = []string{"Date (Pacific Time)", "URL", "Task ID"}

// DailyHeader is the header row of the tasks-by-day table.
var DailyHeader = []string{"Date", "Number of Tasks"}

// Filename returns the download name for a month's task table,
// e.g. raterhub_tasks_March_2024.csv.
func Filename(p extract.Params) string {
	return fmt.Sprintf("raterhub_tasks_%s_%d.csv", p.Month, p.Year)
}

// DailyFilename is Filename with a _by_day suffix.
func DailyFilename(p extract.Params) string {
	return fmt.Sprintf("raterhub_tasks_%s_%d_by_day.csv", p.Month, p.Year)
}

// WriteTasksCSV writes the header and one row per task, in order.
func WriteTasksCSV(w io.Writer, tasks []extract.TaskRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, t := range tasks {
		if err := cw.Write([]string{t.PacificTime, t.URL, t.TaskID}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyCSV writes the tasks-by-day counts.
func WriteDailyCSV(w io.Writer, days []extract.DailyCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DailyHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, d := range days {
		if err := cw.Write([]string{d.Date, strconv.Itoa(d.Count)}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
