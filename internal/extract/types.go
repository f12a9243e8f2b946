package extract

import (
	"fmt"
	"time"
)

// TimestampLayout is the rendered form of a Pacific timestamp. Its
// lexicographic order is chronological wall-clock order.
const TimestampLayout = "2006-01-02 15:04:05"

// TaskRecord is one extracted task visit.
type TaskRecord struct {
	Row         int       // source data row, 1-based
	Timestamp   time.Time // in the target zone
	PacificTime string    // Timestamp rendered with TimestampLayout
	URL         string
	TaskID      string
}

// Date returns the calendar-date part of PacificTime.
func (r TaskRecord) Date() string {
	return r.PacificTime[:len("2006-01-02")]
}

// DailyCount is the number of tasks on one Pacific calendar date.
type DailyCount struct {
	Date  string
	Count int
}

// ConversionWarning records a row whose timestamp could not be converted.
// The row is left out of the task table.
type ConversionWarning struct {
	Row    int
	TaskID string
	URL    string
	Reason string
}

func (w ConversionWarning) Error() string {
	return fmt.Sprintf("row %d: error converting time: %s", w.Row, w.Reason)
}

// Result is the outcome of one extraction run.
type Result struct {
	Params Params

	// Matched counts rows that passed the month and URL filters.
	Matched int
	// TotalVisits counts matched rows carrying a task ID and a converted
	// timestamp, before deduplication.
	TotalVisits int

	Tasks      []TaskRecord
	TasksByDay []DailyCount
	Warnings   []ConversionWarning
}

// TotalTasks is the number of unique tasks.
func (r *Result) TotalTasks() int {
	return len(r.Tasks)
}

// DuplicatesRemoved is TotalVisits minus TotalTasks.
func (r *Result) DuplicatesRemoved() int {
	return r.TotalVisits - len(r.Tasks)
}

// Empty reports the "no matches" condition. It is not an error.
func (r *Result) Empty() bool {
	return len(r.Tasks) == 0
}
