package export

import (
	"encoding/json"
	"io"

	"github.com/runnerr0/rhtasks/internal/extract"
)

// Task is the JSON form of a TaskRecord.
type Task struct {
	PacificTime string `json:"pacific_time"`
	URL         string `json:"url"`
	TaskID      string `json:"task_id"`
}

// Day is the JSON form of a DailyCount.
type Day struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Warning is the JSON form of a ConversionWarning.
type Warning struct {
	Row    int    `json:"row"`
	TaskID string `json:"task_id"`
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// Stats carries the summary numbers of a run.
type Stats struct {
	TotalTasks        int `json:"total_tasks"`
	TotalVisits       int `json:"total_visits"`
	DuplicatesRemoved int `json:"duplicates_removed,omitempty"`
}

// Document is the JSON shape shared by `extract --json` and the HTTP API.
type Document struct {
	RunID      string    `json:"run_id,omitempty"`
	Month      string    `json:"month"`
	Year       int       `json:"year"`
	Filename   string    `json:"filename"`
	NoMatches  bool      `json:"no_matches"`
	Stats      Stats     `json:"stats"`
	Tasks      []Task    `json:"tasks"`
	TasksByDay []Day     `json:"tasks_by_day"`
	Warnings   []Warning `json:"warnings,omitempty"`
}

// NewDocument converts a Result. Slices are never nil so empty results
// encode as [] rather than null.
func NewDocument(res *extract.Result, runID string) Document {
	doc := Document{
		RunID:     runID,
		Month:     res.Params.Month.String(),
		Year:      res.Params.Year,
		Filename:  Filename(res.Params),
		NoMatches: res.Empty(),
		Stats: Stats{
			TotalTasks:        res.TotalTasks(),
			TotalVisits:       res.TotalVisits,
			DuplicatesRemoved: res.DuplicatesRemoved(),
		},
		Tasks:      make([]Task, 0, len(res.Tasks)),
		TasksByDay: make([]Day, 0, len(res.TasksByDay)),
	}
	for _, t := range res.Tasks {
		doc.Tasks = append(doc.Tasks, Task{PacificTime: t.PacificTime, URL: t.URL, TaskID: t.TaskID})
	}
	for _, d := range res.TasksByDay {
		doc.TasksByDay = append(doc.TasksByDay, Day{Date: d.Date, Count: d.Count})
	}
	for _, w := range res.Warnings {
		doc.Warnings = append(doc.Warnings, Warning{Row: w.Row, TaskID: w.TaskID, URL: w.URL, Reason: w.Reason})
	}
	return doc
}

// WriteJSON encodes v indented.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
