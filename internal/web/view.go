package web

import (
	"bytes"
	"encoding/base64"
	"html/template"
	"time"

	"github.com/runnerr0/rhtasks/internal/export"
	"github.com/runnerr0/rhtasks/internal/extract"
	"github.com/runnerr0/rhtasks/internal/history"
)

const (
	pageTitle   = "RaterHub History Analyzer"
	previewRows = 5
)

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

type monthOption struct {
	Value    int
	Name     string
	Selected bool
}

type indexPage struct {
	Title  string
	Months []monthOption
	Years  []int
}

func newIndexPage(now time.Time) indexPage {
	page := indexPage{Title: pageTitle, Years: extract.SelectableYears(now)}
	for m := time.January; m <= time.December; m++ {
		page.Months = append(page.Months, monthOption{Value: int(m), Name: m.String(), Selected: m == now.Month()})
	}
	return page
}

type previewTable struct {
	Columns []string
	Rows    [][]string
}

type dayBar struct {
	Date    string
	Count   int
	Percent int
}

type resultPage struct {
	Title    string
	Period   string
	RunID    string
	Error    string
	Hints    []string
	NoMatch  string
	Preview  *previewTable
	Tasks    []extract.TaskRecord
	Stats    export.Stats
	Days     []dayBar
	Warnings []extract.ConversionWarning
	Filename string
	CSVData  template.URL
}

// newPreview returns nil unless the table passed the schema check; the
// preview is only shown for uploads with the expected shape.
func newPreview(t *history.Table) *previewTable {
	if t == nil || len(t.Missing()) > 0 {
		return nil
	}
	return &previewTable{Columns: t.Columns, Rows: t.Preview(previewRows)}
}

func dayBars(days []extract.DailyCount) []dayBar {
	peak := 0
	for _, d := range days {
		if d.Count > peak {
			peak = d.Count
		}
	}
	bars := make([]dayBar, 0, len(days))
	for _, d := range days {
		bars = append(bars, dayBar{Date: d.Date, Count: d.Count, Percent: export.BarWidth(d.Count, peak, 100)})
	}
	return bars
}

// csvDataURL embeds the task table in the page so the result can be saved
// without uploading the file a second time.
func csvDataURL(tasks []extract.TaskRecord) (template.URL, error) {
	var buf bytes.Buffer
	if err := export.WriteTasksCSV(&buf, tasks); err != nil {
		return "", err
	}
	return template.URL("data:text/csv;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
