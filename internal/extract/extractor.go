package extract

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/history"
)

const (
	DefaultURLMatch  = "raterhub"
	DefaultTaskParam = "taskIds"
)

// Options configures an Extractor. Zero values fall back to the defaults.
type Options struct {
	URLMatch  string
	TaskParam string
	Zones     Zones
}

// Extractor turns a history table into a deduplicated, chronologically
// sorted task table for one month. It holds no per-run state and is safe
// for concurrent use.
type Extractor struct {
	urlMatch string
	taskRe   *regexp.Regexp
	zones    Zones
	logger   *zap.Logger
}

// New creates an Extractor. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Extractor {
	if opts.URLMatch == "" {
		opts.URLMatch = DefaultURLMatch
	}
	if opts.TaskParam == "" {
		opts.TaskParam = DefaultTaskParam
	}
	if opts.Zones.Source == nil || opts.Zones.Target == nil {
		opts.Zones = DefaultZones()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		urlMatch: strings.ToLower(opts.URLMatch),
		taskRe:   regexp.MustCompile(regexp.QuoteMeta(opts.TaskParam) + `=(\d+)`),
		zones:    opts.Zones,
		logger:   logger,
	}
}

// TaskID returns the digits following the task parameter in url, if any.
func (e *Extractor) TaskID(url string) (string, bool) {
	m := e.taskRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MatchesURL reports whether url contains the match substring, ignoring case.
func (e *Extractor) MatchesURL(url string) bool {
	return url != "" && strings.Contains(strings.ToLower(url), e.urlMatch)
}

// candidate is a row that survived filtering, before projection.
type candidate struct {
	rec  history.Record
	date time.Time
	conv Conversion
}

// Extract runs the full transform. It returns *history.SchemaError when a
// required column is missing and *history.ParseError when any date cell is
// unreadable; both abort the run. An empty result is not an error.
func (e *Extractor) Extract(t *history.Table, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	records, err := t.Records()
	if err != nil {
		return nil, err
	}

	// Every date is parsed before any filtering so that a single bad cell
	// fails the whole run.
	dates := make([]time.Time, len(records))
	for i, rec := range records {
		d, ok, err := history.ParseDate(rec.Date)
		if err != nil {
			return nil, &history.ParseError{Row: rec.Row, Column: "date", Value: rec.Date, Err: err}
		}
		if ok {
			dates[i] = d
		}
	}

	var inMonth []candidate
	for i, rec := range records {
		d := dates[i]
		if !d.IsZero() && d.Month() == p.Month && d.Year() == p.Year {
			inMonth = append(inMonth, candidate{rec: rec, date: d})
		}
	}

	res := &Result{Params: p}

	var matched []candidate
	for _, c := range inMonth {
		if !e.MatchesURL(c.rec.URL) {
			continue
		}
		c.conv = e.zones.Convert(c.date, c.rec.Time)
		matched = append(matched, c)
	}
	res.Matched = len(matched)

	var visits []TaskRecord
	for _, c := range matched {
		id, ok := e.TaskID(c.rec.URL)
		if !ok {
			continue
		}
		if !c.conv.OK() {
			w := ConversionWarning{Row: c.rec.Row, TaskID: id, URL: c.rec.URL, Reason: c.conv.Reason()}
			e.logger.Warn("timestamp conversion failed",
				zap.Int("row", w.Row),
				zap.String("task_id", w.TaskID),
				zap.String("reason", w.Reason))
			res.Warnings = append(res.Warnings, w)
			continue
		}
		ts := c.conv.Time()
		visits = append(visits, TaskRecord{
			Row:         c.rec.Row,
			Timestamp:   ts,
			PacificTime: ts.Format(TimestampLayout),
			URL:         c.rec.URL,
			TaskID:      id,
		})
	}
	res.TotalVisits = len(visits)

	res.Tasks = sortByTime(dedupe(sortByInstant(visits)))
	res.TasksByDay = countByDay(res.Tasks)

	e.logger.Debug("extraction finished",
		zap.String("period", p.String()),
		zap.Int("rows", len(records)),
		zap.Int("in_month", len(inMonth)),
		zap.Int("matched", res.Matched),
		zap.Int("visits", res.TotalVisits),
		zap.Int("tasks", res.TotalTasks()),
		zap.Int("warnings", len(res.Warnings)))

	return res, nil
}

// sortByInstant orders records by source instant. Across the fall-back
// hour the rendered stamp can run backwards, so dedup must not use it.
func sortByInstant(records []TaskRecord) []TaskRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records
}

// sortByTime orders records by rendered Pacific timestamp. Equal stamps
// keep their relative order.
func sortByTime(records []TaskRecord) []TaskRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PacificTime < records[j].PacificTime
	})
	return records
}

// dedupe keeps the first record of each task ID.
func dedupe(records []TaskRecord) []TaskRecord {
	seen := make(map[string]bool, len(records))
	out := make([]TaskRecord, 0, len(records))
	for _, r := range records {
		if seen[r.TaskID] {
			continue
		}
		seen[r.TaskID] = true
		out = append(out, r)
	}
	return out
}

func countByDay(records []TaskRecord) []DailyCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Date()]++
	}
	days := make([]DailyCount, 0, len(counts))
	for d, n := range counts {
		days = append(days, DailyCount{Date: d, Count: n})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
