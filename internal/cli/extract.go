package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/config"
	"github.com/runnerr0/rhtasks/internal/export"
	"github.com/runnerr0/rhtasks/internal/extract"
	"github.com/runnerr0/rhtasks/internal/history"
	"github.com/runnerr0/rhtasks/internal/logger"
)

const stdoutPath = "-"

// extractJSON is the JSON output structure for the extract command.
type extractJSON struct {
	export.Document
	Output      string `json:"output,omitempty"`
	ByDayOutput string `json:"by_day_output,omitempty"`
}

// Execute implements the go-flags Commander interface for ExtractCommand.
func (c *ExtractCommand) Execute(args []string) error {
	if c.File == "" {
		return fmt.Errorf("--file is required")
	}
	if c.Month == "" {
		return fmt.Errorf("--month is required")
	}
	if c.Output == stdoutPath && c.globals != nil && c.globals.JSON {
		return fmt.Errorf("--output - cannot be combined with --json")
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg, c.globals)
	if err != nil {
		return err
	}
	defer log.Sync()

	return c.executeWithConfig(cfg, log)
}

// executeWithConfig runs extract against a provided config and logger (for testing).
func (c *ExtractCommand) executeWithConfig(cfg *config.Config, log *zap.Logger) error {
	month, err := extract.ParseMonth(c.Month)
	if err != nil {
		return err
	}
	now := clock(c.now)
	year := c.Year
	if year == 0 {
		year = now.Year()
	}
	if err := extract.CheckYear(year, now); err != nil {
		return err
	}
	params := extract.Params{Month: month, Year: year}

	ex, err := newExtractor(cfg.Extraction, log)
	if err != nil {
		return err
	}

	table, err := readHistory(c.File)
	if err != nil {
		return newFailure(err)
	}

	runLog, runID := logger.WithRun(log, "extract")
	res, err := ex.Extract(table, params)
	if err != nil {
		runLog.Warn("extraction failed", zap.String("file", c.File), zap.Error(err))
		return newFailure(err)
	}
	runLog.Info("extraction complete",
		zap.String("file", c.File),
		zap.String("period", params.String()),
		zap.Int("tasks", res.TotalTasks()),
		zap.Int("visits", res.TotalVisits))

	if c.Output == stdoutPath {
		st := newStyles(os.Stderr)
		if res.Empty() {
			fmt.Fprintln(os.Stderr, st.warn.Render(extract.NoMatchesMessage(params)))
		}
		printWarnings(os.Stderr, st, res.Warnings)
		return export.WriteTasksCSV(os.Stdout, res.Tasks)
	}

	out := extractJSON{Document: export.NewDocument(res, runID)}
	if !res.Empty() && !c.NoSave {
		writer := export.NewWriter(runLog)

		out.Output, err = c.outputPath(cfg, params)
		if err != nil {
			return err
		}
		if err := writer.SaveTasks(out.Output, res); err != nil {
			return err
		}
		if c.ByDay != "" {
			out.ByDayOutput = c.ByDay
			if err := writer.SaveDaily(c.ByDay, res); err != nil {
				return err
			}
		}
	}

	if c.globals != nil && c.globals.JSON {
		return export.WriteJSON(os.Stdout, out)
	}
	return printExtractHuman(res, out)
}

func (c *ExtractCommand) outputPath(cfg *config.Config, p extract.Params) (string, error) {
	if c.Output != "" {
		return c.Output, nil
	}
	dir, err := config.ExpandPath(cfg.Export.OutputDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, export.Filename(p)), nil
}

func readHistory(path string) (*history.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()
	return history.Decode(f)
}

func printExtractHuman(res *extract.Result, out extractJSON) error {
	st := newStyles(os.Stdout)
	if res.Empty() {
		fmt.Println(st.warn.Render(extract.NoMatchesMessage(res.Params)))
		printWarnings(os.Stdout, st, res.Warnings)
		return nil
	}

	title := fmt.Sprintf("RaterHub Tasks for %s", res.Params)
	fmt.Println(st.title.Render(title))
	fmt.Println(strings.Repeat("=", len(title)))
	fmt.Println(st.heading.Render(fmt.Sprintf("%4s  %-19s  %-10s  %s", "#", "Date (Pacific Time)", "Task ID", "URL")))
	for i, t := range res.Tasks {
		fmt.Printf("%4d  %-19s  %-10s  %s\n", i+1, t.PacificTime, t.TaskID, t.URL)
	}

	fmt.Println()
	fmt.Println(st.heading.Render("Statistics"))
	fmt.Printf("Total unique RaterHub tasks: %d\n", res.TotalTasks())
	fmt.Printf("Total RaterHub visits (including duplicates): %d\n", res.TotalVisits)
	if n := res.DuplicatesRemoved(); n > 0 {
		fmt.Printf("Removed %d duplicate task entries\n", n)
	}

	fmt.Println()
	fmt.Println(st.heading.Render("Tasks by Day"))
	if err := export.WriteChart(os.Stdout, res.TasksByDay); err != nil {
		return err
	}

	printWarnings(os.Stdout, st, res.Warnings)

	if out.Output != "" {
		fmt.Println()
		fmt.Printf("Saved:         %s\n", st.muted.Render(out.Output))
		if out.ByDayOutput != "" {
			fmt.Printf("Saved by day:  %s\n", st.muted.Render(out.ByDayOutput))
		}
	}
	return nil
}

// printWarnings lists rows whose timestamps could not be converted.
func printWarnings(w io.Writer, st styles, warnings []extract.ConversionWarning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.warn.Render(fmt.Sprintf("Skipped %d rows:", len(warnings))))
	for _, cw := range warnings {
		fmt.Fprintf(w, "  %s\n", st.warn.Render(cw.Error()))
	}
}
