package cli

import (
	"context"
	"time"

	"github.com/runnerr0/rhtasks/internal/web"
)

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ExtractCommand — extract one month of RaterHub tasks from a history CSV.
type ExtractCommand struct {
	File   string `long:"file" short:"f" description:"Browser history CSV export (required)"`
	Month  string `long:"month" short:"m" description:"Month name, abbreviation or number (required)"`
	Year   int    `long:"year" short:"y" description:"Year: the current or previous one (default: current)"`
	Output string `long:"output" short:"o" description:"CSV output path, or - for stdout (default: raterhub_tasks_<Month>_<Year>.csv in export.output_dir)"`
	ByDay  string `long:"by-day" description:"Also write the tasks-by-day CSV to this path"`
	NoSave bool   `long:"no-save" description:"Print results without writing a CSV file"`

	globals *GlobalFlags
	version string
	now     func() time.Time // injectable for testing; nil means time.Now
}

// ServeCommand — start the web upload form.
type ServeCommand struct {
	Host string `long:"host" description:"Override listen host"`
	Port int    `long:"port" description:"Override listen port"`

	globals *GlobalFlags
	version string
	run     func(context.Context, *web.Server) error // injectable for testing; nil means Server.Run
}

// MonthsCommand — list the months and years extract accepts.
type MonthsCommand struct {
	globals *GlobalFlags
	version string
	now     func() time.Time
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
