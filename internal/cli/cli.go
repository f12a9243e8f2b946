package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Extract *ExtractCommand
	Serve   *ServeCommand
	Months  *MonthsCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "rhtasks"
	parser.LongDescription = "Extract RaterHub task visits for one month from a browser history export, converted to US Pacific time."

	cmds := &commands{
		Extract: &ExtractCommand{globals: &globals, version: version},
		Serve:   &ServeCommand{globals: &globals, version: version},
		Months:  &MonthsCommand{globals: &globals, version: version},
	}

	parser.AddCommand("extract", "Extract a month of tasks from a history CSV", "Filter a browser history CSV to one month of RaterHub task visits, convert timestamps from UTC+7 to Pacific time, drop duplicate task IDs and save the table as CSV.", cmds.Extract)
	parser.AddCommand("serve", "Start the web upload form", "Start the local web form for uploading a history CSV and downloading the task table.", cmds.Serve)
	parser.AddCommand("months", "List selectable months and years", "List the month names and years accepted by extract.", cmds.Months)

	return parser, &globals, cmds
}

// Run is the main entry point for the rhtasks CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("rhtasks %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
