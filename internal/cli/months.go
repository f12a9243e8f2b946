package cli

import (
	"fmt"
	"os"

	"github.com/runnerr0/rhtasks/internal/export"
	"github.com/runnerr0/rhtasks/internal/extract"
)

type monthsJSON struct {
	Months []string `json:"months"`
	Years  []int    `json:"years"`
}

// Execute implements the go-flags Commander interface for MonthsCommand.
func (c *MonthsCommand) Execute(args []string) error {
	out := monthsJSON{
		Months: extract.MonthNames(),
		Years:  extract.SelectableYears(clock(c.now)),
	}

	if c.globals != nil && c.globals.JSON {
		return export.WriteJSON(os.Stdout, out)
	}

	st := newStyles(os.Stdout)
	fmt.Println(st.heading.Render("Months:"))
	for i, name := range out.Months {
		fmt.Printf("  %2d  %s\n", i+1, name)
	}
	fmt.Println()
	fmt.Printf("Years:   %d, %d\n", out.Years[0], out.Years[1])
	return nil
}
