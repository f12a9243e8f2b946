package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/runnerr0/rhtasks/internal/history"
)

var (
	hintColumns = "Please make sure your file has the correct format with columns: " +
		strings.Join(history.RequiredColumns, ", ")
	hintDates = "If you're having issues with the CSV format, try checking that the date and time columns are properly formatted."
)

// Describe returns the single user-facing message for a failed run and the
// remediation hints that go with it.
func Describe(err error) (string, []string) {
	var serr *history.SchemaError
	if errors.As(err, &serr) {
		return "The uploaded file is missing required columns. Please ensure it contains: " +
			strings.Join(history.RequiredColumns, ", "), nil
	}
	return fmt.Sprintf("An error occurred: %v", err), []string{hintColumns, hintDates}
}

// NoMatchesMessage is shown when a run yields no tasks.
func NoMatchesMessage(p Params) string {
	return fmt.Sprintf("No RaterHub URLs found for %s", p)
}
