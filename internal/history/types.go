package history

// RequiredColumns lists the columns every history export must carry.
// Names are matched exactly (case-sensitive); extra columns are ignored.
var RequiredColumns = []string{"order", "id", "date", "time", "title", "url"}

// Record is a single browser-history row. Only Date, Time and URL feed the
// task extraction; the remaining fields are carried for display.
type Record struct {
	Row   int // 1-based data row number, header excluded
	Order string
	ID    string
	Date  string
	Time  string
	Title string
	URL   string
}

// Table is a decoded history upload: the header row plus the raw cells.
// Rows are padded to the header width.
type Table struct {
	Columns []string
	Rows    [][]string
}
