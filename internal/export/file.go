package export

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/extract"
)

// Writer saves result tables to files.
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a Writer. A nil logger disables logging.
func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger}
}

// SaveTasks writes the task table to path, creating parent directories.
func (w *Writer) SaveTasks(path string, res *extract.Result) error {
	return w.save(path, func(f *os.File) error { return WriteTasksCSV(f, res.Tasks) },
		zap.Int("tasks", res.TotalTasks()))
}

// SaveDaily writes the tasks-by-day table to path.
func (w *Writer) SaveDaily(path string, res *extract.Result) error {
	return w.save(path, func(f *os.File) error { return WriteDailyCSV(f, res.TasksByDay) },
		zap.Int("days", len(res.TasksByDay)))
}

func (w *Writer) save(path string, write func(*os.File) error, field zap.Field) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	w.logger.Info("csv exported", zap.String("file", path), field)
	return nil
}
