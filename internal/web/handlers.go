package web

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/runnerr0/rhtasks/internal/export"
	"github.com/runnerr0/rhtasks/internal/extract"
	"github.com/runnerr0/rhtasks/internal/history"
	"github.com/runnerr0/rhtasks/internal/logger"
)

var errNoFile = errors.New("please upload a browser history CSV file")

// upload is a validated form submission.
type upload struct {
	params extract.Params
	name   string
	table  *history.Table
}

// outcome is one finished run. Either result or err is set; table is set
// whenever the upload decoded.
type outcome struct {
	runID  string
	table  *history.Table
	result *extract.Result
	err    error
	status int
}

func (s *Server) limitBody(c *gin.Context) {
	if s.cfg.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadSize)
	}
	c.Next()
}

// readUpload parses the multipart form. Input errors carry a 4xx status.
func (s *Server) readUpload(c *gin.Context) (*upload, int, error) {
	if _, err := c.MultipartForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge,
				fmt.Errorf("upload exceeds the %d byte limit", tooLarge.Limit)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("expected a multipart form: %w", err)
	}

	month, err := extract.ParseMonth(c.PostForm("month"))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	now := s.now()
	year := now.Year()
	if v := c.PostForm("year"); v != "" {
		year, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("invalid year %q", v)
		}
	}
	if err := extract.CheckYear(year, now); err != nil {
		return nil, http.StatusBadRequest, err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, http.StatusBadRequest, errNoFile
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		return nil, http.StatusBadRequest, fmt.Errorf("%q is not a .csv file", fh.Filename)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	up := &upload{params: extract.Params{Month: month, Year: year}, name: fh.Filename}
	up.table, err = history.Decode(f)
	if err != nil {
		return up, http.StatusUnprocessableEntity, err
	}
	return up, http.StatusOK, nil
}

// run reads the upload and runs the transform on it.
func (s *Server) run(c *gin.Context, operation string) (*upload, outcome) {
	log, runID := logger.WithRun(s.logger, operation)
	out := outcome{runID: runID, status: http.StatusOK}

	up, status, err := s.readUpload(c)
	if up != nil {
		out.table = up.table
	}
	if err != nil {
		out.err, out.status = err, status
		log.Warn("upload rejected", zap.Int("status", status), zap.Error(err))
		return up, out
	}

	res, err := s.extractor.Extract(up.table, up.params)
	if err != nil {
		out.err, out.status = err, statusFor(err)
		log.Warn("extraction failed",
			zap.String("file", up.name),
			zap.String("period", up.params.String()),
			zap.Error(err))
		return up, out
	}

	out.result = res
	log.Info("extraction complete",
		zap.String("file", up.name),
		zap.String("period", up.params.String()),
		zap.Int("rows", len(up.table.Rows)),
		zap.Int("tasks", res.TotalTasks()),
		zap.Int("visits", res.TotalVisits),
		zap.Int("warnings", len(res.Warnings)))
	return up, out
}

func statusFor(err error) int {
	var serr *history.SchemaError
	var perr *history.ParseError
	if errors.As(err, &serr) || errors.As(err, &perr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// describe maps a failure to its message and hints. Only transform errors
// carry hints; bad form input is reported as-is.
func describe(out outcome) (string, []string) {
	if out.status == http.StatusUnprocessableEntity || out.status >= http.StatusInternalServerError {
		return extract.Describe(out.err)
	}
	return out.err.Error(), nil
}

// Web handlers

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newIndexPage(s.now()))
}

func (s *Server) handleExtract(c *gin.Context) {
	up, out := s.run(c, "web_extract")

	page := resultPage{Title: pageTitle, RunID: out.runID, Preview: newPreview(out.table)}
	if up != nil {
		page.Period = up.params.String()
	}

	if out.err != nil {
		page.Error, page.Hints = describe(out)
		c.HTML(out.status, "result.html", page)
		return
	}

	res := out.result
	page.Warnings = res.Warnings
	if res.Empty() {
		page.NoMatch = extract.NoMatchesMessage(res.Params)
		c.HTML(http.StatusOK, "result.html", page)
		return
	}

	data, err := csvDataURL(res.Tasks)
	if err != nil {
		_ = c.Error(err)
		page.Error = fmt.Sprintf("An error occurred: %v", err)
		c.HTML(http.StatusInternalServerError, "result.html", page)
		return
	}

	doc := export.NewDocument(res, out.runID)
	page.Tasks = res.Tasks
	page.Stats = doc.Stats
	page.Days = dayBars(res.TasksByDay)
	page.Filename = doc.Filename
	page.CSVData = data
	c.HTML(http.StatusOK, "result.html", page)
}

func (s *Server) handleDownload(c *gin.Context) {
	_, out := s.run(c, "web_download")
	if out.err != nil {
		msg, hints := describe(out)
		c.JSON(out.status, gin.H{"error": msg, "hints": hints})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteTasksCSV(&buf, out.result.Tasks); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(out.result.Params)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// API handlers

func (s *Server) handleAPIExtract(c *gin.Context) {
	_, out := s.run(c, "api_extract")
	if out.err != nil {
		msg, hints := describe(out)
		c.JSON(out.status, gin.H{"error": msg, "hints": hints, "run_id": out.runID})
		return
	}
	c.JSON(http.StatusOK, export.NewDocument(out.result, out.runID))
}
