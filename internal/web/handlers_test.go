package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/rhtasks/internal/config"
	"github.com/runnerr0/rhtasks/internal/export"
	"github.com/runnerr0/rhtasks/internal/extract"
	"github.com/runnerr0/rhtasks/internal/history"
)

const sampleHistory = `order,id,date,time,title,url
1,101,2024-03-20,15:00:00,Task,https://www.raterhub.com/evaluation/rater/task/show?taskIds=777
2,102,2024-03-20,09:00:00,Task,https://www.raterhub.com/evaluation/rater/task/show?taskIds=777
3,103,2024-03-15,09:00:00,Task,https://www.raterhub.com/evaluation/rater/task/show?taskIds=12345
4,104,2024-03-15,10:00:00,Mail,https://mail.example.com/
5,105,2024-04-01,10:00:00,Task,https://www.raterhub.com/evaluation/rater/task/show?taskIds=9
6,106,2024-03-16,11:00:00,Task,https://www.raterhub.com/evaluation/rater/task/show?taskIds=555
`

// MockExtractor implements Extractor for testing
type MockExtractor struct {
	ExtractFunc func(t *history.Table, p extract.Params) (*extract.Result, error)
}

func (m *MockExtractor) Extract(t *history.Table, p extract.Params) (*extract.Result, error) {
	if m.ExtractFunc != nil {
		return m.ExtractFunc(t, p)
	}
	return &extract.Result{Params: p}, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() config.ServerConfig {
	cfg := config.DefaultConfig().Server
	cfg.Mode = gin.TestMode
	return cfg
}

func newTestServer(t *testing.T, ex Extractor, cfg config.ServerConfig) *Server {
	t.Helper()
	if ex == nil {
		ex = extract.New(extract.Options{}, nil)
	}
	s := NewServer(ex, cfg, nil)
	s.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

// multipartBody builds a form with month, year and an optional file.
func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func post(t *testing.T, s *Server, path string, fields map[string]string, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, filename, content)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

var march2024 = map[string]string{"month": "March", "year": "2024"}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "RaterHub History Analyzer")
	assert.Contains(t, body, `<option value="6" selected>June</option>`)
	assert.Contains(t, body, `<option value="2024">2024</option>`)
	assert.Contains(t, body, `<option value="2023">2023</option>`)
	assert.Contains(t, body, "Instructions")
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleExtract_Result(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/extract", march2024, "history.csv", sampleHistory)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Preview of Uploaded Data")
	assert.Contains(t, body, "RaterHub Tasks for March 2024")
	assert.Contains(t, body, "2024-03-14 19:00:00")
	assert.Contains(t, body, "Total unique RaterHub tasks: 3")
	assert.Contains(t, body, "Total RaterHub visits (including duplicates): 4")
	assert.Contains(t, body, "Removed 1 duplicate task entries")
	assert.Contains(t, body, `download="raterhub_tasks_March_2024.csv"`)
	assert.Contains(t, body, "data:text/csv;charset=utf-8;base64,")
	assert.Contains(t, body, "width: 100%")
}

func TestHandleExtract_NoMatches(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/extract", map[string]string{"month": "May", "year": "2024"}, "history.csv", sampleHistory)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No RaterHub URLs found for May 2024")
	assert.NotContains(t, w.Body.String(), "Statistics")
}

func TestHandleExtract_NoMatchesListsSkippedRows(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/extract", march2024, "history.csv",
		"order,id,date,time,title,url\n1,1,2024-03-15,9am,T,https://raterhub.com/?taskIds=5\n")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "No RaterHub URLs found for March 2024")
	assert.Contains(t, body, "Rows skipped")
	assert.Contains(t, body, "row 1: error converting time")
}

func TestHandleExtract_MissingColumns(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/extract", march2024, "history.csv",
		"order,id,date,time,url\n1,1,2024-03-15,09:00:00,https://raterhub.com/?taskIds=1\n")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "missing required columns")
	assert.NotContains(t, body, "Preview of Uploaded Data")
}

func TestHandleExtract_BadDateShowsHints(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/extract", march2024, "history.csv",
		"order,id,date,time,title,url\n1,1,someday,09:00:00,t,https://raterhub.com/?taskIds=1\n")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "An error occurred")
	assert.Contains(t, body, "date and time columns are properly formatted")
	assert.Contains(t, body, "Preview of Uploaded Data")
}

func TestHandleExtract_BadInput(t *testing.T) {
	s := newTestServer(t, nil, testConfig())

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		want     string
	}{
		{"no file", march2024, "", "please upload"},
		{"not csv", march2024, "history.xlsx", "not a .csv file"},
		{"bad month", map[string]string{"month": "Smarch", "year": "2024"}, "h.csv", "invalid month"},
		{"old year", map[string]string{"month": "March", "year": "2020"}, "h.csv", "invalid year 2020"},
		{"year not a number", map[string]string{"month": "March", "year": "last"}, "h.csv", "invalid year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(t, s, "/extract", tt.fields, tt.filename, sampleHistory)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestHandleExtract_UploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadSize = 128
	s := newTestServer(t, nil, cfg)

	w := post(t, s, "/extract", march2024, "history.csv", strings.Repeat(sampleHistory, 10))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "byte limit")
}

func TestHandleDownload(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/download", march2024, "history.csv", sampleHistory)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="raterhub_tasks_March_2024.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Date (Pacific Time),URL,Task ID", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2024-03-14 19:00:00,"))
	assert.True(t, strings.HasSuffix(lines[2], ",555"))
	assert.True(t, strings.HasPrefix(lines[3], "2024-03-19 19:00:00,"))
}

func TestHandleDownload_Error(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/download", march2024, "history.csv", "")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "no columns to parse from file")
}

func TestHandleAPIExtract(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/api/extract", map[string]string{"month": "3", "year": "2024"}, "history.csv", sampleHistory)

	require.Equal(t, http.StatusOK, w.Code)

	var doc export.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "March", doc.Month)
	assert.Equal(t, 2024, doc.Year)
	assert.NotEmpty(t, doc.RunID)
	assert.False(t, doc.NoMatches)
	assert.Equal(t, export.Stats{TotalTasks: 3, TotalVisits: 4, DuplicatesRemoved: 1}, doc.Stats)
	require.Len(t, doc.Tasks, 3)
	assert.Equal(t, "12345", doc.Tasks[0].TaskID)
	assert.Equal(t, []export.Day{{Date: "2024-03-14", Count: 1}, {Date: "2024-03-15", Count: 1}, {Date: "2024-03-19", Count: 1}}, doc.TasksByDay)
}

func TestHandleAPIExtract_SchemaError(t *testing.T) {
	s := newTestServer(t, nil, testConfig())
	w := post(t, s, "/api/extract", march2024, "history.csv", "a,b\n1,2\n")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "missing required columns")
	assert.NotEmpty(t, resp["run_id"])
}

func TestHandleAPIExtract_ExtractorFailure(t *testing.T) {
	mock := &MockExtractor{
		ExtractFunc: func(*history.Table, extract.Params) (*extract.Result, error) {
			return nil, errors.New("boom")
		},
	}
	s := newTestServer(t, mock, testConfig())
	w := post(t, s, "/api/extract", march2024, "history.csv", sampleHistory)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An error occurred: boom")
}

func TestHandleAPIExtract_PassesParams(t *testing.T) {
	var got extract.Params
	var rows int
	mock := &MockExtractor{
		ExtractFunc: func(tbl *history.Table, p extract.Params) (*extract.Result, error) {
			got, rows = p, len(tbl.Rows)
			return &extract.Result{Params: p}, nil
		},
	}
	s := newTestServer(t, mock, testConfig())
	w := post(t, s, "/api/extract", map[string]string{"month": "dec", "year": "2023"}, "HISTORY.CSV", sampleHistory)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, extract.Params{Month: time.December, Year: 2023}, got)
	assert.Equal(t, 6, rows)
	assert.Contains(t, w.Body.String(), `"no_matches":true`)
}

func TestHandleAPIExtract_YearDefaultsToCurrent(t *testing.T) {
	var got extract.Params
	mock := &MockExtractor{
		ExtractFunc: func(_ *history.Table, p extract.Params) (*extract.Result, error) {
			got = p
			return &extract.Result{Params: p}, nil
		},
	}
	s := newTestServer(t, mock, testConfig())
	w := post(t, s, "/api/extract", map[string]string{"month": "1"}, "h.csv", sampleHistory)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2024, got.Year)
}
