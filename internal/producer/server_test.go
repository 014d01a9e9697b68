package producer

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raykavin/chartwise/pkg/logger/zerolog"
	"github.com/raykavin/chartwise/pkg/render"
	"github.com/raykavin/chartwise/pkg/upload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartRequest(t *testing.T, name, content string) *http.Request {
	t.Helper()

	body := bytes.NewBuffer(nil)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(upload.FileField, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestServer_Health(t *testing.T) {
	server := New(zerolog.Nop(), DefaultOptions)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"Data Visualization API is running"}`, recorder.Body.String())
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, recorder.Header().Get(RequestIDHeader))
}

func TestServer_Upload(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		status   int
		contains string
	}{
		{"csv", "sales.csv", salesCSV, http.StatusOK, `"status":"success"`},
		{"unsupported", "notes.txt", "hello", http.StatusBadRequest, `{"detail":"Only CSV and Excel files are supported"}`},
		{"empty", "empty.csv", "a,b\n", http.StatusBadRequest, `{"detail":"The uploaded file is empty"}`},
		{"malformed", "broken.csv", "a,b\n\"unterminated,1\n", http.StatusInternalServerError, `Error processing file: `},
		{"bad workbook", "broken.xlsx", "plain text", http.StatusInternalServerError, `Error processing file: `},
	}

	server := New(zerolog.Nop(), DefaultOptions)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, multipartRequest(t, tt.file, tt.content))

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.contains)
		})
	}
}

func TestServer_UploadWithoutFile(t *testing.T) {
	server := New(zerolog.Nop(), DefaultOptions)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestServer_Preflight(t *testing.T) {
	server := New(zerolog.Nop(), DefaultOptions)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodOptions, "/upload", nil))

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), "POST")
}

// TestServer_RoundTrip drives the producer with the upload client and renders the result
func TestServer_RoundTrip(t *testing.T) {
	ts := httptest.NewServer(New(zerolog.Nop(), Options{SampleRows: 2, MaxPoints: 4}).Handler())
	defer ts.Close()

	client := upload.NewClient(ts.URL, zerolog.Nop())
	result, err := client.Upload(context.Background(), upload.File{Name: "sales.csv", Body: strings.NewReader(salesCSV)})
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 6, result.DataInfo.RowCount)
	assert.Len(t, result.DataInfo.SampleData, 2)
	require.Len(t, result.ChartSuggestions, 3)
	assert.Len(t, result.ChartSuggestions[1].Data, 4)

	charts := render.RenderAll(result.ChartSuggestions)
	bar, ok := charts[0].(*render.BarChart)
	require.True(t, ok)
	assert.Equal(t, render.ColorAt(0), bar.Color)
	assert.Len(t, bar.Points, 3)
	assert.True(t, bar.Points[1].Valid)
	assert.Equal(t, 18.0, bar.Points[1].Value)

	_, ok = charts[1].(*render.LineChart)
	assert.True(t, ok)

	pie, ok := charts[2].(*render.PieChart)
	require.True(t, ok)
	assert.Equal(t, "North", pie.Slices[0].Name)

	_, err = client.Upload(context.Background(), upload.File{Name: "notes.txt", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.Equal(t, "Only CSV and Excel files are supported", upload.FailureMessage(err))
}
