package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/logger/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{
	"status": "ok",
	"data_info": {
		"columns": ["a", "b"],
		"row_count": 2,
		"column_count": 2,
		"sample_data": [{"a": "x", "b": 1}, {"a": "y", "b": 2}],
		"column_types": {"a": "string", "b": "number"}
	},
	"chart_suggestions": [
		{"type": "bar", "title": "T", "x_axis": "a", "y_axis": "b", "explanation": "E",
		 "data": [{"a": "x", "b": 1}, {"a": "y", "b": 2}]}
	]
}`

func producer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, UploadPath, r.URL.Path)

		file, header, err := r.FormFile(FileField)
		if assert.NoError(t, err) {
			defer file.Close()
			content, _ := io.ReadAll(file)
			assert.Equal(t, "data.csv", header.Filename)
			assert.Equal(t, "a,b\nx,1\ny,2\n", string(content))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	return server
}

func csvFile() File {
	return File{Name: "data.csv", Body: strings.NewReader("a,b\nx,1\ny,2\n")}
}

func TestClient_Upload(t *testing.T) {
	server := producer(t, http.StatusOK, successBody)
	client := NewClient(server.URL+"/", zerolog.Nop())

	result, err := client.Upload(context.Background(), csvFile())
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, 2, result.DataInfo.RowCount)
	require.Len(t, result.ChartSuggestions, 1)
	assert.Equal(t, core.KindBar, result.ChartSuggestions[0].Kind())
}

func TestClient_UploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		code    int
	}{
		{"detail", http.StatusBadRequest, `{"detail":"unsupported file type"}`, "unsupported file type", http.StatusBadRequest},
		{"no detail", http.StatusInternalServerError, `{"error":"boom"}`, GenericFailure, http.StatusInternalServerError},
		{"non string detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, GenericFailure, http.StatusUnprocessableEntity},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, GenericFailure, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := producer(t, tt.status, tt.body)
			client := NewClient(server.URL, zerolog.Nop())

			_, err := client.Upload(context.Background(), csvFile())
			require.Error(t, err)

			var requestErr *RequestError
			require.ErrorAs(t, err, &requestErr)
			assert.Equal(t, tt.code, requestErr.StatusCode)
			assert.Equal(t, tt.message, FailureMessage(err))
		})
	}
}

func TestClient_UploadMalformedSuccess(t *testing.T) {
	server := producer(t, http.StatusOK, `{"status":"ok","data_info":{}}`)
	client := NewClient(server.URL, zerolog.Nop())

	_, err := client.Upload(context.Background(), csvFile())
	require.ErrorIs(t, err, core.ErrMalformedResult)
	assert.Equal(t, ParseFailure, FailureMessage(err))
}

func TestClient_UploadNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, zerolog.Nop())
	_, err := client.Upload(context.Background(), csvFile())

	var requestErr *RequestError
	require.ErrorAs(t, err, &requestErr)
	assert.Equal(t, 0, requestErr.StatusCode)
	assert.Equal(t, GenericFailure, FailureMessage(err))
}

func TestClient_SingleRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, zerolog.Nop())
	_, err := client.Upload(context.Background(), csvFile())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
