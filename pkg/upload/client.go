// Package upload submits a dataset file to the suggestion producer and tracks
// the lifecycle of the latest submission.
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/logger"
)

const (
	// UploadPath is appended to the producer base URL
	UploadPath = "/upload"
	// FileField is the multipart part carrying the file
	FileField = "file"

	// GenericFailure is shown when the producer gives no detail
	GenericFailure = "Failed to upload file"
	// ParseFailure is shown when a success body cannot be parsed
	ParseFailure = "Failed to parse server response"
)

// File is a named dataset to submit
type File struct {
	Name string
	Body io.Reader
}

// RequestError is a transport or producer failure.
// StatusCode is zero when no response was received.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("upload request failed: %v", e.Err)
	}
	return fmt.Sprintf("upload rejected with status %d: %s", e.StatusCode, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client performs one multipart submission per call, without retries
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.http = client
	}
}

// NewClient creates a client for the producer at baseURL.
// No timeout is set; the transport defaults apply.
func NewClient(baseURL string, log logger.Logger, options ...ClientOption) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     log,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// Upload sends file to the producer and parses its answer
func (c *Client) Upload(ctx context.Context, file File) (*core.UploadResult, error) {
	requestID := uuid.NewString()
	log := c.log.WithFields(map[string]any{"request_id": requestID, "file": file.Name})

	body, contentType := multipartBody(file)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, body)
	if err != nil {
		return nil, &RequestError{Message: GenericFailure, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log.Debugf("POST %s", req.URL)

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Error("upload request failed")
		return nil, &RequestError{Message: GenericFailure, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: GenericFailure, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := detailMessage(payload)
		log.WithField("status", resp.StatusCode).Warnf("upload rejected: %s", message)
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	result, err := core.ParseUploadResult(payload)
	if err != nil {
		log.WithError(err).Error("invalid upload response")
		return nil, err
	}

	log.Infof("received %d chart suggestions", len(result.ChartSuggestions))
	return result, nil
}

// multipartBody streams file as a single-part multipart form
func multipartBody(file File) (io.ReadCloser, string) {
	reader, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		part, err := form.CreateFormFile(FileField, file.Name)
		if err != nil {
			writer.CloseWithError(err)
			return
		}

		if file.Body != nil {
			if _, err := io.Copy(part, file.Body); err != nil {
				writer.CloseWithError(err)
				return
			}
		}

		writer.CloseWithError(form.Close())
	}()

	return reader, form.FormDataContentType()
}

// detailMessage extracts the producer's human-readable detail string
func detailMessage(payload []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Detail == nil {
		return GenericFailure
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil || strings.TrimSpace(detail) == "" {
		return GenericFailure
	}

	return detail
}

// FailureMessage is the user-visible message for a failed submission
func FailureMessage(err error) string {
	var requestErr *RequestError
	switch {
	case errors.As(err, &requestErr) && requestErr.Message != "":
		return requestErr.Message
	case errors.Is(err, core.ErrMalformedResult):
		return ParseFailure
	default:
		return GenericFailure
	}
}
