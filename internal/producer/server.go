// Package producer is a local suggestion producer: it parses an uploaded
// CSV or XLSX file and answers with dataset info and rule-based chart
// suggestions in the upload result format.
package producer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/raykavin/chartwise/pkg/core"
	"github.com/raykavin/chartwise/pkg/logger"
	"github.com/raykavin/chartwise/pkg/upload"
)

// Options tunes the producer responses
type Options struct {
	SampleRows int
	MaxPoints  int
}

// DefaultOptions matches the sample size and point limit clients expect
var DefaultOptions = Options{SampleRows: 5, MaxPoints: 10}

// Server serves the producer endpoints
type Server struct {
	sync.Mutex
	engine  *gin.Engine
	options Options
	log     logger.Logger
	server  *http.Server
}

// New builds the producer routes
func New(log logger.Logger, options Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  gin.New(),
		options: options,
		log:     log,
	}

	s.engine.Use(gin.Recovery(), RequestID(), RequestLogger(log), CORS())
	s.engine.GET("/", s.handleHealth)
	s.engine.POST(upload.UploadPath, s.handleUpload)

	return s
}

// Handler returns the routes for embedding or tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on port until Shutdown is called
func (s *Server) Start(port int) error {
	s.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.engine,
	}
	server := s.server
	s.Unlock()

	s.log.Infof("Producer listening on http://localhost:%d", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.Lock()
	server := s.server
	s.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Data Visualization API is running",
	})
}

func (s *Server) handleUpload(c *gin.Context) {
	header, err := c.FormFile(upload.FileField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, fmt.Errorf("Error processing file: %w", err))
		return
	}
	defer file.Close()

	table, err := ReadTable(header.Filename, file)
	switch {
	case errors.Is(err, ErrUnsupportedFile), errors.Is(err, ErrEmptyFile), errors.Is(err, ErrNoColumns):
		s.fail(c, http.StatusBadRequest, err)
		return
	case err != nil:
		s.fail(c, http.StatusInternalServerError, fmt.Errorf("Error processing file: %w", err))
		return
	}

	c.JSON(http.StatusOK, core.UploadResult{
		Status:           "success",
		DataInfo:         table.DataInfo(s.options.SampleRows),
		ChartSuggestions: table.Suggest(s.options.MaxPoints),
	})
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	s.log.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("upload rejected")
	c.JSON(status, gin.H{"detail": err.Error()})
}
