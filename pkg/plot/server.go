package plot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
)

// HTTPServer defines the interface for an HTTP server that Board will use
type HTTPServer interface {
	// RegisterHandler registers a handler for a specific route
	RegisterHandler(path string, handler http.HandlerFunc)

	// RegisterFileServer registers a handler to serve static files
	RegisterFileServer(path string, files fs.FS)

	// Start starts the HTTP server on the specified port
	Start(port int) error

	// Shutdown stops the server gracefully
	Shutdown(ctx context.Context) error
}

// StandardHTTPServer implements the HTTPServer interface on its own ServeMux
type StandardHTTPServer struct {
	sync.Mutex
	mux    *http.ServeMux
	server *http.Server
}

// NewStandardHTTPServer creates a new instance of StandardHTTPServer
func NewStandardHTTPServer() *StandardHTTPServer {
	return &StandardHTTPServer{mux: http.NewServeMux()}
}

// RegisterHandler registers a handler for a specific route
func (s *StandardHTTPServer) RegisterHandler(path string, handler http.HandlerFunc) {
	s.mux.HandleFunc(path, handler)
}

// RegisterFileServer registers a handler to serve static files
func (s *StandardHTTPServer) RegisterFileServer(path string, files fs.FS) {
	s.mux.Handle(path, http.FileServer(http.FS(files)))
}

// ServeHTTP implements http.Handler
func (s *StandardHTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start starts the HTTP server on the specified port.
// It returns nil once Shutdown has been called.
func (s *StandardHTTPServer) Start(port int) error {
	s.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.mux,
	}
	server := s.server
	s.Unlock()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *StandardHTTPServer) Shutdown(ctx context.Context) error {
	s.Lock()
	server := s.server
	s.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}
