package plot

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/chartwise/pkg/draw"
	"github.com/raykavin/chartwise/pkg/logger"
	"github.com/raykavin/chartwise/pkg/upload"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// maxUploadMemory bounds the multipart form kept in memory
const maxUploadMemory = 32 << 20

// Board is the web view of the upload controller: an upload form, the
// dataset panel and one card per suggested chart
type Board struct {
	port          int
	debug         bool
	controller    *upload.Controller
	server        HTTPServer
	hub           *Hub
	drawOptions   draw.Options
	scriptContent string
	indexHTML     *template.Template
	log           logger.Logger
}

// Option defines a function type for configuring a Board instance
type Option func(*Board)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(board *Board) {
		board.port = port
	}
}

// WithDebug enables debug mode (disables minification)
func WithDebug() Option {
	return func(board *Board) {
		board.debug = true
	}
}

// WithHTTPServer replaces the default server
func WithHTTPServer(server HTTPServer) Option {
	return func(board *Board) {
		board.server = server
	}
}

// WithDrawOptions sets the size of the inline chart images
func WithDrawOptions(options draw.Options) Option {
	return func(board *Board) {
		board.drawOptions = options
	}
}

// NewBoard creates a board over controller with the provided options
func NewBoard(controller *upload.Controller, log logger.Logger, options ...Option) (*Board, error) {
	board := &Board{
		port:        8080,
		controller:  controller,
		drawOptions: draw.DefaultOptions,
		log:         log,
	}

	for _, option := range options {
		option(board)
	}

	if board.server == nil {
		board.server = NewStandardHTTPServer()
	}

	var err error
	board.indexHTML, err = template.New("index.html").Funcs(templateFuncs).ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse board template: %w", err)
	}

	appJS, err := staticFiles.ReadFile("assets/app.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read app.js: %w", err)
	}

	transpiled := api.Transform(string(appJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !board.debug,
		MinifyIdentifiers: !board.debug,
		MinifyWhitespace:  !board.debug,
	})

	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("board script failed with: %v", transpiled.Errors)
	}

	board.scriptContent = string(transpiled.Code)
	board.hub = NewHub(log)
	controller.Subscribe(board.hub.Publish)

	return board, nil
}

// RegisterHandlers registers every route on server
func (b *Board) RegisterHandlers(server HTTPServer) {
	server.RegisterFileServer("/assets/", staticFiles)
	server.RegisterHandler("/assets/app.js", b.handleScript)
	server.RegisterHandler("/health", b.handleHealth)
	server.RegisterHandler("/state", b.handleState)
	server.RegisterHandler("/upload", b.handleUpload)
	server.RegisterHandler("/reset", b.handleReset)
	server.RegisterHandler("/ws", b.hub.HandleWebSocket)
	server.RegisterHandler("/", b.handleIndex)
}

// Start serves the board until the server stops
func (b *Board) Start() error {
	b.RegisterHandlers(b.server)
	go b.hub.Run()

	b.log.Infof("Board available at http://localhost:%d", b.port)
	return b.server.Start(b.port)
}

// Server returns the server the board starts on
func (b *Board) Server() HTTPServer {
	return b.server
}

// Close stops pushing state to connected pages
func (b *Board) Close() {
	b.hub.Close()
}
