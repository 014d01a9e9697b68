package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/raykavin/chartwise/internal/producer"
	"github.com/raykavin/chartwise/pkg/plot"
	"github.com/raykavin/chartwise/pkg/upload"
	"github.com/spf13/cobra"
)

var debug bool

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web view",
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "Serve unminified scripts")

	return serveCmd
}

func buildProduceCmd() *cobra.Command {
	produceCmd := &cobra.Command{
		Use:   "produce",
		Short: "Run the local suggestion producer",
		RunE:  runProduce,
	}

	produceCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")

	return produceCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	controller := upload.NewController(upload.NewClient(cfg.API.URL, log), log)

	options := []plot.Option{plot.WithPort(portOr(cfg.Server.Port))}
	if debug {
		options = append(options, plot.WithDebug())
	}

	board, err := plot.NewBoard(controller, log, options...)
	if err != nil {
		return err
	}
	defer board.Close()

	return serveUntilSignal(cmd.Context(), board.Start, board.Server().Shutdown)
}

func runProduce(cmd *cobra.Command, _ []string) error {
	server := producer.New(log, producer.Options{
		SampleRows: cfg.Producer.SampleRows,
		MaxPoints:  cfg.Producer.MaxPoints,
	})

	return serveUntilSignal(cmd.Context(), func() error {
		return server.Start(portOr(cfg.Producer.Port))
	}, server.Shutdown)
}

// serveUntilSignal runs start until it fails or an interrupt arrives,
// then shuts down within the configured timeout
func serveUntilSignal(ctx context.Context, start func() error, shutdown func(context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() { errs <- start() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errs
}

func portOr(fallback int) int {
	if port > 0 {
		return port
	}
	return fallback
}
