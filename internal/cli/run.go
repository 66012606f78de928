package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/youmna-rabie/rag-gateway/internal/config"
	"github.com/youmna-rabie/rag-gateway/internal/metrics"
	"github.com/youmna-rabie/rag-gateway/internal/rag"
	"github.com/youmna-rabie/rag-gateway/internal/server"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the gateway HTTP server",
	RunE:  runGateway,
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, closeLog := newLogger(cfg.Logging, os.Stdout)
	defer closeLog.Close()

	var collector *metrics.Collector
	var metricsHandler http.Handler
	if cfg.Metrics.IsEnabled() {
		collector = metrics.NewCollector()
		metricsHandler = collector.Handler()
	}

	svc := buildService(cfg.Backend, logger, collector)
	logger.Info("backend configured", "type", cfg.Backend.Type, "url", cfg.Backend.URL, "timeout", cfg.Backend.Timeout)

	srv := server.NewServer(cfg, svc, metricsHandler, logger)
	httpSrv := srv.HTTPServer()

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down gracefully")
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}

// buildService picks the Service implementation for the configured backend
// type. The outbound client is created once here and shared by all requests.
func buildService(cfg config.BackendConfig, logger *slog.Logger, collector *metrics.Collector) rag.Service {
	if cfg.Type == config.BackendStub {
		return &rag.StubClient{Logger: logger}
	}

	opts := []rag.Option{rag.WithLogger(logger)}
	if collector != nil {
		opts = append(opts, rag.WithObserver(collector))
	}
	return rag.NewHTTPClient(cfg.URL, rag.NewDefaultDoer(cfg.Timeout), opts...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the process logger writing to out and, when cfg.File is
// set, to a size-rotated file. The returned Closer releases the file.
func newLogger(cfg config.LoggingConfig, out io.Writer) (*slog.Logger, io.Closer) {
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		out = io.MultiWriter(out, rotated)
		closer = rotated
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), closer
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
