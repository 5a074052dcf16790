package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice_pdf_service/internal/adapters/storage"
	"invoice_pdf_service/internal/compositor"
	"invoice_pdf_service/internal/fill"
	apphttp "invoice_pdf_service/internal/http"
	"invoice_pdf_service/internal/http/router"
	"invoice_pdf_service/internal/layout"
	"invoice_pdf_service/internal/pdf"
	"invoice_pdf_service/platform/config"
	"invoice_pdf_service/platform/logger"
	"invoice_pdf_service/platform/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	val := validator.New()

	registry, err := loadLayouts(ctx, cfg, log, val)
	if err != nil {
		log.Error("failed to load layouts", "error", err)
		panic("failed to load layouts: " + err.Error())
	}
	log.Info("layouts loaded", "default", registry.Default(), "layouts", registry.Names())

	// ========================================================================
	// Domain Modules
	// ========================================================================

	comp := compositor.New(pdf.NewOpener(), pdf.NewFormFiller(), log)
	fillModule := fill.NewModule(comp, registry, val, log)

	app := &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Modules: []apphttp.Module{fillModule},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
	log.Info("server stopped")
}

// loadLayouts merges the builtin tables, the optional layout file and the
// optional object storage prefix, in that order.
func loadLayouts(ctx context.Context, cfg *config.Config, log *logger.Logger, val *validator.Validator) (*layout.Registry, error) {
	sources := []layout.Source{layout.Builtin{}}
	if path := cfg.GetLayoutFile(); path != "" {
		sources = append(sources, layout.FileSource{Path: path})
	}

	if !cfg.IsMinIOEnabled() {
		return layout.Build(ctx, val, cfg.GetDefaultLayout(), sources...)
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		return nil, err
	}
	sources = append(sources, storage.NewLayoutSource(storageSvc, cfg.GetLayoutBucket(), cfg.GetLayoutPrefix()))

	var registry *layout.Registry
	err = withRetry(ctx, log, "load layouts", 5, 2*time.Second, func() error {
		r, err := layout.Build(ctx, val, cfg.GetDefaultLayout(), sources...)
		if err != nil {
			return err
		}
		registry = r
		return nil
	})
	return registry, err
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
