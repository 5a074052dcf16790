// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"invoice_pdf_service/platform/config"
	"invoice_pdf_service/platform/logger"
)

// RouterConfig is the configuration the HTTP router needs.
type RouterConfig = config.HTTPConfig

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
