// Package fill is the HTTP surface of the invoice fill service.
package fill

import (
	apphttp "invoice_pdf_service/internal/http"
	"invoice_pdf_service/platform/logger"
	"invoice_pdf_service/platform/validator"
)

// Module is the fill bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the fill module.
func NewModule(composer Composer, layouts Layouts, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(composer, layouts, log)
	return &Module{
		handler: NewHandler(svc, val, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "fill"
}

// RegisterRoutes mounts fill routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Root.POST("/fill-pdf", m.handler.HandleFillPDF)
	ctx.Root.GET("/layouts", m.handler.HandleListLayouts)
}

var _ apphttp.Module = (*Module)(nil)
