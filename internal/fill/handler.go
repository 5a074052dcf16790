package fill

import (
	"errors"
	"io"
	"net/http"

	"invoice_pdf_service/platform/httpkit"
	"invoice_pdf_service/platform/logger"
	"invoice_pdf_service/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler serves the fill endpoints.
type Handler struct {
	svc *Service
	val *validator.Validator
	log *logger.Logger
}

// NewHandler creates a fill handler.
func NewHandler(svc *Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, val: val, log: log}
}

// HandleFillPDF fills the posted template and returns it base64 encoded.
func (h *Handler) HandleFillPDF(c *gin.Context) {
	var req FillRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpkit.HandleError(c, err)
			return
		}
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, MsgMissingInput, nil)
		return
	}

	res, err := h.svc.Fill(c.Request.Context(), FillInput{
		TemplateBase64: req.PDFBase64,
		Fields:         req.Fields,
		Layout:         req.Layout,
	})
	if err != nil {
		h.log.WithContext(c.Request.Context()).HTTPError(c.Request.Method, c.Request.URL.Path, httpkit.StatusFor(err), err, c.ClientIP())
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, FillResponse{Success: true, PDF: res.PDFBase64})
}

// HandleListLayouts lists the registered layouts and the default one.
func (h *Handler) HandleListLayouts(c *gin.Context) {
	httpkit.OK(c, h.svc.Catalog())
}
