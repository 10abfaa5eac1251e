package v1

import (
	"net/http"

	"github.com/flexprice/proposals/internal/api/dto"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/service"
	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	service service.InvoiceService
	log     *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		log:     log,
	}
}

// @Summary Calculate invoice totals
// @Description Compute one-time and recurring totals for a list of line items without saving them
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body dto.CalculateTotalsRequest true "Line items"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /invoices/calculate [post]
func (h *InvoiceHandler) CalculateTotals(c *gin.Context) {
	var req dto.CalculateTotalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateTotals(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
