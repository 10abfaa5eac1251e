package v1

import (
	"net/http"

	"github.com/flexprice/proposals/internal/api/dto"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/service"
	"github.com/flexprice/proposals/internal/types"
	"github.com/gin-gonic/gin"
)

type ProposalHandler struct {
	service service.ProposalService
	log     *logger.Logger
}

func NewProposalHandler(service service.ProposalService, log *logger.Logger) *ProposalHandler {
	return &ProposalHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a proposal
// @Description Create a draft proposal, optionally with initial line items
// @Tags Proposals
// @Accept json
// @Produce json
// @Param proposal body dto.CreateProposalRequest true "Proposal"
// @Success 201 {object} dto.ProposalResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /proposals [post]
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	var req dto.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateProposal(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} dto.ProposalResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id} [get]
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	resp, err := h.service.GetProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List proposals
// @Tags Proposals
// @Produce json
// @Param filter query types.ProposalFilter false "Filter"
// @Success 200 {object} dto.ListProposalsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /proposals [get]
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	filter := types.NewProposalFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListProposals(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id} [delete]
func (h *ProposalHandler) DeleteProposal(c *gin.Context) {
	if err := h.service.DeleteProposal(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "proposal deleted successfully"})
}

// @Summary Get proposal totals
// @Description Current totals of the proposal's editing session
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} dto.ProposalTotalsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id}/totals [get]
func (h *ProposalHandler) GetTotals(c *gin.Context) {
	resp, err := h.service.GetTotals(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add a line item
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param line_item body dto.CreateLineItemRequest true "Line item"
// @Success 200 {object} dto.ProposalTotalsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id}/line_items [post]
func (h *ProposalHandler) AddLineItem(c *gin.Context) {
	var req dto.CreateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddLineItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a line item
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param line_item_id path string true "Line item ID"
// @Param line_item body dto.UpdateLineItemRequest true "Line item"
// @Success 200 {object} dto.ProposalTotalsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id}/line_items/{line_item_id} [put]
func (h *ProposalHandler) UpdateLineItem(c *gin.Context) {
	var req dto.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateLineItem(c.Request.Context(), c.Param("id"), c.Param("line_item_id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Remove a line item
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Param line_item_id path string true "Line item ID"
// @Success 200 {object} dto.ProposalTotalsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id}/line_items/{line_item_id} [delete]
func (h *ProposalHandler) RemoveLineItem(c *gin.Context) {
	resp, err := h.service.RemoveLineItem(c.Request.Context(), c.Param("id"), c.Param("line_item_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Add catalog products
// @Tags Proposals
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param products body dto.AddProductsRequest true "Products"
// @Success 200 {object} dto.ProposalTotalsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id}/products [post]
func (h *ProposalHandler) AddProducts(c *gin.Context) {
	var req dto.AddProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddProducts(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Submit a proposal
// @Description Persist the line items and totals summary and freeze the proposal
// @Tags Proposals
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} dto.ProposalResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /proposals/{id}/submit [post]
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
	resp, err := h.service.SubmitProposal(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	h.log.Infow("proposal submitted via api",
		"proposal_id", resp.ID,
		"request_id", types.GetRequestID(c.Request.Context()),
	)

	c.JSON(http.StatusOK, resp)
}
