package v1

import (
	"net/http"

	"github.com/flexprice/proposals/internal/api/dto"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service service.ProductService
	log     *logger.Logger
}

func NewProductHandler(service service.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// @Summary Search products
// @Description Search the product catalog by name or SKU
// @Tags Products
// @Produce json
// @Param q query string true "Search text"
// @Param limit query int false "Maximum results"
// @Success 200 {object} dto.SearchProductsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /products/search [get]
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	var req dto.SearchProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SearchProducts(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	resp, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
