package api

import (
	v1 "github.com/flexprice/proposals/internal/api/v1"
	"github.com/flexprice/proposals/internal/config"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/flexprice/proposals/internal/rest/middleware"
	"github.com/flexprice/proposals/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Invoice  *v1.InvoiceHandler
	Proposal *v1.ProposalHandler
	Product  *v1.ProductHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CORSMiddleware,
		middleware.RequestIDMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/health", handlers.Health.Health)

	invoices := router.Group("/invoices")
	{
		invoices.POST("/calculate", handlers.Invoice.CalculateTotals)
	}

	proposals := router.Group("/proposals")
	{
		proposals.POST("", handlers.Proposal.CreateProposal)
		proposals.GET("", handlers.Proposal.ListProposals)
		proposals.GET("/:id", handlers.Proposal.GetProposal)
		proposals.DELETE("/:id", handlers.Proposal.DeleteProposal)
		proposals.GET("/:id/totals", handlers.Proposal.GetTotals)
		proposals.POST("/:id/line_items", handlers.Proposal.AddLineItem)
		proposals.PUT("/:id/line_items/:line_item_id", handlers.Proposal.UpdateLineItem)
		proposals.DELETE("/:id/line_items/:line_item_id", handlers.Proposal.RemoveLineItem)
		proposals.POST("/:id/products", handlers.Proposal.AddProducts)
		proposals.POST("/:id/submit", handlers.Proposal.SubmitProposal)
	}

	products := router.Group("/products")
	{
		products.GET("/search", handlers.Product.SearchProducts)
		products.GET("/:id", handlers.Product.GetProduct)
	}
}
