package http

import (
	"github.com/labstack/echo/v4"

	mw "sourcing-workflow/internal/adapter/middleware"
)

type Handlers struct {
	Health         *Handler
	Rfqs           *RfqHandler
	Quotes         *QuoteHandler
	LineItems      *LineItemHandler
	PurchaseOrders *PurchaseOrderHandler
}

// Register mounts every route. idem guards the mutating routes and may be
// nil when no idempotency store is configured.
func Register(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	chain := []echo.MiddlewareFunc{mw.Actor()}
	if idem != nil {
		chain = append(chain, idem)
	}
	api := e.Group("", chain...)

	api.POST("/rfqs", h.Rfqs.Create)
	api.GET("/rfqs", h.Rfqs.List)
	api.GET("/rfqs/:id", h.Rfqs.Get)
	api.PUT("/rfqs/:id", h.Rfqs.Update)
	api.DELETE("/rfqs/:id", h.Rfqs.Delete)
	api.POST("/rfqs/:id/publish", h.Rfqs.Publish)
	api.POST("/rfqs/:id/close", h.Rfqs.Close)
	api.POST("/rfqs/:id/cancel", h.Rfqs.Cancel)
	api.POST("/rfqs/:id/invitations", h.Rfqs.SendInvitations)
	api.POST("/rfqs/:id/review", h.Rfqs.Review)
	api.GET("/rfqs/:id/price-audit", h.Rfqs.PriceAudit)
	api.POST("/rfqs/:id/price-audit/pr-export", h.Rfqs.PrExport)

	api.POST("/rfqs/:id/quotes", h.Quotes.Submit)
	api.GET("/rfqs/:id/quotes/compare", h.Quotes.Compare)
	api.PUT("/rfqs/:id/quotes/:quoteId", h.Quotes.Update)
	api.POST("/rfqs/:id/quotes/:quoteId/withdraw", h.Quotes.Withdraw)

	api.POST("/rfqs/:id/line-items/:lineItemId/submit", h.LineItems.Submit)
	api.POST("/rfqs/:id/line-items/:lineItemId/director-decision", h.LineItems.DirectorDecision)
	api.POST("/rfqs/:id/line-items/:lineItemId/invite-purchasers", h.LineItems.InvitePurchasers)
	api.GET("/rfqs/:id/line-items/:lineItemId/approval-history", h.LineItems.ApprovalHistory)
	api.GET("/line-items/pending", h.LineItems.Pending)

	api.GET("/supplier/rfqs/:id", h.Rfqs.SupplierView)
	api.GET("/supplier/invitations", h.Rfqs.SupplierInvitations)

	api.POST("/rfqs/:id/purchase-orders", h.PurchaseOrders.Create)
	api.GET("/rfqs/:id/purchase-orders", h.PurchaseOrders.ListForRfq)
	api.GET("/rfqs/:id/purchase-orders/available", h.PurchaseOrders.Available)
	api.GET("/purchase-orders/:poId", h.PurchaseOrders.Get)
	api.PUT("/purchase-orders/:poId", h.PurchaseOrders.Update)
	api.DELETE("/purchase-orders/:poId", h.PurchaseOrders.Delete)
	api.POST("/purchase-orders/:poId/submit", h.PurchaseOrders.Submit)
	api.POST("/purchase-orders/:poId/confirm", h.PurchaseOrders.Confirm)
}
