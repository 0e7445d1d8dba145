// Package app assembles repositories, state machines and use cases over one
// database handle. The HTTP server and the HTTP tests share it.
package app

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "sourcing-workflow/internal/adapter/http"
	"sourcing-workflow/internal/adapter/repository/mysql"
	"sourcing-workflow/internal/domain/actor"
	domainPO "sourcing-workflow/internal/domain/purchaseorder"
	domainQuote "sourcing-workflow/internal/domain/quote"
	domainRfq "sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/status"
	"sourcing-workflow/internal/usecase/audit"
	lineitemuc "sourcing-workflow/internal/usecase/lineitem"
	"sourcing-workflow/internal/usecase/priceaudit"
	pouc "sourcing-workflow/internal/usecase/purchaseorder"
	quoteuc "sourcing-workflow/internal/usecase/quote"
	rfquc "sourcing-workflow/internal/usecase/rfq"
	"sourcing-workflow/internal/usecase/visibility"
	"sourcing-workflow/internal/workflow/statemachine"
	"sourcing-workflow/pkg/clock"
)

type Options struct {
	DefaultCurrency     string
	AttachmentURLPrefix string
}

type Usecases struct {
	Rfqs           *rfquc.Usecase
	Quotes         *quoteuc.Usecase
	LineItems      *lineitemuc.Usecase
	PurchaseOrders *pouc.Usecase
}

func New(db *gorm.DB, opts Options, clk clock.Clock, log *zap.Logger) *Usecases {
	if clk == nil {
		clk = clock.System
	}
	if log == nil {
		log = zap.NewNop()
	}

	rfqs := mysql.NewRfqRepository(db)
	lineItems := mysql.NewLineItemRepository(db)
	quotes := mysql.NewQuoteRepository(db)
	invitations := mysql.NewInvitationRepository(db)
	suppliers := mysql.NewSupplierRepository(db)
	statusHistory := mysql.NewStatusHistoryRepository(db)
	uow := mysql.NewGormUoW(db)

	perms := actor.StaticChecker{}
	gate := visibility.NewGate(rfqs, invitations, quotes, perms, clk)
	recorder := audit.NewLog(mysql.NewAuditLogRepository(db), clk, log)
	prices := priceaudit.NewSynchronizer(mysql.NewPriceAuditRepository(db), rfqs, lineItems, quotes, suppliers, clk, log)
	rfqMachine := statemachine.New[*domainRfq.Rfq](status.EntityRfq, statusHistory, clk, log)

	return &Usecases{
		Rfqs: rfquc.NewUsecase(rfquc.Deps{
			Rfqs:        rfqs,
			LineItems:   lineItems,
			Quotes:      quotes,
			Invitations: invitations,
			Suppliers:   suppliers,
			UoW:         uow,
			Machine:     rfqMachine,
			Gate:        gate,
			Perms:       perms,
			Audit:       recorder,
			Prices:      prices,
			Clock:       clk,
			Log:         log,
			Options:     rfquc.Options(opts),
		}),
		Quotes: quoteuc.NewUsecase(quoteuc.Deps{
			Rfqs:        rfqs,
			Quotes:      quotes,
			Invitations: invitations,
			Suppliers:   suppliers,
			UoW:         uow,
			Machine:     statemachine.New[*domainQuote.Quote](status.EntityQuote, statusHistory, clk, log),
			RfqMachine:  rfqMachine,
			Gate:        gate,
			Perms:       perms,
			Audit:       recorder,
			Prices:      prices,
			Clock:       clk,
			Log:         log,
		}),
		LineItems: lineitemuc.NewUsecase(lineitemuc.Deps{
			Rfqs:      rfqs,
			LineItems: lineItems,
			Quotes:    quotes,
			Suppliers: suppliers,
			Approvals: mysql.NewApprovalHistoryRepository(db),
			UoW:       uow,
			Machine:   statemachine.New[*domainRfq.LineItem](status.EntityLineItem, statusHistory, clk, log),
			Perms:     perms,
			Audit:     recorder,
			Prices:    prices,
			Clock:     clk,
			Log:       log,
		}),
		PurchaseOrders: pouc.NewUsecase(pouc.Deps{
			Rfqs:            rfqs,
			LineItems:       lineItems,
			Quotes:          quotes,
			Suppliers:       suppliers,
			PurchaseOrders:  mysql.NewPurchaseOrderRepository(db),
			UoW:             uow,
			Machine:         statemachine.New[*domainPO.PurchaseOrder](status.EntityPurchaseOrder, statusHistory, clk, log),
			Perms:           perms,
			Audit:           recorder,
			Clock:           clk,
			Log:             log,
			DefaultCurrency: opts.DefaultCurrency,
		}),
	}
}

// Handlers binds every use case to its HTTP handler.
func (u *Usecases) Handlers(clk clock.Clock) httpadp.Handlers {
	return httpadp.Handlers{
		Health:         httpadp.NewHandler(clk),
		Rfqs:           httpadp.NewRfqHandler(u.Rfqs),
		Quotes:         httpadp.NewQuoteHandler(u.Quotes),
		LineItems:      httpadp.NewLineItemHandler(u.LineItems),
		PurchaseOrders: httpadp.NewPurchaseOrderHandler(u.PurchaseOrders),
	}
}
