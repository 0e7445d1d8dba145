package mysql

import (
	"context"

	"gorm.io/gorm"

	"sourcing-workflow/internal/domain/rfq"
	"sourcing-workflow/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Rfqs:            &RfqRepository{db: tx},
		LineItems:       &LineItemRepository{db: tx},
		Reviews:         &ReviewRepository{db: tx},
		Quotes:          &QuoteRepository{db: tx},
		Invitations:     &InvitationRepository{db: tx},
		ApprovalHistory: &ApprovalHistoryRepository{db: tx},
		PurchaseOrders:  &PurchaseOrderRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLineItemTx(ctx context.Context, lineItemID uint64, fn func(r uow.Repos, li *rfq.LineItem) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the line item row up-front so concurrent decisions serialize
		li, err := r.LineItems.GetByIDForUpdate(ctx, lineItemID)
		if err != nil {
			return err
		}
		return fn(r, li)
	})
}
