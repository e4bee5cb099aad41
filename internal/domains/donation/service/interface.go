package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"

	"recycle-rewards-backend/internal/domains/address"
	"recycle-rewards-backend/internal/domains/category"
	"recycle-rewards-backend/internal/domains/donation/model"
	ledgerModel "recycle-rewards-backend/internal/domains/ledger/model"
	"recycle-rewards-backend/internal/shared"
)

// Service drives the donation lifecycle PENDING -> ACCEPTED -> COMPLETED,
// with CANCELLED reachable from the first two.
type Service interface {
	Create(ctx context.Context, donorID uuid.UUID, req model.CreateRequest) (*model.DonationRequest, error)
	Accept(ctx context.Context, collectorID, requestID uuid.UUID) (*model.DonationRequest, error)
	Cancel(ctx context.Context, actor shared.Actor, requestID uuid.UUID, req model.CancelRequest) (*model.DonationRequest, error)
	Complete(ctx context.Context, collectorID, requestID uuid.UUID, req model.CompleteRequest) (*model.DonationRequest, error)

	// Browse is the collector feed and the admin listing.
	Browse(ctx context.Context, actor shared.Actor, q model.ListQuery) (*model.ListResponse, error)
	ListMyRequests(ctx context.Context, donorID uuid.UUID, status *model.Status, page, limit int) (*model.ListResponse, error)
	ListMyCollections(ctx context.Context, collectorID uuid.UUID, status *model.Status, page, limit int) (*model.ListResponse, error)
	GetByID(ctx context.Context, actor shared.Actor, requestID uuid.UUID) (*model.DonationRequest, error)

	Stats(ctx context.Context, actor shared.Actor) (*model.StatsResponse, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	ExportCompleted(ctx context.Context, filter model.ExportFilter) (*excelize.File, error)
}

// CategoryReader is the part of the category service used here.
type CategoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*category.WasteCategory, error)
	GetActive(ctx context.Context, id uuid.UUID) (*category.WasteCategory, error)
}

// AddressReader resolves a donor's own address.
type AddressReader interface {
	GetOwned(ctx context.Context, userID, addressID uuid.UUID) (*address.Address, error)
}

// PointsCrediter is satisfied by the ledger service.
type PointsCrediter interface {
	CreditWithTx(ctx context.Context, tx pgx.Tx, req ledgerModel.EntryRequest) (*ledgerModel.Transaction, error)
}
