package ports

import (
	"context"
	"errors"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// ErrNotFound is returned (wrapped) when a work order or media file does not
// exist.
var ErrNotFound = errors.New("not found")

// WorkOrderService stores work order documents.
type WorkOrderService interface {
	CreateWorkOrder(ctx context.Context, wo *domain.WorkOrder) error
	UpdateWorkOrder(ctx context.Context, wo *domain.WorkOrder) error
	GetWorkOrder(ctx context.Context, folder string) (*domain.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, folder string) error
	ListFolders(ctx context.Context) ([]string, error)
	SearchWorkOrders(ctx context.Context, query string) ([]entity.SearchMatch, error)
}

// MediaService stores photos and videos next to a work order.
type MediaService interface {
	UploadMedia(ctx context.Context, folder string, files []entity.MediaFile) ([]string, error)
	ListMedia(ctx context.Context, folder string) ([]entity.MediaItem, error)
	DeleteMedia(ctx context.Context, folder, filename string) error
}

// CatalogService answers the parts and travel autocomplete lookups.
type CatalogService interface {
	SearchParts(ctx context.Context, partName string) ([]entity.CatalogPart, error)
	SearchTravel(ctx context.Context, location string) ([]entity.TravelTime, error)
}

// Backend is everything the remote work order server provides.
type Backend interface {
	WorkOrderService
	MediaService
	CatalogService
}
