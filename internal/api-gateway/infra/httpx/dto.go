package httpx

import (
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/catalog"
	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
	"github.com/allstar-electrical/workorders/internal/workorder/pricing"
)

type TotalsRequest struct {
	Items []pricing.LineItem `json:"items"`
}

type TotalsResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type WeekResponse struct {
	Date string `json:"date"`
	Week int    `json:"week"`
}

type TechniciansResponse struct {
	Technicians []string `json:"technicians"`
}

type WeeklyViewResponse struct {
	Technician string             `json:"technician"`
	Weeks      []domain.WeekGroup `json:"weeks"`
}

type FoldersResponse struct {
	WorkOrders []string `json:"workorders"`
}

type SearchResponse struct {
	Matches []entity.SearchMatch `json:"matches"`
}

type WorkOrderResponse struct {
	Folder    string            `json:"folder"`
	WorkOrder *domain.WorkOrder `json:"workorder"`
	Media     []string          `json:"media,omitempty"`
}

type MediaListResponse struct {
	Media []entity.MediaItem `json:"media"`
}

type UploadResponse struct {
	Files []string `json:"files"`
}

type HistoryResponse struct {
	Folder  string            `json:"folder"`
	History []sagalog.SagaLog `json:"history"`
}

// PartSuggestion is a catalog row plus the values the form fills in.
type PartSuggestion struct {
	entity.CatalogPart
	Selection catalog.Selection `json:"selection"`
}

type TravelSuggestion struct {
	entity.TravelTime
	TravelHours string `json:"travel_hours"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
