// Package service holds the gateway use cases that span several remote calls.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// WeeklyView builds a technician's work orders grouped by week.
type WeeklyView struct {
	store       ports.WorkOrderService
	concurrency int
}

func NewWeeklyView(store ports.WorkOrderService, concurrency int) *WeeklyView {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &WeeklyView{store: store, concurrency: concurrency}
}

// ForTechnician fetches every work order folder, keeps the technician's
// orders and groups them by week, newest first. Folders that fail to load are
// logged and skipped; only a failed folder listing is an error.
func (v *WeeklyView) ForTechnician(ctx context.Context, technician string) ([]domain.WeekGroup, error) {
	folders, err := v.store.ListFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("weekly view: list folders: %w", err)
	}

	var candidates []string
	for _, f := range folders {
		if domain.IsWorkOrderFolder(f) {
			candidates = append(candidates, f)
		}
	}

	orders := make([]*domain.WorkOrder, len(candidates))
	var g errgroup.Group
	g.SetLimit(v.concurrency)
	for i, folder := range candidates {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			wo, err := v.store.GetWorkOrder(ctx, folder)
			if err != nil {
				slog.WarnContext(ctx, "skipping unreadable work order", "folder", folder, "error", err)
				return nil
			}
			orders[i] = wo
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("weekly view: %w", err)
	}

	groups := domain.GroupByWeek(orders, technician)
	if groups == nil {
		groups = []domain.WeekGroup{}
	}
	return groups, nil
}
