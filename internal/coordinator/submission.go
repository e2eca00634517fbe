package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// Submitter creates work orders with their media as one saga.
type Submitter struct {
	store ports.WorkOrderService
	media ports.MediaService
	repo  sagalog.Repository
}

func NewSubmitter(store ports.WorkOrderService, media ports.MediaService, repo sagalog.Repository) *Submitter {
	return &Submitter{store: store, media: media, repo: repo}
}

// Submit stores wo and uploads files. On failure a new folder is removed, a
// resubmitted one gets its previous document back, and the saga log explains
// why. It returns the stored media names.
func (s *Submitter) Submit(ctx context.Context, wo *domain.WorkOrder, files []entity.MediaFile) ([]string, error) {
	if wo.FolderName == "" {
		return nil, fmt.Errorf("submit work order: empty folder name")
	}
	payload, err := json.Marshal(wo)
	if err != nil {
		return nil, fmt.Errorf("submit work order: encode payload: %w", err)
	}

	upload := NewUploadMediaStep(s.media, wo.FolderName, files)
	saga := NewOrchestrator(wo.FolderName, string(payload), s.repo,
		NewCreateWorkOrderStep(s.store, wo),
		upload,
	)
	if err := saga.Start(ctx); err != nil {
		return nil, err
	}
	return upload.Uploaded(), nil
}

// History returns the saga log of a folder, oldest first.
func (s *Submitter) History(ctx context.Context, folder string) ([]sagalog.SagaLog, error) {
	return s.repo.History(ctx, folder)
}
