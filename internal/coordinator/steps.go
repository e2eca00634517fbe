package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// --- CreateWorkOrderStep ---

// CreateWorkOrderStep stores the work order document. The server replaces a
// folder that already exists, so the previous document is kept and put back
// on compensation instead of deleting the folder with its media.
type CreateWorkOrderStep struct {
	store ports.WorkOrderService
	wo    *domain.WorkOrder
	prior *domain.WorkOrder
}

func NewCreateWorkOrderStep(store ports.WorkOrderService, wo *domain.WorkOrder) *CreateWorkOrderStep {
	return &CreateWorkOrderStep{store: store, wo: wo}
}

func (s *CreateWorkOrderStep) Name() string { return "Create_WorkOrder_Step" }

func (s *CreateWorkOrderStep) Execute(ctx context.Context) error {
	prior, err := s.store.GetWorkOrder(ctx, s.wo.FolderName)
	switch {
	case errors.Is(err, ports.ErrNotFound):
		s.prior = nil
	case err != nil:
		return fmt.Errorf("failed to look up work order %s: %w", s.wo.FolderName, err)
	default:
		prior.FolderName = s.wo.FolderName
		s.prior = prior
	}

	if err := s.store.CreateWorkOrder(ctx, s.wo); err != nil {
		return fmt.Errorf("failed to create work order: %w", err)
	}
	return nil
}

func (s *CreateWorkOrderStep) Compensate(ctx context.Context) error {
	if s.prior != nil {
		if err := s.store.UpdateWorkOrder(ctx, s.prior); err != nil {
			return fmt.Errorf("failed to restore work order %s: %w", s.prior.FolderName, err)
		}
		return nil
	}
	return s.store.DeleteWorkOrder(ctx, s.wo.FolderName)
}

// --- UploadMediaStep ---

type UploadMediaStep struct {
	media    ports.MediaService
	folder   string
	files    []entity.MediaFile
	uploaded []string
}

func NewUploadMediaStep(media ports.MediaService, folder string, files []entity.MediaFile) *UploadMediaStep {
	return &UploadMediaStep{media: media, folder: folder, files: files}
}

func (s *UploadMediaStep) Name() string { return "Upload_Media_Step" }

func (s *UploadMediaStep) Execute(ctx context.Context) error {
	if len(s.files) == 0 {
		return nil
	}
	names, err := s.media.UploadMedia(ctx, s.folder, s.files)
	if err != nil {
		return fmt.Errorf("failed to upload media: %w", err)
	}
	s.uploaded = names
	return nil
}

// Uploaded returns the names the server stored the files under.
func (s *UploadMediaStep) Uploaded() []string { return s.uploaded }

func (s *UploadMediaStep) Compensate(ctx context.Context) error {
	var errs []error
	for _, name := range s.uploaded {
		if err := s.media.DeleteMedia(ctx, s.folder, name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
