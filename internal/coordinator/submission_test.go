package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/infra/adapters/service"
	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// failingMedia rejects every upload.
type failingMedia struct {
	deleted []string
}

func (f *failingMedia) UploadMedia(context.Context, string, []entity.MediaFile) ([]string, error) {
	return nil, errors.New("413 payload too large")
}

func (f *failingMedia) ListMedia(context.Context, string) ([]entity.MediaItem, error) {
	return nil, nil
}

func (f *failingMedia) DeleteMedia(_ context.Context, _, name string) error {
	f.deleted = append(f.deleted, name)
	return nil
}

func newWorkOrder() *domain.WorkOrder {
	return &domain.WorkOrder{
		Technician:      "Subas",
		Date:            "2024-01-15",
		WorkOrderNumber: "88",
		Week:            "54",
		FolderName:      "20240115_88",
	}
}

func TestSubmitter_Submit(t *testing.T) {
	ctx := context.Background()
	backend := service.NewMemoryBackend()
	repo := sagalog.NewMemoryRepository()
	sub := NewSubmitter(backend, backend, repo)

	names, err := sub.Submit(ctx, newWorkOrder(), []entity.MediaFile{{Filename: "panel.jpg", Data: []byte{1}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"panel.jpg"}, names)

	stored, err := backend.GetWorkOrder(ctx, "20240115_88")
	require.NoError(t, err)
	assert.Equal(t, "Subas", stored.Technician)

	history, err := sub.History(ctx, "20240115_88")
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.Equal(t, sagalog.StatusCompleted, history[len(history)-1].Status)
}

func TestSubmitter_WithoutMedia(t *testing.T) {
	backend := service.NewMemoryBackend()
	sub := NewSubmitter(backend, backend, sagalog.NewMemoryRepository())

	names, err := sub.Submit(context.Background(), newWorkOrder(), nil)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSubmitter_UploadFailureDeletesWorkOrder(t *testing.T) {
	ctx := context.Background()
	backend := service.NewMemoryBackend()
	media := &failingMedia{}
	repo := sagalog.NewMemoryRepository()
	sub := NewSubmitter(backend, media, repo)

	_, err := sub.Submit(ctx, newWorkOrder(), []entity.MediaFile{{Filename: "huge.mov"}})
	require.Error(t, err)

	folders, err := backend.ListFolders(ctx)
	require.NoError(t, err)
	assert.Empty(t, folders)
	assert.Empty(t, media.deleted)

	latest, err := repo.GetLatest(ctx, "20240115_88")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusCompensated, latest.Status)
	assert.Equal(t, "Upload_Media_Step", latest.CurrentStep)
}

func TestSubmitter_FailedResubmitRestoresPreviousWorkOrder(t *testing.T) {
	ctx := context.Background()
	backend := service.NewMemoryBackend()
	repo := sagalog.NewMemoryRepository()

	_, err := NewSubmitter(backend, backend, repo).
		Submit(ctx, newWorkOrder(), []entity.MediaFile{{Filename: "before.jpg", Data: []byte{1}}})
	require.NoError(t, err)

	resubmit := newWorkOrder()
	resubmit.Technician = "Vidy"
	resubmit.Customer = "Overwritten Ltd"
	_, err = NewSubmitter(backend, &failingMedia{}, repo).
		Submit(ctx, resubmit, []entity.MediaFile{{Filename: "after.jpg"}})
	require.Error(t, err)

	stored, err := backend.GetWorkOrder(ctx, "20240115_88")
	require.NoError(t, err)
	assert.Equal(t, "Subas", stored.Technician)
	assert.Empty(t, stored.Customer)

	media, err := backend.ListMedia(ctx, "20240115_88")
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, "before.jpg", media[0].Filename)

	latest, err := repo.GetLatest(ctx, "20240115_88")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusCompensated, latest.Status)
}

func TestSubmitter_RequiresFolder(t *testing.T) {
	backend := service.NewMemoryBackend()
	sub := NewSubmitter(backend, backend, sagalog.NewMemoryRepository())
	_, err := sub.Submit(context.Background(), &domain.WorkOrder{}, nil)
	assert.Error(t, err)
}
