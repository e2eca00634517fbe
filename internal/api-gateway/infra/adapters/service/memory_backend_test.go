package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

func TestMemoryBackend_WorkOrders(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	wo := &domain.WorkOrder{Technician: "Vidy", Customer: "Acme Plaza", FolderName: "20240115_1", Parts: []domain.Part{{Name: "wire"}}}
	require.NoError(t, b.CreateWorkOrder(ctx, wo))
	wo.Parts[0].Name = "changed after create"

	got, err := b.GetWorkOrder(ctx, "20240115_1")
	require.NoError(t, err)
	assert.Equal(t, "wire", got.Parts[0].Name)
	assert.Equal(t, "20240115_1", got.FolderName)

	got.JobStatus = string(domain.StatusMaintenance)
	require.NoError(t, b.UpdateWorkOrder(ctx, got))
	again, _ := b.GetWorkOrder(ctx, "20240115_1")
	assert.Equal(t, "Maintenance Problems", again.JobStatus)

	assert.ErrorIs(t, b.UpdateWorkOrder(ctx, &domain.WorkOrder{FolderName: "20240115_2"}), ports.ErrNotFound)

	matches, err := b.SearchWorkOrders(ctx, "ACME")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "N/A", matches[0].PONumber)

	require.NoError(t, b.DeleteWorkOrder(ctx, "20240115_1"))
	_, err = b.GetWorkOrder(ctx, "20240115_1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, b.DeleteWorkOrder(ctx, "20240115_1"), ports.ErrNotFound)
}

func TestMemoryBackend_Media(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	_, err := b.UploadMedia(ctx, "20240115_1", []entity.MediaFile{{Filename: "a.jpg"}})
	assert.ErrorIs(t, err, ports.ErrNotFound)

	require.NoError(t, b.CreateWorkOrder(ctx, &domain.WorkOrder{FolderName: "20240115_1"}))
	names, err := b.UploadMedia(ctx, "20240115_1", []entity.MediaFile{{Filename: "a.jpg"}, {Filename: "a.jpg"}})
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "a.jpg", names[0])
	assert.NotEqual(t, "a.jpg", names[1])
	assert.Contains(t, names[1], "_a.jpg")

	items, err := b.ListMedia(ctx, "20240115_1")
	require.NoError(t, err)
	assert.Equal(t, "/media/20240115_1/a.jpg", items[0].Path)

	require.NoError(t, b.DeleteMedia(ctx, "20240115_1", "a.jpg"))
	assert.ErrorIs(t, b.DeleteMedia(ctx, "20240115_1", "a.jpg"), ports.ErrNotFound)
}

func TestMemoryBackend_Catalog(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	parts, err := b.SearchParts(ctx, "breaker")
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	travel, err := b.SearchTravel(ctx, "miss")
	require.NoError(t, err)
	require.Len(t, travel, 1)
	assert.Equal(t, 0.75, travel[0].TravelTimeHours)
}
