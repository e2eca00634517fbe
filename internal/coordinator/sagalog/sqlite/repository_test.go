package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allstar-electrical/workorders/internal/coordinator/sagalog"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "nested", "sagalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_HistoryAndLatest(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	started := sagalog.NewEntry(ctx, "20240115_77", sagalog.StatusStarted, "", `{"week":"54"}`, nil)
	require.NoError(t, repo.Save(ctx, started))
	require.NoError(t, repo.Save(ctx, sagalog.NewEntry(ctx, "20240115_77", sagalog.StatusStepDone, "Create_WorkOrder_Step", "", nil)))
	require.NoError(t, repo.Save(ctx, sagalog.NewEntry(ctx, "20240115_99", sagalog.StatusStarted, "", "", nil)))
	require.NoError(t, repo.Save(ctx, sagalog.NewEntry(ctx, "20240115_77", sagalog.StatusCompensated, "Upload_Media_Step", "", []string{"step failed"})))

	rows, err := repo.History(ctx, "20240115_77")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sagalog.StatusStarted, rows[0].Status)
	assert.Equal(t, `{"week":"54"}`, rows[0].Payload)
	assert.Equal(t, "[]", rows[1].ErrorMessages)
	assert.WithinDuration(t, started.UpdatedAt, rows[0].UpdatedAt, time.Microsecond)

	latest, err := repo.GetLatest(ctx, "20240115_77")
	require.NoError(t, err)
	assert.Equal(t, sagalog.StatusCompensated, latest.Status)
	assert.Equal(t, []string{"step failed"}, latest.Errors())
}

func TestRepository_Missing(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	_, err := repo.GetLatest(ctx, "nope")
	assert.ErrorIs(t, err, sagalog.ErrNotFound)

	rows, err := repo.History(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
