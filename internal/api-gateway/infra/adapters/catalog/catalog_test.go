package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/pkg/cache"
)

type countingCatalog struct {
	partCalls   int
	travelCalls int
	err         error
}

func (c *countingCatalog) SearchParts(_ context.Context, name string) ([]entity.CatalogPart, error) {
	c.partCalls++
	if c.err != nil {
		return nil, c.err
	}
	price := 19.99
	return []entity.CatalogPart{{PartID: 1, PartName: "15A breaker " + name, UnitPrice: &price}}, nil
}

func (c *countingCatalog) SearchTravel(context.Context, string) ([]entity.TravelTime, error) {
	c.travelCalls++
	return nil, c.err
}

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("redis: connection refused")
}

func (brokenCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis: connection refused")
}

func (brokenCache) GenerateKey(op, key string) string { return op + ":" + key }

func TestCatalog_ReadThrough(t *testing.T) {
	ctx := context.Background()
	next := &countingCatalog{}
	c := New(next, cache.NewMemoryCache("workorder-gateway"), time.Minute)

	first, err := c.SearchParts(ctx, "Breaker")
	require.NoError(t, err)
	second, err := c.SearchParts(ctx, "breaker ")
	require.NoError(t, err)

	assert.Equal(t, 1, next.partCalls)
	assert.Equal(t, first, second)

	travel, err := c.SearchTravel(ctx, "bram")
	require.NoError(t, err)
	assert.NotNil(t, travel)
	assert.Empty(t, travel)
	_, _ = c.SearchTravel(ctx, "bram")
	assert.Equal(t, 1, next.travelCalls)
}

func TestCatalog_EmptyQuery(t *testing.T) {
	next := &countingCatalog{}
	c := New(next, cache.NewMemoryCache("svc"), time.Minute)

	parts, err := c.SearchParts(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, parts)
	assert.Zero(t, next.partCalls)
}

func TestCatalog_CacheFailureFallsThrough(t *testing.T) {
	next := &countingCatalog{}
	c := New(next, brokenCache{}, time.Minute)

	parts, err := c.SearchParts(context.Background(), "breaker")
	require.NoError(t, err)
	assert.Len(t, parts, 1)
}

func TestCatalog_RemoteErrorNotCached(t *testing.T) {
	ctx := context.Background()
	next := &countingCatalog{err: errors.New("502")}
	c := New(next, cache.NewMemoryCache("svc"), time.Minute)

	_, err := c.SearchParts(ctx, "breaker")
	require.Error(t, err)

	next.err = nil
	parts, err := c.SearchParts(ctx, "breaker")
	require.NoError(t, err)
	assert.Len(t, parts, 1)
	assert.Equal(t, 2, next.partCalls)
}

func TestSelectPart(t *testing.T) {
	price := 21.5
	assert.Equal(t, Selection{Name: "20A breaker", UnitPrice: "21.50"}, SelectPart(entity.CatalogPart{PartName: "20A breaker", UnitPrice: &price}))
	assert.Equal(t, "0.00", SelectPart(entity.CatalogPart{PartName: "mystery"}).UnitPrice)
}

func TestTravelHours(t *testing.T) {
	assert.Equal(t, "1.5", TravelHours(entity.TravelTime{TravelTimeHours: 1.5}))
	assert.Equal(t, "2", TravelHours(entity.TravelTime{TravelTimeHours: 2}))
}
