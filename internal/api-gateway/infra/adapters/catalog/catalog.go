// Package catalog serves the parts and travel autocomplete through a cache
// in front of the remote server.
package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/pkg/cache"
	"github.com/allstar-electrical/workorders/internal/workorder/pricing"
)

const (
	kindParts  = "parts"
	kindTravel = "travel"
)

// Ensure Catalog implements the port at compile time.
var _ ports.CatalogService = (*Catalog)(nil)

// Catalog is a read-through cache over a ports.CatalogService.
type Catalog struct {
	next  ports.CatalogService
	cache cache.Cache
	ttl   time.Duration
}

func New(next ports.CatalogService, c cache.Cache, ttl time.Duration) *Catalog {
	return &Catalog{next: next, cache: c, ttl: ttl}
}

func (c *Catalog) SearchParts(ctx context.Context, partName string) ([]entity.CatalogPart, error) {
	return lookup(ctx, c, kindParts, partName, c.next.SearchParts)
}

func (c *Catalog) SearchTravel(ctx context.Context, location string) ([]entity.TravelTime, error) {
	return lookup(ctx, c, kindTravel, location, c.next.SearchTravel)
}

func lookup[T any](ctx context.Context, c *Catalog, kind, query string, fetch func(context.Context, string) ([]T, error)) ([]T, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []T{}, nil
	}
	key := c.cache.GenerateKey("catalog", kind+":"+strings.ToLower(query))

	var cached []T
	found, err := cache.GetJSON(ctx, c.cache, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	}
	if found {
		slog.DebugContext(ctx, "catalog cache hit", "key", key)
		return cached, nil
	}

	rows, err := fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	if err := cache.SetJSON(ctx, c.cache, key, rows, c.ttl); err != nil {
		slog.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
	return rows, nil
}

// Selection is what the form receives when a suggestion is picked.
type Selection struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
}

// SelectPart fills a form line from a catalog row; a missing price is 0.00.
func SelectPart(p entity.CatalogPart) Selection {
	price := 0.0
	if p.UnitPrice != nil {
		price = *p.UnitPrice
	}
	return Selection{Name: p.PartName, UnitPrice: pricing.FormatFloat(price)}
}

// TravelHours formats a travel row for the travelHours field in its
// shortest form: 1.5, not 1.50.
func TravelHours(t entity.TravelTime) string {
	return strconv.FormatFloat(t.TravelTimeHours, 'f', -1, 64)
}
