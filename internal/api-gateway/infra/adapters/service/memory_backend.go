package service

import (
	"context"
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/allstar-electrical/workorders/internal/api-gateway/core/domain/entity"
	"github.com/allstar-electrical/workorders/internal/api-gateway/core/ports"
	"github.com/allstar-electrical/workorders/internal/workorder/domain"
)

// Ensure memoryBackend implements the port at compile time.
var _ ports.Backend = (*memoryBackend)(nil)

// memoryBackend is an in-memory implementation of ports.Backend intended for
// local development (REMOTE_BASE_URL=memory) and tests. Nothing is persisted.
type memoryBackend struct {
	mu     sync.RWMutex
	orders map[string]domain.WorkOrder
	media  map[string][]string
	parts  []entity.CatalogPart
	travel []entity.TravelTime
}

// NewMemoryBackend returns an empty store with a small seeded catalog.
func NewMemoryBackend() *memoryBackend {
	return &memoryBackend{
		orders: make(map[string]domain.WorkOrder),
		media:  make(map[string][]string),
		parts:  seedParts(),
		travel: []entity.TravelTime{
			{Location: "Brampton", TravelTimeHours: 1},
			{Location: "Mississauga", TravelTimeHours: 0.75},
			{Location: "Toronto Downtown", TravelTimeHours: 1.5},
			{Location: "Vaughan", TravelTimeHours: 1.25},
		},
	}
}

func seedParts() []entity.CatalogPart {
	row := func(id int, name, number string, cost, price float64) entity.CatalogPart {
		return entity.CatalogPart{PartID: id, PartName: name, PartNumber: &number, UnitCost: &cost, UnitPrice: &price}
	}
	return []entity.CatalogPart{
		row(1, "15A Single Pole Breaker", "QO115", 8.10, 19.99),
		row(2, "20A Single Pole Breaker", "QO120", 8.40, 21.5),
		row(3, "14/2 NMD90 Wire (m)", "NMD14-2", 0.38, 0.85),
		row(4, "LED Troffer 2x4", "LT24-40W", 61.00, 129),
		row(5, "Duplex Receptacle 15A", "CR15", 1.20, 3.25),
	}
}

func (m *memoryBackend) CreateWorkOrder(_ context.Context, wo *domain.WorkOrder) error {
	if wo.FolderName == "" {
		return fmt.Errorf("memory: create work order: empty folder name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Like the server, creating over an existing folder replaces the document.
	m.orders[wo.FolderName] = cloneWorkOrder(wo)
	return nil
}

func (m *memoryBackend) UpdateWorkOrder(_ context.Context, wo *domain.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[wo.FolderName]; !ok {
		return fmt.Errorf("memory: work order %s: %w", wo.FolderName, ports.ErrNotFound)
	}
	m.orders[wo.FolderName] = cloneWorkOrder(wo)
	return nil
}

func (m *memoryBackend) GetWorkOrder(_ context.Context, folder string) (*domain.WorkOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wo, ok := m.orders[folder]
	if !ok {
		return nil, fmt.Errorf("memory: work order %s: %w", folder, ports.ErrNotFound)
	}
	out := cloneWorkOrder(&wo)
	out.FolderName = folder
	return &out, nil
}

func (m *memoryBackend) DeleteWorkOrder(_ context.Context, folder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[folder]; !ok {
		return fmt.Errorf("memory: work order %s: %w", folder, ports.ErrNotFound)
	}
	delete(m.orders, folder)
	delete(m.media, folder)
	return nil
}

// Ping always succeeds.
func (m *memoryBackend) Ping(context.Context) error { return nil }

func (m *memoryBackend) ListFolders(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	folders := make([]string, 0, len(m.orders))
	for f := range m.orders {
		folders = append(folders, f)
	}
	sort.Strings(folders)
	return folders, nil
}

// SearchWorkOrders matches query case-insensitively against the customer,
// site address, purchase order number and site contact.
func (m *memoryBackend) SearchWorkOrders(_ context.Context, query string) ([]entity.SearchMatch, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := []entity.SearchMatch{}
	if q == "" {
		return matches, nil
	}
	for folder, wo := range m.orders {
		fields := []string{wo.Customer, wo.SiteAddress, wo.PurchaseOrderNumber, wo.SiteContact}
		if !slices.ContainsFunc(fields, func(v string) bool { return strings.Contains(strings.ToLower(v), q) }) {
			continue
		}
		matches = append(matches, entity.SearchMatch{
			Folder:      folder,
			Customer:    orNA(wo.Customer),
			SiteAddress: orNA(wo.SiteAddress),
			PONumber:    orNA(wo.PurchaseOrderNumber),
			SiteContact: orNA(wo.SiteContact),
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Folder < matches[j].Folder })
	return matches, nil
}

// UploadMedia stores only the names; a file whose name is already taken gets
// a uuid prefix instead of overwriting.
func (m *memoryBackend) UploadMedia(_ context.Context, folder string, files []entity.MediaFile) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[folder]; !ok {
		return nil, fmt.Errorf("memory: work order %s: %w", folder, ports.ErrNotFound)
	}
	stored := make([]string, 0, len(files))
	for _, f := range files {
		name := path.Base(f.Filename)
		if slices.Contains(m.media[folder], name) {
			name = uuid.NewString()[:8] + "_" + name
		}
		m.media[folder] = append(m.media[folder], name)
		stored = append(stored, name)
	}
	return stored, nil
}

func (m *memoryBackend) ListMedia(_ context.Context, folder string) ([]entity.MediaItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := m.media[folder]
	items := make([]entity.MediaItem, len(names))
	for i, n := range names {
		items[i] = entity.NewMediaItem("/media/" + folder + "/" + n)
	}
	return items, nil
}

func (m *memoryBackend) DeleteMedia(_ context.Context, folder, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := m.media[folder]
	i := slices.Index(names, filename)
	if i < 0 {
		return fmt.Errorf("memory: media %s/%s: %w", folder, filename, ports.ErrNotFound)
	}
	m.media[folder] = slices.Delete(names, i, i+1)
	return nil
}

func (m *memoryBackend) SearchParts(_ context.Context, partName string) ([]entity.CatalogPart, error) {
	q := strings.ToLower(partName)
	out := []entity.CatalogPart{}
	for _, p := range m.parts {
		if strings.Contains(strings.ToLower(p.PartName), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryBackend) SearchTravel(_ context.Context, location string) ([]entity.TravelTime, error) {
	q := strings.ToLower(location)
	out := []entity.TravelTime{}
	for _, t := range m.travel {
		if strings.Contains(strings.ToLower(t.Location), q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func cloneWorkOrder(wo *domain.WorkOrder) domain.WorkOrder {
	c := *wo
	c.Parts = slices.Clone(wo.Parts)
	c.FolderName = ""
	return c
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
