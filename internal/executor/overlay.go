package executor

import (
	"context"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/structures"
)

type recordSource interface {
	lookup(ctx context.Context, addr address.Address) (*models.Record, error)
}

type storeSource struct {
	store Store
}

func (source storeSource) lookup(ctx context.Context, addr address.Address) (*models.Record, error) {
	return source.store.GetRecord(ctx, addr)
}

// Overlay is a copy on write view of records. Writes stay in the overlay
// until it is merged into its parent.
type Overlay struct {
	parent recordSource
	mods   *structures.BytesMap[*models.Record]
}

func newOverlay(parent recordSource) *Overlay {
	return &Overlay{
		parent: parent,
		mods:   structures.NewBytesMap[*models.Record](),
	}
}

func (overlay *Overlay) lookup(ctx context.Context, addr address.Address) (*models.Record, error) {
	if record, exists := overlay.mods.Get(addr.Bytes()); exists {
		return record, nil
	}
	return overlay.parent.lookup(ctx, addr)
}

func (overlay *Overlay) child() *Overlay {
	return newOverlay(overlay)
}

func (overlay *Overlay) put(record *models.Record) {
	overlay.mods.Put(record.Address.Bytes(), record)
}

func (overlay *Overlay) mergeInto(parent *Overlay) {
	for _, record := range overlay.mods.SortedValues() {
		parent.put(record)
	}
}

func (overlay *Overlay) Len() int {
	return overlay.mods.Length()
}

// Records returns the modified records ordered by address.
func (overlay *Overlay) Records() []*models.Record {
	return overlay.mods.SortedValues()
}
