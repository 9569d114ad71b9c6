// internal/catalog/holder.go
package catalog

import (
	"context"
	"sync/atomic"
)

// Holder publishes the current catalog to concurrent readers. A reload swaps
// in a new Catalog; readers holding the old one keep a consistent view.
type Holder struct {
	current atomic.Pointer[Catalog]
	loader  *Loader
}

func NewHolder(initial *Catalog, loader *Loader) *Holder {
	h := &Holder{loader: loader}
	if initial == nil {
		initial = New(nil)
	}
	h.current.Store(initial)
	return h
}

func (h *Holder) Current() *Catalog {
	return h.current.Load()
}

// Reload reads the source again, bypassing the snapshot cache, and publishes
// the result. On error the current catalog stays in place.
func (h *Holder) Reload(ctx context.Context) (*Catalog, error) {
	if h.loader == nil {
		return h.Current(), nil
	}
	next, err := h.loader.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	h.current.Store(next)
	return next, nil
}

// Provider hands out the catalog currently in service.
type Provider interface {
	Current() *Catalog
}

// Static is a Provider for a fixed catalog.
type Static struct {
	Catalog *Catalog
}

func (s Static) Current() *Catalog {
	return s.Catalog
}
