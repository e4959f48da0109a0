package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"financeiro/internal/cache"
	"financeiro/internal/core"
	applog "financeiro/internal/log"
	"financeiro/internal/sheets"
)

const (
	viewCacheSize = 24
	viewCacheTTL  = 5 * time.Minute
)

// MirrorView reads month sheets back from the mirror. Results are cached
// until the sheet is written through a MirrorWriter wired with OnWrite.
// A load that overlaps an invalidation of its key is returned to its callers
// but never cached.
type MirrorView struct {
	mirror sheets.Mirror
	rows   *cache.LRU[core.SheetKey, []sheets.Row]
	loads  singleflight.Group

	mu   sync.Mutex
	gens map[core.SheetKey]uint64
}

func NewMirrorView(m sheets.Mirror) *MirrorView {
	return &MirrorView{
		mirror: m,
		rows:   cache.NewLRU[core.SheetKey, []sheets.Row](viewCacheSize, viewCacheTTL),
		gens:   make(map[core.SheetKey]uint64),
	}
}

// Cache exposes the row cache for registration with a cache.Janitor.
func (v *MirrorView) Cache() cache.Cleaner {
	return v.rows
}

// Month returns the rows of the month sheet key. A missing sheet has no rows.
func (v *MirrorView) Month(ctx context.Context, key core.SheetKey) ([]sheets.Row, error) {
	if v == nil || v.mirror == nil {
		return nil, sheets.ErrNotConfigured
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if rows, ok := v.rows.Get(key); ok {
		return rows, nil
	}

	gen := v.generation(key)
	flight := key.String() + "@" + strconv.FormatUint(gen, 10)
	res, err, _ := v.loads.Do(flight, func() (any, error) {
		rows, err := v.mirror.ListRows(ctx, key)
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		if v.gens[key] == gen {
			v.rows.Set(key, rows)
		}
		v.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", key, err)
	}
	return res.([]sheets.Row), nil
}

func (v *MirrorView) generation(key core.SheetKey) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.gens[key]
}

// Sheets lists the month sheets of mirrors that can enumerate them.
func (v *MirrorView) Sheets(ctx context.Context) ([]core.SheetKey, error) {
	if v == nil || v.mirror == nil {
		return nil, sheets.ErrNotConfigured
	}
	lister, ok := v.mirror.(sheets.SheetLister)
	if !ok {
		return nil, nil
	}
	return lister.ListSheets(ctx)
}

// Invalidate drops the cached rows of key.
func (v *MirrorView) Invalidate(key core.SheetKey) {
	if v == nil {
		return
	}
	v.mu.Lock()
	v.gens[key]++
	v.rows.Delete(key)
	v.mu.Unlock()
	slog.Debug("Mirror view invalidated",
		applog.FieldComponent, applog.ComponentCache,
		applog.FieldSheet, key.String())
}
