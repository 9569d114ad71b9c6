// internal/catalog/loader.go
package catalog

import (
	"context"
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/common/logger"
	"career-workers/internal/common/metrics"
)

// Source produces catalog rows.
type Source interface {
	Name() string
	Load(ctx context.Context) (Batch, error)
}

// Loader builds the startup catalog from a source, going through the
// snapshot cache when one is configured.
type Loader struct {
	source Source
	cache  *SnapshotCache
	strict bool
	logger logger.Logger
}

// NewLoader creates a loader. cache may be nil. When strict is set, any
// malformed row fails the whole load.
func NewLoader(source Source, cache *SnapshotCache, strict bool, log logger.Logger) *Loader {
	return &Loader{
		source: source,
		cache:  cache,
		strict: strict,
		logger: log.WithFields(map[string]interface{}{"catalogSource": source.Name()}),
	}
}

// Load returns a new immutable catalog.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	start := time.Now()

	if l.cache != nil {
		records, hit, err := l.cache.Get(ctx, l.source.Name())
		switch {
		case err != nil:
			metrics.CatalogCacheLookups.WithLabelValues("error").Inc()
			l.logger.Warn("catalog cache read failed, loading from source", map[string]interface{}{
				"error": err.Error(),
			})
		case hit:
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			cat := New(records)
			metrics.CatalogRecords.Set(float64(cat.Len()))
			l.logger.Info("catalog loaded from cache", map[string]interface{}{
				"records":  cat.Len(),
				"duration": time.Since(start).String(),
			})
			return cat, nil
		default:
			metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	batch, err := l.source.Load(ctx)
	if err != nil {
		if stdErr, ok := errors.AsStandardError(err); ok {
			return nil, stdErr
		}
		return nil, errors.NewCatalogLoadFailedError(l.source.Name(), err)
	}

	for _, rej := range batch.Rejected {
		metrics.CatalogRejectedRecords.Inc()
		l.logger.Warn("malformed catalog record", map[string]interface{}{
			"details":  rej.Details,
			"metadata": rej.Metadata,
		})
	}
	if l.strict && len(batch.Rejected) > 0 {
		return nil, batch.Rejected[0]
	}
	if len(batch.Records) == 0 {
		return nil, errors.NewCatalogEmptyError(l.source.Name())
	}

	cat := New(batch.Records)
	metrics.CatalogRecords.Set(float64(cat.Len()))

	if l.cache != nil {
		if err := l.cache.Put(ctx, l.source.Name(), batch.Records); err != nil {
			l.logger.Warn("catalog cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	l.logger.Info("catalog loaded", map[string]interface{}{
		"records":  cat.Len(),
		"rejected": len(batch.Rejected),
		"streams":  cat.Streams(),
		"duration": time.Since(start).String(),
	})
	return cat, nil
}

// Refresh drops the cached snapshot and loads from the source.
func (l *Loader) Refresh(ctx context.Context) (*Catalog, error) {
	if l.cache != nil {
		if err := l.cache.Invalidate(ctx); err != nil {
			l.logger.Warn("catalog cache invalidate failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return l.Load(ctx)
}
