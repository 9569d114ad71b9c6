// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"career-workers/internal/common/errors"
	"career-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

// snapshotVersion changes whenever the cached layout changes, so old
// snapshots read as misses.
const snapshotVersion = 2

type snapshot struct {
	Version  int                   `json:"version"`
	Source   string                `json:"source"`
	LoadedAt time.Time             `json:"loadedAt"`
	Records  []models.CareerRecord `json:"records"`
}

// SnapshotCache stores a loaded catalog in Redis so restarts skip the source.
type SnapshotCache struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewSnapshotCache(client redis.Cmdable, key string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached records. A missing, stale-layout or undecodable
// snapshot is reported as a miss.
func (c *SnapshotCache) Get(ctx context.Context, source string) ([]models.CareerRecord, bool, error) {
	data, err := c.client.Get(ctx, c.key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewCacheUnavailableError(fmt.Errorf("get catalog snapshot: %w", err))
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, nil
	}
	if snap.Version != snapshotVersion || snap.Source != source || len(snap.Records) == 0 {
		return nil, false, nil
	}
	return snap.Records, true, nil
}

func (c *SnapshotCache) Put(ctx context.Context, source string, records []models.CareerRecord) error {
	data, err := json.Marshal(snapshot{
		Version:  snapshotVersion,
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Records:  records,
	})
	if err != nil {
		return fmt.Errorf("encode catalog snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key, data, c.ttl).Err(); err != nil {
		return errors.NewCacheUnavailableError(fmt.Errorf("set catalog snapshot: %w", err))
	}
	return nil
}

// Invalidate drops the snapshot; catalog-sync calls it after writing the source.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return errors.NewCacheUnavailableError(fmt.Errorf("delete catalog snapshot: %w", err))
	}
	return nil
}
