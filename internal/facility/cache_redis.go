package facility

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"parkly/internal/domain"
	"parkly/internal/events/outbox"
)

const cacheTTL = 5 * time.Minute

// Cached wraps a Store with a read-through redis cache on FindByID, the hot
// path of every command touching a facility. Saves invalidate before
// writing through, so readers never see a facility older than the last
// committed save for longer than one round trip. Cache failures degrade to
// the underlying store, never to an error.
type Cached struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

func NewCached(inner Store, client *redis.Client, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, client: client, logger: logger}
}

func cacheKey(id domain.FacilityID) string {
	return "facility:" + id.String()
}

func (c *Cached) Save(ctx context.Context, facility *domain.ParkingFacility, entries []outbox.Entry) error {
	if err := c.client.Del(ctx, cacheKey(facility.ID())).Err(); err != nil {
		c.logger.Warn("facility cache invalidation failed", "facility_id", facility.ID().String(), "error", err)
	}
	return c.inner.Save(ctx, facility, entries)
}

func (c *Cached) FindByID(ctx context.Context, id domain.FacilityID) (*domain.ParkingFacility, error) {
	cached, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var snap domain.FacilitySnapshot
		if err := json.Unmarshal(cached, &snap); err == nil {
			if facility, err := domain.FacilityFromSnapshot(snap); err == nil {
				return facility, nil
			}
		}
		// Unreadable cache entry: fall through and repopulate.
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("facility cache read failed", "facility_id", id.String(), "error", err)
	}

	facility, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(facility.Snapshot()); err == nil {
		if err := c.client.Set(ctx, cacheKey(id), payload, cacheTTL).Err(); err != nil {
			c.logger.Warn("facility cache write failed", "facility_id", id.String(), "error", err)
		}
	}
	return facility, nil
}

func (c *Cached) FindByLocation(ctx context.Context, center domain.Location, radiusKm float64) ([]*domain.ParkingFacility, error) {
	return c.inner.FindByLocation(ctx, center, radiusKm)
}
