// internal/service/cache/coordinator.go

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
	"cityscout/internal/events"
	"cityscout/internal/logger"
	"cityscout/internal/telemetry"
)

// Coordinator applies the lookup-or-fetch-or-refresh protocol for every
// resource kind: serve a fresh stored batch verbatim, delete a stale one and
// refetch, fetch and persist on miss. The protocol is identical per kind;
// only the adapter and TTL differ.
type Coordinator struct {
	store     resource.Store
	policy    resource.FreshnessPolicy
	adapters  map[resource.Kind]resource.Adapter
	publisher *events.Publisher
	group     singleflight.Group
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewCoordinator creates a coordinator. The publisher may be nil, in which
// case refresh events are not emitted.
func NewCoordinator(store resource.Store, policy resource.FreshnessPolicy, publisher *events.Publisher) *Coordinator {
	return &Coordinator{
		store:     store,
		policy:    policy,
		adapters:  make(map[resource.Kind]resource.Adapter),
		publisher: publisher,
		now:       time.Now,
		log:       logger.Named("cache"),
	}
}

// Register wires an upstream adapter for its kind.
func (c *Coordinator) Register(adapter resource.Adapter) {
	c.adapters[adapter.Kind()] = adapter
}

// GetResource returns the resource batch for a (kind, location) pair.
// Concurrent requests for the same pair collapse into one flight, so the
// delete-fetch-persist sequence runs once and siblings share its result.
func (c *Coordinator) GetResource(ctx context.Context, kind resource.Kind, loc location.Record) ([]resource.Record, error) {
	adapter, ok := c.adapters[kind]
	if !ok {
		return nil, fmt.Errorf("no adapter registered for resource kind %q", kind)
	}

	key := fmt.Sprintf("%s/%d", kind, loc.ID)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return c.lookupOrFetch(ctx, kind, adapter, loc)
	})
	if err != nil {
		return nil, err
	}
	return v.([]resource.Record), nil
}

func (c *Coordinator) lookupOrFetch(ctx context.Context, kind resource.Kind, adapter resource.Adapter, loc location.Record) ([]resource.Record, error) {
	batch, err := c.store.Batch(ctx, kind, loc.ID)
	if err != nil {
		return nil, err
	}

	if batch != nil {
		if c.policy.IsFresh(kind, batch.CreatedAt, c.now()) {
			telemetry.CacheHits.WithLabelValues(string(kind)).Inc()
			c.log.Debugw("batch served from store", "kind", kind, "location_id", loc.ID, "records", len(batch.Records))
			return batch.Records, nil
		}

		// Stale batches are replaced in full rather than reconciled; the
		// old rows go away before the refetch.
		telemetry.StaleEvictions.WithLabelValues(string(kind)).Inc()
		c.log.Infow("batch stale, evicting", "kind", kind, "location_id", loc.ID, "created_at", batch.CreatedAt)
		if err := c.store.DeleteBatch(ctx, kind, loc.ID); err != nil {
			return nil, err
		}
	} else {
		telemetry.CacheMisses.WithLabelValues(string(kind)).Inc()
		c.log.Debugw("batch not stored, fetching", "kind", kind, "location_id", loc.ID)
	}

	telemetry.UpstreamRequests.WithLabelValues(string(kind)).Inc()
	records, err := adapter.Fetch(ctx, loc)
	if err != nil {
		telemetry.UpstreamErrors.WithLabelValues(string(kind)).Inc()
		var ue *resource.UpstreamError
		if errors.As(err, &ue) {
			return nil, err
		}
		return nil, &resource.UpstreamError{Provider: string(kind), Err: err}
	}

	createdAt := c.now()
	if err := c.store.SaveBatch(ctx, &resource.Batch{
		LocationID: loc.ID,
		Kind:       kind,
		CreatedAt:  createdAt,
		Records:    records,
	}); err != nil {
		return nil, err
	}

	if err := c.publisher.PublishRefresh(kind, loc.ID, len(records), createdAt); err != nil {
		// Event delivery is best effort; the batch is already persisted.
		c.log.Warnw("refresh event not published", "kind", kind, "location_id", loc.ID, "error", err)
	}

	c.log.Infow("batch fetched and stored", "kind", kind, "location_id", loc.ID, "records", len(records))
	return records, nil
}
