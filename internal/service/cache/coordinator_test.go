// internal/service/cache/coordinator_test.go

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

var testLocation = location.Record{
	ID:             1,
	SearchQuery:    "Seattle, WA",
	FormattedQuery: "Seattle, WA, USA",
	Latitude:       47.6062,
	Longitude:      -122.3321,
}

// memStore is an in-memory resource.Store keyed by (kind, location ID).
type memStore struct {
	mu      sync.Mutex
	batches map[string]*resource.Batch
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{batches: make(map[string]*resource.Batch)}
}

func storeKey(kind resource.Kind, locationID int64) string {
	return fmt.Sprintf("%s/%d", kind, locationID)
}

func (s *memStore) Batch(ctx context.Context, kind resource.Kind, locationID int64) (*resource.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.batches[storeKey(kind, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *b
	cp.Records = append([]resource.Record(nil), b.Records...)
	return &cp, nil
}

func (s *memStore) SaveBatch(ctx context.Context, b *resource.Batch) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	cp.Records = append([]resource.Record(nil), b.Records...)
	s.batches[storeKey(b.Kind, b.LocationID)] = &cp
	return nil
}

func (s *memStore) DeleteBatch(ctx context.Context, kind resource.Kind, locationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, storeKey(kind, locationID))
	return nil
}

func (s *memStore) stored(kind resource.Kind, locationID int64) *resource.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches[storeKey(kind, locationID)]
}

// mockAdapter counts fetches and can fail, block, or vary its records.
type mockAdapter struct {
	kind    resource.Kind
	records []resource.Record
	err     error
	gate    chan struct{}
	calls   atomic.Int32
}

func (a *mockAdapter) Kind() resource.Kind { return a.kind }

func (a *mockAdapter) Fetch(ctx context.Context, loc location.Record) ([]resource.Record, error) {
	a.calls.Add(1)
	if a.gate != nil {
		<-a.gate
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.records, nil
}

func forecasts(labels ...string) []resource.Record {
	records := make([]resource.Record, 0, len(labels))
	for _, l := range labels {
		records = append(records, resource.Forecast{Forecast: l, Time: "Mon Jun 03 2024"})
	}
	return records
}

func newTestCoordinator(store resource.Store, adapters ...resource.Adapter) *Coordinator {
	c := NewCoordinator(store, resource.NewFreshnessPolicy(resource.DefaultTTLs()), nil)
	for _, a := range adapters {
		c.Register(a)
	}
	return c
}

func TestMissFetchesAndPersists(t *testing.T) {
	store := newMemStore()
	adapter := &mockAdapter{kind: resource.Weather, records: forecasts("cloudy", "rain")}
	c := newTestCoordinator(store, adapter)

	records, err := c.GetResource(context.Background(), resource.Weather, testLocation)
	require.NoError(t, err)
	require.Equal(t, adapter.records, records)
	require.EqualValues(t, 1, adapter.calls.Load())

	stored := store.stored(resource.Weather, testLocation.ID)
	require.NotNil(t, stored)
	require.Equal(t, adapter.records, stored.Records)
	require.False(t, stored.CreatedAt.IsZero())
}

func TestFreshHitSkipsUpstream(t *testing.T) {
	store := newMemStore()
	adapter := &mockAdapter{kind: resource.Weather, records: forecasts("cloudy")}
	c := newTestCoordinator(store, adapter)

	first, err := c.GetResource(context.Background(), resource.Weather, testLocation)
	require.NoError(t, err)

	// Repeated calls inside the TTL window return the identical batch and
	// never touch the adapter again.
	for i := 0; i < 3; i++ {
		got, err := c.GetResource(context.Background(), resource.Weather, testLocation)
		require.NoError(t, err)
		require.Equal(t, first, got)
	}
	require.EqualValues(t, 1, adapter.calls.Load())
}

func TestStaleBatchFullyReplaced(t *testing.T) {
	store := newMemStore()
	adapter := &mockAdapter{kind: resource.Weather, records: forecasts("old forecast")}
	c := newTestCoordinator(store, adapter)

	t0 := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	now := t0
	c.now = func() time.Time { return now }

	_, err := c.GetResource(context.Background(), resource.Weather, testLocation)
	require.NoError(t, err)
	require.Equal(t, t0, store.stored(resource.Weather, testLocation.ID).CreatedAt)

	// Inside the 15s TTL: served from the store.
	now = t0.Add(10 * time.Second)
	got, err := c.GetResource(context.Background(), resource.Weather, testLocation)
	require.NoError(t, err)
	require.Equal(t, forecasts("old forecast"), got)
	require.EqualValues(t, 1, adapter.calls.Load())

	// Past the TTL: the old batch is evicted and replaced wholesale.
	adapter.records = forecasts("new forecast")
	now = t0.Add(20 * time.Second)
	got, err = c.GetResource(context.Background(), resource.Weather, testLocation)
	require.NoError(t, err)
	require.Equal(t, forecasts("new forecast"), got)
	require.EqualValues(t, 2, adapter.calls.Load())

	stored := store.stored(resource.Weather, testLocation.ID)
	require.Equal(t, t0.Add(20*time.Second), stored.CreatedAt)
	require.Equal(t, forecasts("new forecast"), stored.Records)
	require.NotContains(t, stored.Records, resource.Forecast{Forecast: "old forecast", Time: "Mon Jun 03 2024"})
}

func TestUpstreamFailurePersistsNothing(t *testing.T) {
	store := newMemStore()
	adapter := &mockAdapter{kind: resource.Trails, err: errors.New("connection refused")}
	c := newTestCoordinator(store, adapter)

	_, err := c.GetResource(context.Background(), resource.Trails, testLocation)
	require.Error(t, err)

	var ue *resource.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, string(resource.Trails), ue.Provider)

	// Nothing was written, so the next caller retries the fetch.
	require.Nil(t, store.stored(resource.Trails, testLocation.ID))
	adapter.err = nil
	adapter.records = []resource.Record{resource.Trail{Name: "Rattlesnake Ledge"}}
	records, err := c.GetResource(context.Background(), resource.Trails, testLocation)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestStaleEvictionSurvivesFetchFailure(t *testing.T) {
	store := newMemStore()
	adapter := &mockAdapter{kind: resource.Weather, records: forecasts("first")}
	c := newTestCoordinator(store, adapter)

	t0 := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	now := t0
	c.now = func() time.Time { return now }

	_, err := c.GetResource(context.Background(), resource.Weather, testLocation)
	require.NoError(t, err)

	// Stale batch is deleted even though the refetch fails: the store is
	// left empty for the key rather than serving expired data.
	adapter.err = errors.New("timeout")
	now = t0.Add(time.Minute)
	_, err = c.GetResource(context.Background(), resource.Weather, testLocation)
	require.Error(t, err)
	require.Nil(t, store.stored(resource.Weather, testLocation.ID))
}

func TestUnregisteredKind(t *testing.T) {
	c := newTestCoordinator(newMemStore())

	_, err := c.GetResource(context.Background(), resource.Movies, testLocation)
	require.Error(t, err)
}

func TestConcurrentMissesCollapse(t *testing.T) {
	store := newMemStore()
	adapter := &mockAdapter{
		kind:    resource.Meetups,
		records: []resource.Record{resource.Meetup{Name: "Go meetup"}},
		gate:    make(chan struct{}),
	}
	c := newTestCoordinator(store, adapter)

	const callers = 10
	results := make([][]resource.Record, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetResource(context.Background(), resource.Meetups, testLocation)
		}(i)
	}

	// Let every caller reach the flight before the fetch completes.
	time.Sleep(50 * time.Millisecond)
	close(adapter.gate)
	wg.Wait()

	require.EqualValues(t, 1, adapter.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, adapter.records, results[i])
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("disk full")
	adapter := &mockAdapter{kind: resource.Restaurants, records: []resource.Record{resource.Restaurant{Name: "Pike Place Chowder"}}}
	c := newTestCoordinator(store, adapter)

	_, err := c.GetResource(context.Background(), resource.Restaurants, testLocation)
	require.ErrorContains(t, err, "disk full")
}
