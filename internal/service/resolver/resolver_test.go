// internal/service/resolver/resolver_test.go

package resolver

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

// memLocationStore is an in-memory location.Store with upsert semantics on
// search_query, matching the unique constraint of the real table.
type memLocationStore struct {
	mu      sync.Mutex
	byQuery map[string]*location.Record
	nextID  int64
	saves   int
}

func newMemLocationStore() *memLocationStore {
	return &memLocationStore{byQuery: make(map[string]*location.Record)}
}

func (s *memLocationStore) ByQuery(ctx context.Context, query string) (*location.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byQuery[query]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (s *memLocationStore) Save(ctx context.Context, rec *location.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if existing, ok := s.byQuery[rec.SearchQuery]; ok {
		rec.ID = existing.ID
		return nil
	}
	s.nextID++
	rec.ID = s.nextID
	cp := *rec
	s.byQuery[rec.SearchQuery] = &cp
	return nil
}

func (s *memLocationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byQuery)
}

// mockGeocoder counts calls and can fail or return no match.
type mockGeocoder struct {
	rec   *location.Record
	err   error
	calls atomic.Int32
}

func (g *mockGeocoder) Geocode(ctx context.Context, query string) (*location.Record, error) {
	g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	cp := *g.rec
	cp.SearchQuery = query
	return &cp, nil
}

func seattle() *location.Record {
	return &location.Record{
		FormattedQuery: "Seattle, WA, USA",
		Latitude:       47.6062,
		Longitude:      -122.3321,
	}
}

func TestResolveMissGeocodesAndStores(t *testing.T) {
	store := newMemLocationStore()
	geocoder := &mockGeocoder{rec: seattle()}
	svc := New(store, geocoder)

	rec, err := svc.Resolve(context.Background(), "Seattle, WA")
	require.NoError(t, err)
	require.Equal(t, "Seattle, WA", rec.SearchQuery)
	require.Equal(t, "Seattle, WA, USA", rec.FormattedQuery)
	require.Equal(t, 47.6062, rec.Latitude)
	require.Equal(t, -122.3321, rec.Longitude)
	require.NotZero(t, rec.ID)
	require.EqualValues(t, 1, geocoder.calls.Load())
}

func TestResolveHitSkipsGeocoder(t *testing.T) {
	store := newMemLocationStore()
	geocoder := &mockGeocoder{rec: seattle()}
	svc := New(store, geocoder)

	first, err := svc.Resolve(context.Background(), "Seattle, WA")
	require.NoError(t, err)

	second, err := svc.Resolve(context.Background(), "Seattle, WA")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first, second)
	require.EqualValues(t, 1, geocoder.calls.Load())
	require.Equal(t, 1, store.count())
}

func TestResolveNoMatch(t *testing.T) {
	store := newMemLocationStore()
	geocoder := &mockGeocoder{err: location.ErrNoMatch}
	svc := New(store, geocoder)

	_, err := svc.Resolve(context.Background(), "xyzzy")
	require.ErrorIs(t, err, location.ErrNoMatch)

	// A failed resolution is never cached as a negative result.
	require.Equal(t, 0, store.count())
}

func TestResolveUpstreamFailure(t *testing.T) {
	store := newMemLocationStore()
	geocoder := &mockGeocoder{err: errors.New("dial tcp: timeout")}
	svc := New(store, geocoder)

	_, err := svc.Resolve(context.Background(), "Seattle, WA")

	var ue *resource.UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, "geocoder", ue.Provider)
	require.Equal(t, 0, store.count())
}

func TestResolveEmptyQuery(t *testing.T) {
	svc := New(newMemLocationStore(), &mockGeocoder{rec: seattle()})

	_, err := svc.Resolve(context.Background(), "   ")
	require.ErrorIs(t, err, location.ErrNoMatch)
}

func TestConcurrentResolvesPersistOnce(t *testing.T) {
	store := newMemLocationStore()
	geocoder := &mockGeocoder{rec: seattle()}
	svc := New(store, geocoder)

	const callers = 10
	ids := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, err := svc.Resolve(context.Background(), "Seattle, WA")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = rec.ID
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, store.count())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, ids[0], ids[i])
	}
}
