// internal/server/handlers/resource_test.go

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"cityscout/internal/domain/location"
	"cityscout/internal/domain/resource"
)

type stubResolver struct {
	rec   *location.Record
	err   error
	calls int
}

func (r *stubResolver) Resolve(ctx context.Context, query string) (*location.Record, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	cp := *r.rec
	cp.SearchQuery = query
	return &cp, nil
}

type stubGetter struct {
	records []resource.Record
	err     error
	lastLoc location.Record
}

func (g *stubGetter) GetResource(ctx context.Context, kind resource.Kind, loc location.Record) ([]resource.Record, error) {
	g.lastLoc = loc
	if g.err != nil {
		return nil, g.err
	}
	return g.records, nil
}

func seattleRecord() *location.Record {
	return &location.Record{
		ID:             7,
		SearchQuery:    "Seattle, WA",
		FormattedQuery: "Seattle, WA, USA",
		Latitude:       47.6062,
		Longitude:      -122.3321,
	}
}

func doGet(h http.HandlerFunc, data string) *httptest.ResponseRecorder {
	target := "/weather"
	if data != "" {
		target += "?data=" + url.QueryEscape(data)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func TestGetResourceWithSerializedLocation(t *testing.T) {
	resolver := &stubResolver{rec: seattleRecord()}
	getter := &stubGetter{records: []resource.Record{resource.Forecast{Forecast: "rain", Time: "Mon Jun 03 2024"}}}
	h := NewResourceHandler(resolver, getter)

	data, err := json.Marshal(seattleRecord())
	require.NoError(t, err)

	rr := doGet(h.Get(resource.Weather), string(data))
	require.Equal(t, http.StatusOK, rr.Code)

	// A record that already carries its ID needs no re-resolution.
	require.Equal(t, 0, resolver.calls)
	require.EqualValues(t, 7, getter.lastLoc.ID)

	var got []resource.Forecast
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "rain", got[0].Forecast)
}

func TestGetResourceWithRawQuery(t *testing.T) {
	resolver := &stubResolver{rec: seattleRecord()}
	getter := &stubGetter{records: []resource.Record{}}
	h := NewResourceHandler(resolver, getter)

	rr := doGet(h.Get(resource.Weather), "Seattle, WA")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, resolver.calls)
	require.EqualValues(t, 7, getter.lastLoc.ID)
}

func TestGetResourceMissingData(t *testing.T) {
	h := NewResourceHandler(&stubResolver{rec: seattleRecord()}, &stubGetter{})

	rr := doGet(h.Get(resource.Weather), "")
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetResourceNoMatch(t *testing.T) {
	h := NewResourceHandler(&stubResolver{err: location.ErrNoMatch}, &stubGetter{})

	rr := doGet(h.Get(resource.Weather), "xyzzy")
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetResourceUpstreamFailure(t *testing.T) {
	resolver := &stubResolver{rec: seattleRecord()}
	getter := &stubGetter{err: &resource.UpstreamError{Provider: "weather", Err: errors.New("timeout")}}
	h := NewResourceHandler(resolver, getter)

	rr := doGet(h.Get(resource.Weather), "Seattle, WA")
	require.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGetResourceInternalFailure(t *testing.T) {
	resolver := &stubResolver{rec: seattleRecord()}
	getter := &stubGetter{err: errors.New("store unavailable")}
	h := NewResourceHandler(resolver, getter)

	rr := doGet(h.Get(resource.Weather), "Seattle, WA")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetLocation(t *testing.T) {
	resolver := &stubResolver{rec: seattleRecord()}
	h := NewLocationHandler(resolver)

	req := httptest.NewRequest(http.MethodGet, "/location?data="+url.QueryEscape("Seattle, WA"), nil)
	rr := httptest.NewRecorder()
	h.GetLocation(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var got location.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Equal(t, "Seattle, WA", got.SearchQuery)
	require.Equal(t, "Seattle, WA, USA", got.FormattedQuery)
}

func TestGetLocationMissingData(t *testing.T) {
	h := NewLocationHandler(&stubResolver{rec: seattleRecord()})

	req := httptest.NewRequest(http.MethodGet, "/location", nil)
	rr := httptest.NewRecorder()
	h.GetLocation(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}
