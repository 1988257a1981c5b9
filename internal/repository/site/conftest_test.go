package site

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fieldaim/internal/db"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	geoAddFn       func(ctx context.Context, key, member string, lat, lon float64) error
	geoRemoveFn    func(ctx context.Context, key, member string) error
	geoSearchFn    func(ctx context.Context, key string, lat, lon, radius float64) ([]db.GeoHit, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) GeoAdd(ctx context.Context, key, member string, lat, lon float64) error {
	if m.geoAddFn != nil {
		return m.geoAddFn(ctx, key, member, lat, lon)
	}
	return nil
}

func (m *mockStore) GeoRemove(ctx context.Context, key, member string) error {
	if m.geoRemoveFn != nil {
		return m.geoRemoveFn(ctx, key, member)
	}
	return nil
}

func (m *mockStore) GeoSearch(ctx context.Context, key string, lat, lon, radius float64) ([]db.GeoHit, error) {
	if m.geoSearchFn != nil {
		return m.geoSearchFn(ctx, key, lat, lon, radius)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func testSite(t *testing.T) domsite.Site {
	t.Helper()
	return domsite.Reconstruct(
		"tower-1",
		"Hilltop",
		geo.Coordinate{Lat: 40.0150, Lon: -105.2705},
		[]sector.Sector{
			{ID: "s1", Name: "North", Azimuth: sector.AzimuthOf(0)},
			{ID: "s2", Azimuth: sector.ParseAzimuth("120")},
			{ID: "s3"},
		},
	)
}
