package redis

import (
	"context"
	"fmt"
	"math"

	"github.com/kailas-cloud/fieldaim/internal/db"
)

// GeoAdd indexes member at lat/lon under key. Latitudes beyond
// db.MaxGeoLatitude are rejected with db.ErrNotIndexable before hitting Redis.
func (s *Store) GeoAdd(ctx context.Context, key, member string, lat, lon float64) error {
	if math.Abs(lat) > db.MaxGeoLatitude {
		return &db.Error{Op: db.OpGeoAdd, Err: fmt.Errorf("member %s lat %f: %w", member, lat, db.ErrNotIndexable)}
	}
	cmd := s.b().Geoadd().Key(key).LongitudeLatitudeMember().LongitudeLatitudeMember(lon, lat, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpGeoAdd, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return nil
}

// GeoRemove drops member from the index. Missing members are not an error.
func (s *Store) GeoRemove(ctx context.Context, key, member string) error {
	cmd := s.b().Zrem().Key(key).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZRem, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	return nil
}

// GeoSearch returns the members within radiusMeters of lat/lon, nearest first.
func (s *Store) GeoSearch(ctx context.Context, key string, lat, lon, radiusMeters float64) ([]db.GeoHit, error) {
	cmd := s.b().Geosearch().Key(key).Fromlonlat(lon, lat).Byradius(radiusMeters).M().Asc().Withdist().Build()
	locs, err := s.do(ctx, cmd).AsGeosearch()
	if err != nil {
		return nil, &db.Error{Op: db.OpGeoSearch, Err: fmt.Errorf("key %s: %w", key, err)}
	}
	hits := make([]db.GeoHit, len(locs))
	for i, l := range locs {
		hits[i] = db.GeoHit{Member: l.Name, DistanceMeters: l.Dist}
	}
	return hits, nil
}
