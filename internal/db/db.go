package db

import (
	"context"
	"time"
)

// Store is the database facade combining the sub-interfaces fieldaim uses.
// Consumers depend on the narrow interfaces.
type Store interface {
	Pinger
	HashStore
	KVStore
	GeoStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides hash-based record operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// GeoHit is one member returned by a radius search, nearest first.
type GeoHit struct {
	Member         string
	DistanceMeters float64
}

// GeoStore maintains a geospatial index of members.
type GeoStore interface {
	GeoAdd(ctx context.Context, key, member string, lat, lon float64) error
	GeoRemove(ctx context.Context, key, member string) error
	GeoSearch(ctx context.Context, key string, lat, lon, radiusMeters float64) ([]GeoHit, error)
}
