package site

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kailas-cloud/fieldaim/internal/db"
	"github.com/kailas-cloud/fieldaim/internal/domain"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
)

// store is the consumer interface for the site catalog (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	GeoAdd(ctx context.Context, key, member string, lat, lon float64) error
	GeoRemove(ctx context.Context, key, member string) error
	GeoSearch(ctx context.Context, key string, lat, lon, radiusMeters float64) ([]db.GeoHit, error)
}

// Repo implements usecase/site.Repository over Redis hashes, with a GEO
// sorted set indexing site locations for radius search.
type Repo struct {
	store  store
	prefix string
}

// New creates a site repository. An empty prefix falls back to domain.DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Upsert stores a site, replacing any previous record. Reports whether the
// site was newly created.
func (r *Repo) Upsert(ctx context.Context, s domsite.Site) (bool, error) {
	key := r.key(s.ID())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}

	fields, err := siteToHash(s)
	if err != nil {
		return false, err
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("hset site %s: %w", s.ID(), err)
	}
	if err := r.index(ctx, s); err != nil {
		return false, err
	}
	return !exists, nil
}

// index places the site in the geo set. Polar sites stay out of the index
// and are simply never returned by Nearby.
func (r *Repo) index(ctx context.Context, s domsite.Site) error {
	loc := s.Location()
	err := r.store.GeoAdd(ctx, r.geoKey(), s.ID(), loc.Lat, loc.Lon)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrNotIndexable):
		if err := r.store.GeoRemove(ctx, r.geoKey(), s.ID()); err != nil {
			return fmt.Errorf("unindex site %s: %w", s.ID(), err)
		}
		return nil
	default:
		return fmt.Errorf("index site %s: %w", s.ID(), err)
	}
}

// Get retrieves a site by id.
func (r *Repo) Get(ctx context.Context, id string) (domsite.Site, error) {
	m, err := r.store.HGetAll(ctx, r.key(id))
	if err != nil {
		return domsite.Site{}, fmt.Errorf("hgetall site %s: %w", id, err)
	}
	if len(m) == 0 {
		return domsite.Site{}, domain.ErrNotFound
	}
	return siteFromHash(m)
}

// List returns all sites sorted by id.
func (r *Repo) List(ctx context.Context) ([]domsite.Site, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan sites: %w", err)
	}
	if len(keys) == 0 {
		return []domsite.Site{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi sites: %w", err)
	}

	sites := make([]domsite.Site, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		s, err := siteFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse site %s: %w", keys[i], err)
		}
		sites = append(sites, s)
	}

	sort.Slice(sites, func(i, j int) bool {
		return sites[i].ID() < sites[j].ID()
	})

	return sites, nil
}

// Delete removes a site.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.key(id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del site %s: %w", id, err)
	}
	if err := r.store.GeoRemove(ctx, r.geoKey(), id); err != nil {
		return fmt.Errorf("unindex site %s: %w", id, err)
	}
	return nil
}

// Nearby returns the sites within radiusMeters of from, nearest first.
// Index entries whose hash is gone are skipped.
func (r *Repo) Nearby(ctx context.Context, from geo.Coordinate, radiusMeters float64) ([]domsite.Site, error) {
	hits, err := r.store.GeoSearch(ctx, r.geoKey(), from.Lat, from.Lon, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("geosearch sites: %w", err)
	}
	if len(hits) == 0 {
		return []domsite.Site{}, nil
	}

	keys := make([]string, len(hits))
	for i, h := range hits {
		keys[i] = r.key(h.Member)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi sites: %w", err)
	}

	sites := make([]domsite.Site, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		s, err := siteFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse site %s: %w", keys[i], err)
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// Key pattern: {prefix}site:{id}
func (r *Repo) key(id string) string {
	return fmt.Sprintf("%ssite:%s", r.prefix, id)
}

// Key pattern: {prefix}sites:geo. Outside the site:* scan pattern.
func (r *Repo) geoKey() string {
	return r.prefix + "sites:geo"
}
