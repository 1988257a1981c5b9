package fieldaim

import (
	"context"
	"fmt"
	"time"
)

// SiteService manages the site catalog and recorded aims.
type SiteService struct {
	svc siteUseCase
	obs *observer
}

// Upsert stores a site. Reports whether it was newly created.
func (s *SiteService) Upsert(ctx context.Context, site Site) (created bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("site.upsert", start, err, "site_id", site.ID) }()

	_, created, err = s.svc.Upsert(ctx, site.ID, site.Name, toGeo(site.Location), toSectors(site.Sectors))
	if err != nil {
		return false, fmt.Errorf("upsert site: %w", err)
	}
	return created, nil
}

// Get returns a site by id.
func (s *SiteService) Get(ctx context.Context, id string) (_ Site, err error) {
	start := time.Now()
	defer func() { s.obs.observe("site.get", start, err, "site_id", id) }()

	st, err := s.svc.Get(ctx, id)
	if err != nil {
		return Site{}, fmt.Errorf("get site: %w", err)
	}
	return fromSite(st), nil
}

// List returns all sites ordered by id.
func (s *SiteService) List(ctx context.Context) (_ []Site, err error) {
	start := time.Now()
	defer func() { s.obs.observe("site.list", start, err) }()

	sites, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	out := make([]Site, len(sites))
	for i, st := range sites {
		out[i] = fromSite(st)
	}
	return out, nil
}

// Delete removes a site.
func (s *SiteService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("site.delete", start, err, "site_id", id) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}

// AimFrom computes the aim from an installer position to a stored site.
func (s *SiteService) AimFrom(ctx context.Context, id string, from Coordinate) (_ Aim, err error) {
	start := time.Now()
	defer func() { s.obs.observe("site.aim_from", start, err, "site_id", id) }()

	a, err := s.svc.AimFrom(ctx, id, toGeo(from))
	if err != nil {
		return Aim{}, fmt.Errorf("aim from: %w", err)
	}
	return fromAim(a), nil
}

// Nearby lists stored sites within radiusMeters of an installer position,
// nearest first, each with its aim. limit <= 0 returns up to ten.
func (s *SiteService) Nearby(ctx context.Context, from Coordinate, radiusMeters float64, limit int) (_ []Aim, err error) {
	start := time.Now()
	defer func() { s.obs.observe("site.nearby", start, err, "radius_m", radiusMeters) }()

	aims, err := s.svc.Nearby(ctx, toGeo(from), radiusMeters, limit)
	if err != nil {
		return nil, fmt.Errorf("nearby sites: %w", err)
	}
	out := make([]Aim, len(aims))
	for i, a := range aims {
		out[i] = fromAim(a)
	}
	return out, nil
}

// RecordAim saves the azimuth (and optional elevation) set on equipment.
// siteID may be empty.
func (s *SiteService) RecordAim(
	ctx context.Context, equipmentID, siteID string, azimuth float64, elevation *float64,
) (_ AimRecord, err error) {
	start := time.Now()
	defer func() { s.obs.observe("aim.record", start, err, "equipment_id", equipmentID) }()

	rec, err := s.svc.RecordAim(ctx, equipmentID, siteID, azimuth, elevation)
	if err != nil {
		return AimRecord{}, fmt.Errorf("record aim: %w", err)
	}
	return fromRecord(rec), nil
}

// GetAim returns the recorded aim of a piece of equipment.
func (s *SiteService) GetAim(ctx context.Context, equipmentID string) (_ AimRecord, err error) {
	start := time.Now()
	defer func() { s.obs.observe("aim.get", start, err, "equipment_id", equipmentID) }()

	rec, err := s.svc.GetAim(ctx, equipmentID)
	if err != nil {
		return AimRecord{}, fmt.Errorf("get aim: %w", err)
	}
	return fromRecord(rec), nil
}
