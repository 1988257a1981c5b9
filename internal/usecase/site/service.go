package site

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/domain"
	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	"github.com/kailas-cloud/fieldaim/internal/metrics"
)

// Nearby search bounds. WISP backhaul and CPE links rarely exceed tens of km.
const (
	MaxNearbyRadiusMeters = 150_000.0
	DefaultNearbyLimit    = 10
)

// Aim is the pointing solution from an installer position to a site.
type Aim struct {
	Site     domsite.Site
	Solution geo.Solution
	Sector   sector.Sector
	Matched  bool
}

// Service handles the site catalog and recorded aims.
type Service struct {
	repo   Repository
	aims   AimRepository
	now    func() time.Time
	logger *zap.Logger
}

// New creates a site service. aims may be nil when aim recording is disabled.
func New(repo Repository, aims AimRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, aims: aims, now: time.Now, logger: logger}
}

// Upsert validates and stores a site. Reports whether it was newly created.
func (s *Service) Upsert(
	ctx context.Context, id, name string, location geo.Coordinate, sectors []sector.Sector,
) (domsite.Site, bool, error) {
	st, err := domsite.New(id, name, location, sectors)
	if err != nil {
		return domsite.Site{}, false, fmt.Errorf("validate site: %w: %w", domain.ErrInvalidSite, err)
	}

	created, err := s.repo.Upsert(ctx, st)
	if err != nil {
		return domsite.Site{}, false, fmt.Errorf("upsert site: %w", err)
	}
	return st, created, nil
}

// Get retrieves a site by id.
func (s *Service) Get(ctx context.Context, id string) (domsite.Site, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		return domsite.Site{}, fmt.Errorf("get site: %w", err)
	}
	return st, nil
}

// List returns all sites.
func (s *Service) List(ctx context.Context) ([]domsite.Site, error) {
	sites, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	return sites, nil
}

// Delete removes a site.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}

// AimFrom computes the bearing and distance from an installer position to a
// site and pre-selects the sector whose azimuth is closest to that bearing.
func (s *Service) AimFrom(ctx context.Context, id string, from geo.Coordinate) (Aim, error) {
	if !from.Valid() {
		return Aim{}, fmt.Errorf("position (%f, %f): %w", from.Lat, from.Lon, domain.ErrInvalidCoordinate)
	}
	st, err := s.Get(ctx, id)
	if err != nil {
		return Aim{}, err
	}

	sol := geo.Solve(from, st.Location())
	best, ok := sector.FindBestMatch(st.Sectors(), sol.Bearing)
	metrics.RecordSectorMatch(ok)

	return Aim{Site: st, Solution: sol, Sector: best, Matched: ok}, nil
}

// Nearby lists the sites within radiusMeters of an installer position with
// the aim to each, nearest first. limit <= 0 uses DefaultNearbyLimit.
// Distances come from geo.Solve so they agree with AimFrom.
func (s *Service) Nearby(ctx context.Context, from geo.Coordinate, radiusMeters float64, limit int) ([]Aim, error) {
	if !from.Valid() {
		return nil, fmt.Errorf("position (%f, %f): %w", from.Lat, from.Lon, domain.ErrInvalidCoordinate)
	}
	if math.IsNaN(radiusMeters) || radiusMeters <= 0 || radiusMeters > MaxNearbyRadiusMeters {
		return nil, fmt.Errorf("radius %g m: %w", radiusMeters, domain.ErrInvalidRadius)
	}
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}

	sites, err := s.repo.Nearby(ctx, from, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("nearby sites: %w", err)
	}

	aims := make([]Aim, 0, len(sites))
	for _, st := range sites {
		sol := geo.Solve(from, st.Location())
		best, ok := sector.FindBestMatch(st.Sectors(), sol.Bearing)
		aims = append(aims, Aim{Site: st, Solution: sol, Sector: best, Matched: ok})
	}
	sort.SliceStable(aims, func(i, j int) bool {
		return aims[i].Solution.Distance < aims[j].Solution.Distance
	})
	if len(aims) > limit {
		aims = aims[:limit]
	}
	return aims, nil
}

// RecordAim saves the final azimuth/elevation an installer set on equipment.
// A non-empty siteID must reference an existing site.
func (s *Service) RecordAim(
	ctx context.Context, equipmentID, siteID string, azimuth float64, elevation *float64,
) (domaim.Record, error) {
	if s.aims == nil {
		return domaim.Record{}, fmt.Errorf("aim recording: %w", domain.ErrNotFound)
	}
	rec, err := domaim.NewRecord(equipmentID, siteID, azimuth, elevation, s.now())
	if err != nil {
		return domaim.Record{}, fmt.Errorf("validate aim: %w: %w", domain.ErrInvalidAim, err)
	}
	if siteID != "" {
		if _, err := s.Get(ctx, siteID); err != nil {
			return domaim.Record{}, err
		}
	}
	if err := s.aims.Save(ctx, rec); err != nil {
		return domaim.Record{}, fmt.Errorf("record aim: %w", err)
	}
	s.logger.Info("Aim recorded",
		zap.String("equipment_id", rec.EquipmentID),
		zap.String("site_id", rec.SiteID),
		zap.Float64("azimuth", rec.Azimuth),
	)
	return rec, nil
}

// GetAim returns the recorded aim of an equipment id.
func (s *Service) GetAim(ctx context.Context, equipmentID string) (domaim.Record, error) {
	if s.aims == nil {
		return domaim.Record{}, fmt.Errorf("aim recording: %w", domain.ErrNotFound)
	}
	rec, err := s.aims.Get(ctx, equipmentID)
	if err != nil {
		return domaim.Record{}, fmt.Errorf("get aim: %w", err)
	}
	return rec, nil
}
