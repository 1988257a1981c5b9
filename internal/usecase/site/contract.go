package site

import (
	"context"

	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
)

// Repository defines the storage contract for sites.
type Repository interface {
	Upsert(ctx context.Context, s domsite.Site) (bool, error)
	Get(ctx context.Context, id string) (domsite.Site, error)
	List(ctx context.Context) ([]domsite.Site, error)
	Delete(ctx context.Context, id string) error
	// Nearby returns sites within radiusMeters of from, nearest first.
	Nearby(ctx context.Context, from geo.Coordinate, radiusMeters float64) ([]domsite.Site, error)
}

// AimRepository stores the last recorded aim per equipment id.
type AimRepository interface {
	Save(ctx context.Context, rec domaim.Record) error
	Get(ctx context.Context, equipmentID string) (domaim.Record, error)
}
