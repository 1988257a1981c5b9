package fieldaim

import "github.com/kailas-cloud/fieldaim/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound          = domain.ErrNotFound
	ErrInvalidSite       = domain.ErrInvalidSite
	ErrInvalidCoordinate = domain.ErrInvalidCoordinate
	ErrInvalidAngle      = domain.ErrInvalidAngle
	ErrInvalidAim        = domain.ErrInvalidAim
	ErrInvalidRadius     = domain.ErrInvalidRadius
	ErrNoPositionFix     = domain.ErrNoPositionFix
	ErrSessionNotFound   = domain.ErrSessionNotFound
)
