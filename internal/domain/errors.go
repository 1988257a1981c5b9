package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSite signals a site record that cannot be stored or used.
	ErrInvalidSite = errors.New("invalid site")
	// ErrInvalidCoordinate signals a latitude/longitude outside the valid range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidAngle signals a heading or azimuth that is not a finite number.
	ErrInvalidAngle = errors.New("invalid angle")
	// ErrNoPositionFix signals that a target was requested before any position fix.
	ErrNoPositionFix = errors.New("no position fix")
	// ErrSessionNotFound signals an unknown or reaped aiming session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidAim signals an aim record that cannot be stored.
	ErrInvalidAim = errors.New("invalid aim")
	// ErrInvalidRadius signals a search radius outside the supported range.
	ErrInvalidRadius = errors.New("invalid radius")
)
