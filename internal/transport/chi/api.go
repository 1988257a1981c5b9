package chi

import (
	"time"

	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
)

// ErrorResponseCode is the machine-readable error code of an ErrorResponse.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeNotFound         ErrorResponseCode = "not_found"
	ErrorResponseCodeSessionNotFound  ErrorResponseCode = "session_not_found"
	ErrorResponseCodeNoPositionFix    ErrorResponseCode = "no_position_fix"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// GetBearingParams defines query parameters for GetBearing.
type GetBearingParams struct {
	FromLat float64 `form:"from_lat" json:"from_lat"`
	FromLon float64 `form:"from_lon" json:"from_lon"`
	ToLat   float64 `form:"to_lat" json:"to_lat"`
	ToLon   float64 `form:"to_lon" json:"to_lon"`
}

// GetSiteBearingParams defines query parameters for GetSiteBearing.
type GetSiteBearingParams struct {
	Lat float64 `form:"lat" json:"lat"`
	Lon float64 `form:"lon" json:"lon"`
}

// ListNearbySitesParams defines query parameters for ListNearbySites.
type ListNearbySitesParams struct {
	Lat     float64  `form:"lat" json:"lat"`
	Lon     float64  `form:"lon" json:"lon"`
	RadiusM *float64 `form:"radius_m,omitempty" json:"radius_m,omitempty"`
	Limit   *int     `form:"limit,omitempty" json:"limit,omitempty"`
}

// BearingResponse is the pointing solution between two coordinates.
type BearingResponse struct {
	Bearing        float64 `json:"bearing"`
	DistanceMeters float64 `json:"distance_meters"`
	CompassPoint   string  `json:"compass_point"`
}

// MatchSectorRequest asks which sector faces a target azimuth.
type MatchSectorRequest struct {
	TargetAzimuth *float64        `json:"target_azimuth"`
	Sectors       []sector.Sector `json:"sectors"`
}

// MatchSectorResponse carries the best sector, if any azimuth was usable.
type MatchSectorResponse struct {
	Matched bool           `json:"matched"`
	Sector  *sector.Sector `json:"sector,omitempty"`
}

// UpsertSiteRequest is the body of PUT /sites/{id}. Location follows the
// inventory shape: latitude/longitude at the top level or under
// "coordinates", as numbers or numeric strings.
type UpsertSiteRequest struct {
	Name     string          `json:"name"`
	Location map[string]any  `json:"location"`
	Sectors  []sector.Sector `json:"sectors"`
}

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SiteResponse is a stored site.
type SiteResponse struct {
	ID       string          `json:"id"`
	Name     string          `json:"name,omitempty"`
	Location Coordinate      `json:"location"`
	Sectors  []sector.Sector `json:"sectors"`
}

// SiteListResponse wraps GET /sites.
type SiteListResponse struct {
	Items []SiteResponse `json:"items"`
	Count int            `json:"count"`
}

// SiteBearingResponse is the aim from an installer position to a site.
type SiteBearingResponse struct {
	SiteID string `json:"site_id"`
	BearingResponse
	Sector *sector.Sector `json:"sector,omitempty"`
}

// NearbySiteResponse is one site returned by GET /sites/nearby.
type NearbySiteResponse struct {
	SiteBearingResponse
	Name     string     `json:"name,omitempty"`
	Location Coordinate `json:"location"`
}

// NearbySitesResponse wraps GET /sites/nearby, nearest first.
type NearbySitesResponse struct {
	Items        []NearbySiteResponse `json:"items"`
	Count        int                  `json:"count"`
	RadiusMeters float64              `json:"radius_meters"`
}

// RecordAimRequest is the body of PUT /equipment/{id}/aim.
type RecordAimRequest struct {
	SiteID    string   `json:"site_id,omitempty"`
	Azimuth   *float64 `json:"azimuth"`
	Elevation *float64 `json:"elevation,omitempty"`
}

// AimResponse is a recorded equipment aim.
type AimResponse struct {
	EquipmentID string    `json:"equipment_id"`
	SiteID      string    `json:"site_id,omitempty"`
	Azimuth     float64   `json:"azimuth"`
	Elevation   *float64  `json:"elevation,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// PositionRequest is the body of PUT /sessions/{id}/position.
type PositionRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// HeadingRequest is the body of PUT /sessions/{id}/heading.
type HeadingRequest struct {
	Heading *float64 `json:"heading"`
}

// TargetRequest is the body of PUT /sessions/{id}/target. Exactly one of
// Azimuth or SiteID must be set.
type TargetRequest struct {
	Azimuth *float64 `json:"azimuth,omitempty"`
	SiteID  *string  `json:"site_id,omitempty"`
}

// CadenceResponse is the cue timing for the current angular gap.
type CadenceResponse struct {
	Tier    int   `json:"tier"`
	DelayMs int64 `json:"delay_ms"`
	ToneMs  int64 `json:"tone_ms"`
}

// SessionResponse is the read model of an aiming session.
type SessionResponse struct {
	ID          string           `json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	LastSeen    time.Time        `json:"last_seen"`
	Position    *Coordinate      `json:"position,omitempty"`
	SiteID      string           `json:"site_id,omitempty"`
	Solution    *BearingResponse `json:"solution,omitempty"`
	Sector      *sector.Sector   `json:"sector,omitempty"`
	State       alignment.State  `json:"state"`
	Cadence     *CadenceResponse `json:"cadence,omitempty"`
	Feedback    bool             `json:"feedback"`
	CuesEmitted uint64           `json:"cues_emitted"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Sessions int               `json:"sessions"`
}
