package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldaim/internal/domain"
	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	logpkg "github.com/kailas-cloud/fieldaim/internal/logger"
	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
	healthuc "github.com/kailas-cloud/fieldaim/internal/usecase/health"
	siteuc "github.com/kailas-cloud/fieldaim/internal/usecase/site"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	sites         *siteuc.Service
	aiming        *aiminguc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	sites *siteuc.Service,
	aiming *aiminguc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		sites:  sites,
		aiming: aiming,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorResponseCodeSessionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeNotFound),
		sentinelHandler(domain.ErrNoPositionFix, http.StatusConflict, ErrorResponseCodeNoPositionFix),
		sentinelHandler(domain.ErrInvalidSite, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidCoordinate, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidAngle, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidAim, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidRadius, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
	}
	return s
}

// GetBearing handles GET /bearing.
func (s *Server) GetBearing(w http.ResponseWriter, _ *http.Request, params GetBearingParams) {
	from := geo.Coordinate{Lat: params.FromLat, Lon: params.FromLon}
	to := geo.Coordinate{Lat: params.ToLat, Lon: params.ToLon}
	if !from.Valid() || !to.Valid() {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, domain.ErrInvalidCoordinate.Error())
		return
	}
	writeJSON(w, http.StatusOK, bearingToResponse(geo.Solve(from, to)))
}

// MatchSector handles POST /sectors/match.
func (s *Server) MatchSector(w http.ResponseWriter, r *http.Request) {
	var req MatchSectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.TargetAzimuth == nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "target_azimuth is required")
		return
	}

	best, ok := sector.FindBestMatch(req.Sectors, *req.TargetAzimuth)
	resp := MatchSectorResponse{Matched: ok}
	if ok {
		resp.Sector = &best
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListSites handles GET /sites.
func (s *Server) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.sites.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SiteResponse, len(sites))
	for i, st := range sites {
		items[i] = siteToResponse(st)
	}
	writeJSON(w, http.StatusOK, SiteListResponse{Items: items, Count: len(items)})
}

// UpsertSite handles PUT /sites/{id}.
func (s *Server) UpsertSite(w http.ResponseWriter, r *http.Request, id string) {
	var req UpsertSiteRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	loc, err := domsite.LocationFromRaw(req.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "location: "+err.Error())
		return
	}

	st, created, err := s.sites.Upsert(r.Context(), id, req.Name, loc, req.Sectors)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, siteToResponse(st))
}

// GetSite handles GET /sites/{id}.
func (s *Server) GetSite(w http.ResponseWriter, r *http.Request, id string) {
	st, err := s.sites.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, siteToResponse(st))
}

// DeleteSite handles DELETE /sites/{id}.
func (s *Server) DeleteSite(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.sites.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSiteBearing handles GET /sites/{id}/bearing.
func (s *Server) GetSiteBearing(w http.ResponseWriter, r *http.Request, id string, params GetSiteBearingParams) {
	aim, err := s.sites.AimFrom(r.Context(), id, geo.Coordinate{Lat: params.Lat, Lon: params.Lon})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, siteBearingToResponse(aim))
}

// defaultNearbyRadius applies when GET /sites/nearby omits radius_m.
const defaultNearbyRadius = 50_000.0

// ListNearbySites handles GET /sites/nearby.
func (s *Server) ListNearbySites(w http.ResponseWriter, r *http.Request, params ListNearbySitesParams) {
	radius := defaultNearbyRadius
	if params.RadiusM != nil {
		radius = *params.RadiusM
	}
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	aims, err := s.sites.Nearby(r.Context(), geo.Coordinate{Lat: params.Lat, Lon: params.Lon}, radius, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]NearbySiteResponse, len(aims))
	for i, a := range aims {
		loc := a.Site.Location()
		items[i] = NearbySiteResponse{
			SiteBearingResponse: siteBearingToResponse(a),
			Name:                a.Site.Name(),
			Location:            Coordinate{Lat: loc.Lat, Lon: loc.Lon},
		}
	}
	writeJSON(w, http.StatusOK, NearbySitesResponse{Items: items, Count: len(items), RadiusMeters: radius})
}

// RecordAim handles PUT /equipment/{id}/aim.
func (s *Server) RecordAim(w http.ResponseWriter, r *http.Request, id string) {
	var req RecordAimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Azimuth == nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "azimuth is required")
		return
	}

	rec, err := s.sites.RecordAim(r.Context(), id, req.SiteID, *req.Azimuth, req.Elevation)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aimToResponse(rec))
}

// GetAim handles GET /equipment/{id}/aim.
func (s *Server) GetAim(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := s.sites.GetAim(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, aimToResponse(rec))
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.aiming.Create(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+snap.ID)
	writeJSON(w, http.StatusCreated, sessionToResponse(snap))
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := s.aiming.Get(r.Context(), id)
	s.writeSession(w, r, snap, err)
}

// CloseSession handles DELETE /sessions/{id}.
func (s *Server) CloseSession(w http.ResponseWriter, r *http.Request, id string) {
	if err := s.aiming.Close(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePosition handles PUT /sessions/{id}/position.
func (s *Server) UpdatePosition(w http.ResponseWriter, r *http.Request, id string) {
	var req PositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Lat == nil || req.Lon == nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "lat and lon are required")
		return
	}

	snap, err := s.aiming.UpdatePosition(r.Context(), id, *req.Lat, *req.Lon)
	s.writeSession(w, r, snap, err)
}

// UpdateHeading handles PUT /sessions/{id}/heading.
func (s *Server) UpdateHeading(w http.ResponseWriter, r *http.Request, id string) {
	var req HeadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Heading == nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "heading is required")
		return
	}

	snap, err := s.aiming.UpdateHeading(r.Context(), id, *req.Heading)
	s.writeSession(w, r, snap, err)
}

// SetTarget handles PUT /sessions/{id}/target.
func (s *Server) SetTarget(w http.ResponseWriter, r *http.Request, id string) {
	var req TargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var (
		snap aiminguc.Snapshot
		err  error
	)
	switch {
	case req.Azimuth != nil && req.SiteID != nil:
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "set either azimuth or site_id, not both")
		return
	case req.Azimuth != nil:
		snap, err = s.aiming.SetTarget(r.Context(), id, *req.Azimuth)
	case req.SiteID != nil && *req.SiteID != "":
		snap, err = s.aiming.SelectSite(r.Context(), id, *req.SiteID)
	default:
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "azimuth or site_id is required")
		return
	}
	s.writeSession(w, r, snap, err)
}

// ClearTarget handles DELETE /sessions/{id}/target.
func (s *Server) ClearTarget(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := s.aiming.ClearTarget(r.Context(), id)
	s.writeSession(w, r, snap, err)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:   string(report.Status),
		Checks:   checks,
		Sessions: report.Sessions,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, snap aiminguc.Snapshot, err error) {
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(snap))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrNoPositionFix,
		domain.ErrInvalidSite,
		domain.ErrInvalidCoordinate,
		domain.ErrInvalidAngle,
		domain.ErrInvalidAim,
		domain.ErrInvalidRadius,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("Request rejected", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func bearingToResponse(sol geo.Solution) BearingResponse {
	return BearingResponse{
		Bearing:        sol.Bearing,
		DistanceMeters: sol.Distance,
		CompassPoint:   sol.Compass,
	}
}

func siteBearingToResponse(aim siteuc.Aim) SiteBearingResponse {
	resp := SiteBearingResponse{
		SiteID:          aim.Site.ID(),
		BearingResponse: bearingToResponse(aim.Solution),
	}
	if aim.Matched {
		sec := aim.Sector
		resp.Sector = &sec
	}
	return resp
}

func siteToResponse(st domsite.Site) SiteResponse {
	loc := st.Location()
	sectors := st.Sectors()
	if sectors == nil {
		sectors = []sector.Sector{}
	}
	return SiteResponse{
		ID:       st.ID(),
		Name:     st.Name(),
		Location: Coordinate{Lat: loc.Lat, Lon: loc.Lon},
		Sectors:  sectors,
	}
}

func aimToResponse(rec domaim.Record) AimResponse {
	return AimResponse{
		EquipmentID: rec.EquipmentID,
		SiteID:      rec.SiteID,
		Azimuth:     rec.Azimuth,
		Elevation:   rec.Elevation,
		RecordedAt:  rec.RecordedAt,
	}
}

func sessionToResponse(snap aiminguc.Snapshot) SessionResponse {
	resp := SessionResponse{
		ID:          snap.ID,
		CreatedAt:   snap.CreatedAt.UTC(),
		LastSeen:    snap.LastSeen.UTC(),
		SiteID:      snap.SiteID,
		Sector:      snap.Sector,
		State:       snap.State,
		Feedback:    snap.Feedback,
		CuesEmitted: snap.CuesEmitted,
	}
	if snap.Position != nil {
		resp.Position = &Coordinate{Lat: snap.Position.Lat, Lon: snap.Position.Lon}
	}
	if snap.Solution != nil {
		b := bearingToResponse(*snap.Solution)
		resp.Solution = &b
	}
	if snap.Cadence != nil {
		resp.Cadence = &CadenceResponse{
			Tier:    snap.Cadence.Tier,
			DelayMs: snap.Cadence.Delay.Milliseconds(),
			ToneMs:  snap.Cadence.Tone.Milliseconds(),
		}
	}
	return resp
}
