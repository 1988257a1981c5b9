package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists every HTTP operation of the API.
type ServerInterface interface {
	// GET /bearing
	GetBearing(w http.ResponseWriter, r *http.Request, params GetBearingParams)
	// POST /sectors/match
	MatchSector(w http.ResponseWriter, r *http.Request)
	// GET /sites
	ListSites(w http.ResponseWriter, r *http.Request)
	// GET /sites/nearby
	ListNearbySites(w http.ResponseWriter, r *http.Request, params ListNearbySitesParams)
	// PUT /sites/{id}
	UpsertSite(w http.ResponseWriter, r *http.Request, id string)
	// GET /sites/{id}
	GetSite(w http.ResponseWriter, r *http.Request, id string)
	// DELETE /sites/{id}
	DeleteSite(w http.ResponseWriter, r *http.Request, id string)
	// GET /sites/{id}/bearing
	GetSiteBearing(w http.ResponseWriter, r *http.Request, id string, params GetSiteBearingParams)
	// PUT /equipment/{id}/aim
	RecordAim(w http.ResponseWriter, r *http.Request, id string)
	// GET /equipment/{id}/aim
	GetAim(w http.ResponseWriter, r *http.Request, id string)
	// POST /sessions
	CreateSession(w http.ResponseWriter, r *http.Request)
	// GET /sessions/{id}
	GetSession(w http.ResponseWriter, r *http.Request, id string)
	// DELETE /sessions/{id}
	CloseSession(w http.ResponseWriter, r *http.Request, id string)
	// PUT /sessions/{id}/position
	UpdatePosition(w http.ResponseWriter, r *http.Request, id string)
	// PUT /sessions/{id}/heading
	UpdateHeading(w http.ResponseWriter, r *http.Request, id string)
	// PUT /sessions/{id}/target
	SetTarget(w http.ResponseWriter, r *http.Request, id string)
	// DELETE /sessions/{id}/target
	ClearTarget(w http.ResponseWriter, r *http.Request, id string)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a path or query parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// wrapper binds parameters and dispatches to a ServerInterface.
type wrapper struct {
	handler          ServerInterface
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates an http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux registers the API on an existing router.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates an http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		}
	}
	w := &wrapper{handler: si, errorHandlerFunc: options.ErrorHandlerFunc}
	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Get(base+"/bearing", w.getBearing)
		r.Post(base+"/sectors/match", si.MatchSector)

		r.Get(base+"/sites", si.ListSites)
		r.Get(base+"/sites/nearby", w.listNearbySites)
		r.Put(base+"/sites/{id}", w.withID(si.UpsertSite))
		r.Get(base+"/sites/{id}", w.withID(si.GetSite))
		r.Delete(base+"/sites/{id}", w.withID(si.DeleteSite))
		r.Get(base+"/sites/{id}/bearing", w.getSiteBearing)

		r.Put(base+"/equipment/{id}/aim", w.withID(si.RecordAim))
		r.Get(base+"/equipment/{id}/aim", w.withID(si.GetAim))

		r.Post(base+"/sessions", si.CreateSession)
		r.Get(base+"/sessions/{id}", w.withID(si.GetSession))
		r.Delete(base+"/sessions/{id}", w.withID(si.CloseSession))
		r.Put(base+"/sessions/{id}/position", w.withID(si.UpdatePosition))
		r.Put(base+"/sessions/{id}/heading", w.withID(si.UpdateHeading))
		r.Put(base+"/sessions/{id}/target", w.withID(si.SetTarget))
		r.Delete(base+"/sessions/{id}/target", w.withID(si.ClearTarget))

		r.Get(base+"/health", si.HealthCheck)
		r.Get(base+"/metrics", si.Metrics)
	})
	return r
}

func (w *wrapper) withID(
	next func(http.ResponseWriter, *http.Request, string),
) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		id, ok := w.bindID(rw, r)
		if !ok {
			return
		}
		next(rw, r, id)
	}
}

func (w *wrapper) bindID(rw http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return "", false
	}
	return id, true
}

func (w *wrapper) getBearing(rw http.ResponseWriter, r *http.Request) {
	var params GetBearingParams
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dest *float64
	}{
		{"from_lat", &params.FromLat},
		{"from_lon", &params.FromLon},
		{"to_lat", &params.ToLat},
		{"to_lon", &params.ToLon},
	} {
		if err := runtime.BindQueryParameter("form", true, true, p.name, q, p.dest); err != nil {
			w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: p.name, Err: err})
			return
		}
	}
	w.handler.GetBearing(rw, r, params)
}

func (w *wrapper) listNearbySites(rw http.ResponseWriter, r *http.Request) {
	var params ListNearbySitesParams
	q := r.URL.Query()
	for _, p := range []struct {
		name     string
		required bool
		dest     any
	}{
		{"lat", true, &params.Lat},
		{"lon", true, &params.Lon},
		{"radius_m", false, &params.RadiusM},
		{"limit", false, &params.Limit},
	} {
		if err := runtime.BindQueryParameter("form", true, p.required, p.name, q, p.dest); err != nil {
			w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: p.name, Err: err})
			return
		}
	}
	w.handler.ListNearbySites(rw, r, params)
}

func (w *wrapper) getSiteBearing(rw http.ResponseWriter, r *http.Request) {
	id, ok := w.bindID(rw, r)
	if !ok {
		return
	}

	var params GetSiteBearingParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "lat", q, &params.Lat); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "lat", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, true, "lon", q, &params.Lon); err != nil {
		w.errorHandlerFunc(rw, r, &InvalidParamFormatError{ParamName: "lon", Err: err})
		return
	}
	w.handler.GetSiteBearing(rw, r, id, params)
}
