package fieldaim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/fieldaim/internal/db"
	dbRedis "github.com/kailas-cloud/fieldaim/internal/db/redis"
	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	aimrepo "github.com/kailas-cloud/fieldaim/internal/repository/aim"
	siterepo "github.com/kailas-cloud/fieldaim/internal/repository/site"
	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
	"github.com/kailas-cloud/fieldaim/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/fieldaim/internal/usecase/health"
	siteuc "github.com/kailas-cloud/fieldaim/internal/usecase/site"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaced by mocks in tests.
type siteUseCase interface {
	Upsert(ctx context.Context, id, name string, loc geo.Coordinate, sectors []sector.Sector) (domsite.Site, bool, error)
	Get(ctx context.Context, id string) (domsite.Site, error)
	List(ctx context.Context) ([]domsite.Site, error)
	Delete(ctx context.Context, id string) error
	AimFrom(ctx context.Context, id string, from geo.Coordinate) (siteuc.Aim, error)
	Nearby(ctx context.Context, from geo.Coordinate, radiusMeters float64, limit int) ([]siteuc.Aim, error)
	RecordAim(ctx context.Context, equipmentID, siteID string, azimuth float64, elevation *float64) (domaim.Record, error)
	GetAim(ctx context.Context, equipmentID string) (domaim.Record, error)
}

type sessionUseCase interface {
	Create(ctx context.Context) (aiminguc.Snapshot, error)
	Get(ctx context.Context, id string) (aiminguc.Snapshot, error)
	Close(ctx context.Context, id string) error
	UpdatePosition(ctx context.Context, id string, lat, lon float64) (aiminguc.Snapshot, error)
	UpdateHeading(ctx context.Context, id string, heading float64) (aiminguc.Snapshot, error)
	SelectSite(ctx context.Context, id, siteID string) (aiminguc.Snapshot, error)
	SetTarget(ctx context.Context, id string, azimuth float64) (aiminguc.Snapshot, error)
	ClearTarget(ctx context.Context, id string) (aiminguc.Snapshot, error)
	Active() int
	Shutdown()
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the fieldaim SDK entry point.
type Client struct {
	store      db.Store
	siteSvc    siteUseCase
	sessionSvc sessionUseCase
	healthSvc  healthUseCase
	obs        *observer
	stopReaper context.CancelFunc
}

// New connects to Redis and starts the session reaper.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("fieldaim: database address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.addrs,
		Username:   cfg.username,
		Password:   cfg.password,
		DB:         cfg.db,
		ClientName: "fieldaim-sdk",
	})
	if err != nil {
		return nil, fmt.Errorf("fieldaim: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("fieldaim: database not ready: %w", err)
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	sites := siteuc.New(
		siterepo.New(store, cfg.keyPrefix),
		aimrepo.New(store, cfg.keyPrefix, cfg.aimRetention),
		nil,
	)

	var opts []aiminguc.Option
	if cfg.toneSink != nil {
		sink := cfg.toneSink
		opts = append(opts, aiminguc.WithSinkFactory(func(id string) feedback.ToneSink {
			return feedback.ToneSinkFunc(func(c alignment.Cadence, _ alignment.State) {
				sink(id, fromCadence(c))
			})
		}))
	}
	sessions := aiminguc.New(sites, aiminguc.Config{
		SmoothingWindow: cfg.smoothingWindow,
		IdleTTL:         cfg.sessionIdleTTL,
		Feedback:        cfg.toneSink != nil,
	}, nil, opts...)

	reapCtx, cancel := context.WithCancel(context.Background())
	go sessions.RunJanitor(reapCtx)

	return &Client{
		store:      store,
		siteSvc:    sites,
		sessionSvc: sessions,
		healthSvc:  healthuc.New(store, sessions),
		obs:        obs,
		stopReaper: cancel,
	}
}

// Close stops every session and releases the connection.
func (c *Client) Close() {
	if c.stopReaper != nil {
		c.stopReaper()
	}
	if c.sessionSvc != nil {
		c.sessionSvc.Shutdown()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Sites returns the site catalog service.
func (c *Client) Sites() *SiteService {
	return &SiteService{svc: c.siteSvc, obs: c.obs}
}

// Sessions returns the live aiming session service.
func (c *Client) Sessions() *SessionService {
	return &SessionService{svc: c.sessionSvc, obs: c.obs}
}
