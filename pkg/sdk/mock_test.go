package fieldaim

import (
	"context"

	domaim "github.com/kailas-cloud/fieldaim/internal/domain/aim"
	"github.com/kailas-cloud/fieldaim/internal/domain/geo"
	"github.com/kailas-cloud/fieldaim/internal/domain/sector"
	domsite "github.com/kailas-cloud/fieldaim/internal/domain/site"
	aiminguc "github.com/kailas-cloud/fieldaim/internal/usecase/aiming"
	healthuc "github.com/kailas-cloud/fieldaim/internal/usecase/health"
	siteuc "github.com/kailas-cloud/fieldaim/internal/usecase/site"
)

// --- siteUseCase mock ---

type mockSiteUC struct {
	upsertFn    func(ctx context.Context, id, name string, loc geo.Coordinate, sectors []sector.Sector) (domsite.Site, bool, error)
	getFn       func(ctx context.Context, id string) (domsite.Site, error)
	listFn      func(ctx context.Context) ([]domsite.Site, error)
	deleteFn    func(ctx context.Context, id string) error
	aimFromFn   func(ctx context.Context, id string, from geo.Coordinate) (siteuc.Aim, error)
	nearbyFn    func(ctx context.Context, from geo.Coordinate, radius float64, limit int) ([]siteuc.Aim, error)
	recordAimFn func(ctx context.Context, equipmentID, siteID string, az float64, el *float64) (domaim.Record, error)
	getAimFn    func(ctx context.Context, equipmentID string) (domaim.Record, error)
}

func (m *mockSiteUC) Upsert(
	ctx context.Context, id, name string, loc geo.Coordinate, sectors []sector.Sector,
) (domsite.Site, bool, error) {
	return m.upsertFn(ctx, id, name, loc, sectors)
}

func (m *mockSiteUC) Get(ctx context.Context, id string) (domsite.Site, error) {
	return m.getFn(ctx, id)
}

func (m *mockSiteUC) List(ctx context.Context) ([]domsite.Site, error) {
	return m.listFn(ctx)
}

func (m *mockSiteUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSiteUC) AimFrom(ctx context.Context, id string, from geo.Coordinate) (siteuc.Aim, error) {
	return m.aimFromFn(ctx, id, from)
}

func (m *mockSiteUC) Nearby(
	ctx context.Context, from geo.Coordinate, radius float64, limit int,
) ([]siteuc.Aim, error) {
	return m.nearbyFn(ctx, from, radius, limit)
}

func (m *mockSiteUC) RecordAim(
	ctx context.Context, equipmentID, siteID string, az float64, el *float64,
) (domaim.Record, error) {
	return m.recordAimFn(ctx, equipmentID, siteID, az, el)
}

func (m *mockSiteUC) GetAim(ctx context.Context, equipmentID string) (domaim.Record, error) {
	return m.getAimFn(ctx, equipmentID)
}

// --- sessionUseCase mock ---

type mockSessionUC struct {
	snap     aiminguc.Snapshot
	err      error
	calls    []string
	active   int
	shutdown bool
}

func (m *mockSessionUC) record(call string) (aiminguc.Snapshot, error) {
	m.calls = append(m.calls, call)
	return m.snap, m.err
}

func (m *mockSessionUC) Create(context.Context) (aiminguc.Snapshot, error) {
	return m.record("create")
}

func (m *mockSessionUC) Get(_ context.Context, id string) (aiminguc.Snapshot, error) {
	return m.record("get " + id)
}

func (m *mockSessionUC) Close(_ context.Context, id string) error {
	_, err := m.record("close " + id)
	return err
}

func (m *mockSessionUC) UpdatePosition(_ context.Context, id string, _, _ float64) (aiminguc.Snapshot, error) {
	return m.record("position " + id)
}

func (m *mockSessionUC) UpdateHeading(_ context.Context, id string, _ float64) (aiminguc.Snapshot, error) {
	return m.record("heading " + id)
}

func (m *mockSessionUC) SelectSite(_ context.Context, id, siteID string) (aiminguc.Snapshot, error) {
	return m.record("select " + id + " " + siteID)
}

func (m *mockSessionUC) SetTarget(_ context.Context, id string, _ float64) (aiminguc.Snapshot, error) {
	return m.record("target " + id)
}

func (m *mockSessionUC) ClearTarget(_ context.Context, id string) (aiminguc.Snapshot, error) {
	return m.record("clear " + id)
}

func (m *mockSessionUC) Active() int { return m.active }

func (m *mockSessionUC) Shutdown() { m.shutdown = true }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
