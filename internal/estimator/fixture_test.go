package estimator

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/permit-odds/internal/config"
	"github.com/yourusername/permit-odds/internal/models"
	"github.com/yourusername/permit-odds/internal/repository"
	"github.com/yourusername/permit-odds/internal/store"
)

// 2024 store ids. The 2024 core zone is id 1.
const (
	coreZone     int64 = 1
	zoneA        int64 = 2
	snowLakes    int64 = 3
	colchuck     int64 = 4
	aug13        int64 = 10 // comparable to 08-12-2025
	aug14        int64 = 11 // comparable to 08-13-2025
	fixtureYear        = 2024
	permitYear         = 2025
	coreZoneName       = "Core Enchantment"
)

func slot(zone, date int64, gs int) models.Slot {
	return models.Slot{ZoneID: zone, DateID: date, GroupSize: gs}
}

func fixture2024() store.Fixture {
	return store.Fixture{
		Zones: []store.FixtureZone{
			{ID: coreZone, Name: coreZoneName},
			{ID: zoneA, Name: "Zone A"},
			{ID: snowLakes, Name: "Snow Lakes"},
			{ID: colchuck, Name: "Colchuck"},
		},
		Dates: []store.FixtureDate{
			{ID: aug13, Date: "08-13-2024"},
			{ID: aug14, Date: "08-14-2024"},
		},
		Wins: []store.FixtureWin{
			{Slots: []models.Slot{slot(coreZone, aug13, 2)}, AvgOdds: 0.30},
			{Slots: []models.Slot{slot(coreZone, aug13, 4)}, AvgOdds: 0.10},
			{Slots: []models.Slot{slot(zoneA, aug13, 4)}, AvgOdds: 0.42},
			{Slots: []models.Slot{slot(snowLakes, aug14, 0)}, AvgOdds: 0.55},
			{Slots: []models.Slot{slot(colchuck, aug14, 0)}, AvgOdds: 0.60},
			{Slots: []models.Slot{slot(zoneA, aug13, 0), slot(snowLakes, aug14, 0)}, AvgOdds: 0.21},
			{Slots: []models.Slot{slot(colchuck, aug14, 0), slot(zoneA, aug13, 0)}, AvgOdds: 0.33},
			{Slots: []models.Slot{slot(zoneA, aug13, 0), slot(snowLakes, aug14, 0), slot(coreZone, aug13, 2)}, AvgOdds: 0.07},
		},
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// newTestEngine writes the 2024 fixture store into a temp dir and returns an
// engine over it together with the dir.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	store.CreateTestStore(t, dir, fixtureYear, fixture2024())

	provider, err := repository.NewStoreProvider(store.NewDirLocator(dir))
	require.NoError(t, err)

	engine, err := NewEngine(provider, NewCoreZones(config.DefaultCoreZones()), testLogger(), opts...)
	require.NoError(t, err)
	return engine, dir
}

func openTestSession(t *testing.T) *Session {
	t.Helper()
	engine, _ := newTestEngine(t)
	sess, err := engine.OpenSession(context.Background(), fixtureYear)
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

// countingProvider counts store opens.
type countingProvider struct {
	repository.Provider
	opens int
}

func (p *countingProvider) Open(ctx context.Context, year int) (repository.WinsRepository, error) {
	p.opens++
	return p.Provider.Open(ctx, year)
}

type providerFunc func(ctx context.Context, year int) (repository.WinsRepository, error)

func (f providerFunc) Open(ctx context.Context, year int) (repository.WinsRepository, error) {
	return f(ctx, year)
}

// panickingRepo fails every zone lookup with a panic.
type panickingRepo struct {
	repository.WinsRepository
}

func (panickingRepo) ResolveZone(context.Context, string) (int64, error) {
	panic("corrupt store")
}

func (panickingRepo) Close() error { return nil }
