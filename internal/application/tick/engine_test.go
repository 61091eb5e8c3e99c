package tick_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"burnrate/internal/adapters/persistence"
	"burnrate/internal/application/actions"
	appseason "burnrate/internal/application/season"
	"burnrate/internal/application/tick"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
	"burnrate/test/helpers"
)

// fixture wires an engine against an isolated in-memory database, the
// same way the daemon does.
type fixture struct {
	engine    *tick.Engine
	clock     *shared.MockClock
	players   player.PlayerRepository
	zones     world.ZoneRepository
	routes    world.RouteRepository
	meta      world.MetaRepository
	shipments shipment.ShipmentRepository
	units     unit.UnitRepository
	orders    *persistence.GormOrderRepository
	trades    market.TradeRepository
	prices    market.LastPriceRepository
	contracts contract.ContractRepository
	intel     intel.ReportRepository
	archives  *persistence.GormArchiveRepository
	events    event.EventRepository
}

func newFixture(t *testing.T, cfg tick.Config) *fixture {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	playerRepo := persistence.NewGormPlayerRepository(db)
	zoneRepo := persistence.NewGormZoneRepository(db)
	routeRepo := persistence.NewGormRouteRepository(db)
	metaRepo := persistence.NewGormMetaRepository(db)
	factionRepo := persistence.NewGormFactionRepository(db)
	shipmentRepo := persistence.NewGormShipmentRepository(db)
	unitRepo := persistence.NewGormUnitRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	tradeRepo := persistence.NewGormTradeRepository(db)
	priceRepo := persistence.NewGormLastPriceRepository(db)
	contractRepo := persistence.NewGormContractRepository(db)
	intelRepo := persistence.NewGormIntelRepository(db)
	eventRepo := persistence.NewGormEventRepository(db)
	scoreRepo := persistence.NewGormScoreRepository(db)
	archiveRepo := persistence.NewGormArchiveRepository(db)

	engine := tick.NewEngine(tick.Deps{
		Players:   playerRepo,
		Zones:     zoneRepo,
		Graph:     persistence.NewCachedGraphProvider(routeRepo),
		Meta:      metaRepo,
		Factions:  factionRepo,
		Shipments: shipmentRepo,
		Units:     unitRepo,
		Orders:    orderRepo,
		Trades:    tradeRepo,
		Prices:    priceRepo,
		Contracts: contractRepo,
		Intel:     intelRepo,
		Scores:    scoreRepo,
		Archives:  archiveRepo,
		Recorder:  appseason.NewRecorder(scoreRepo),
		Txm:       persistence.NewGormTxManager(db),
		Emitter:   actions.NewEmitter(eventRepo, clock),
		WorldGate: actions.NewWorldGate(),
		Clock:     clock,
		Logger:    zap.NewNop(),
	}, cfg)

	f := &fixture{
		engine:    engine,
		clock:     clock,
		players:   playerRepo,
		zones:     zoneRepo,
		routes:    routeRepo,
		meta:      metaRepo,
		shipments: shipmentRepo,
		units:     unitRepo,
		orders:    orderRepo,
		trades:    tradeRepo,
		prices:    priceRepo,
		contracts: contractRepo,
		intel:     intelRepo,
		archives:  archiveRepo,
		events:    eventRepo,
	}
	require.NoError(t, metaRepo.Save(context.Background(), &world.Meta{
		CurrentTick: 0,
		LastTickAt:  clock.Now(),
		Season:      1,
		Seed:        "7",
	}))
	return f
}

func defaultConfig() tick.Config {
	return tick.Config{Interval: time.Second, TicksPerDay: 1000}
}

func (f *fixture) systemEvents(t *testing.T, ctx context.Context) map[string]int {
	t.Helper()
	evs, err := f.events.FindByActor(ctx, "system", 500)
	require.NoError(t, err)
	counts := make(map[string]int)
	for _, e := range evs {
		counts[e.Type]++
	}
	return counts
}

func TestAdvance_ForceCommitsOneTick(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	res, err := f.engine.Advance(ctx, true)
	require.NoError(t, err)

	assert.True(t, res.Advanced)
	assert.Equal(t, int64(1), res.Tick)

	m, err := f.meta.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.CurrentTick)

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeTickCompleted])
}

func TestAdvance_YieldsInsideInterval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	_, err := f.engine.Advance(ctx, true)
	require.NoError(t, err)

	// The clock has not moved, so the next firing yields.
	res, err := f.engine.Advance(ctx, false)
	require.NoError(t, err)
	assert.False(t, res.Advanced)
	assert.Equal(t, int64(1), res.Tick)

	f.clock.Advance(time.Second)
	res, err = f.engine.Advance(ctx, false)
	require.NoError(t, err)
	assert.True(t, res.Advanced)
	assert.Equal(t, int64(2), res.Tick)
}

func TestAdvance_MaintenanceDeletesOldestUnitsFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	owner := player.NewPlayer("pl-1", "mara", "bk_1", "zn-hub", 0)
	owner.Credits = 3
	require.NoError(t, f.players.Add(ctx, owner))

	older := unit.NewUnit("un-old", "pl-1", unit.KindEscort, "zn-hub", 0)
	newer := unit.NewUnit("un-new", "pl-1", unit.KindEscort, "zn-hub", 5)
	require.NoError(t, f.units.Add(ctx, older))
	require.NoError(t, f.units.Add(ctx, newer))

	_, err := f.engine.Advance(ctx, true)
	require.NoError(t, err)

	// Upkeep of 4 against 3 credits goes negative; the oldest unit is
	// deleted and its charge voided, landing the balance at 1.
	_, err = f.units.FindByID(ctx, "un-old")
	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

	_, err = f.units.FindByID(ctx, "un-new")
	require.NoError(t, err)

	p, err := f.players.FindByID(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Credits)

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeUnitDeleted])
}

func TestAdvance_SupplyBurnCollapsesStarvedZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	z := world.NewZone("zn-front", "Verdan Front", world.ZoneFront)
	require.NoError(t, z.Capture("fac-1"))
	z.SUStockpile = 4 // burn is 10
	require.NoError(t, f.zones.Add(ctx, z))

	_, err := f.engine.Advance(ctx, true)
	require.NoError(t, err)

	got, err := f.zones.FindByID(ctx, "zn-front")
	require.NoError(t, err)
	assert.Equal(t, world.ZoneStatusCollapsed, got.Status)
	assert.Empty(t, got.OwnerFactionID)
	assert.Zero(t, got.SupplyLevel)
	assert.Zero(t, got.SUStockpile)

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeZoneCollapsed])
}

func TestAdvance_ShipmentArrivesOnSafeRoute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-a", "Alder Hub", world.ZoneHub)))
	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-b", "Birch Hub", world.ZoneHub)))
	route, err := world.NewRoute("rt-ab", "zn-a", "zn-b", 1, 10, 0, 1.0)
	require.NoError(t, err)
	require.NoError(t, f.routes.Add(ctx, route))

	owner := player.NewPlayer("pl-1", "mara", "bk_1", "zn-a", 0)
	require.NoError(t, f.players.Add(ctx, owner))

	cargo := shared.Inventory{shared.ResourceOre: 60}
	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindCourier,
		[]string{"zn-a", "zn-b"}, cargo,
		func(a, b string) (int, bool) { return 1, true }, 0)
	require.NoError(t, err)
	require.NoError(t, f.shipments.Add(ctx, s))

	_, err = f.engine.Advance(ctx, true)
	require.NoError(t, err)

	got, err := f.shipments.FindByID(ctx, "shp-1")
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusArrived, got.Status)
	assert.True(t, got.Cargo.IsEmpty())

	dest, err := f.zones.FindByID(ctx, "zn-b")
	require.NoError(t, err)
	assert.Equal(t, 60, dest.Inventory.Get(shared.ResourceOre))

	p, err := f.players.FindByID(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, tick.ArrivalReputation, p.Reputation)

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeShipmentArrived])
}

func TestAdvance_UnescortedConvoyOnMaxRiskRouteIsIntercepted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-a", "Alder Hub", world.ZoneHub)))
	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-b", "Kessel Junction", world.ZoneJunction)))
	// base_risk 0.3 · chokepoint 3.0 · convoy visibility 2.0 clamps the
	// interception probability to 1.0, so the roll always fires.
	route, err := world.NewRoute("rt-ab", "zn-a", "zn-b", 1, 10, 0.3, 3.0)
	require.NoError(t, err)
	require.NoError(t, f.routes.Add(ctx, route))

	owner := player.NewPlayer("pl-1", "mara", "bk_1", "zn-a", 0)
	owner.Reputation = 40
	require.NoError(t, f.players.Add(ctx, owner))

	s, err := shipment.NewShipment("shp-1", "pl-1", shipment.KindConvoy,
		[]string{"zn-a", "zn-b"}, shared.Inventory{shared.ResourceOre: 500},
		func(a, b string) (int, bool) { return 1, true }, 0)
	require.NoError(t, err)
	require.NoError(t, f.shipments.Add(ctx, s))

	_, err = f.engine.Advance(ctx, true)
	require.NoError(t, err)

	got, err := f.shipments.FindByID(ctx, "shp-1")
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusIntercepted, got.Status,
		"zero escorts against the ambient raider is a decisive loss")
	assert.True(t, got.Cargo.IsEmpty())

	p, err := f.players.FindByID(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, 40+tick.InterceptionReputationLoss, p.Reputation)

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeCombatResolved])
	assert.Equal(t, 1, counts[event.TypeShipmentIntercepted])
}

func TestAdvance_MatchesBooksAndSettles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-hub", "Alder Hub", world.ZoneHub)))
	seller := player.NewPlayer("pl-seller", "sel", "bk_s", "zn-hub", 0)
	buyer := player.NewPlayer("pl-buyer", "buy", "bk_b", "zn-hub", 0)
	require.NoError(t, f.players.Add(ctx, seller))
	require.NoError(t, f.players.Add(ctx, buyer))

	sell, err := market.NewLimitOrder("or-s", "pl-seller", "zn-hub", shared.ResourceOre,
		market.SideSell, 12, 50, 0, 1)
	require.NoError(t, err)
	buy, err := market.NewLimitOrder("or-b", "pl-buyer", "zn-hub", shared.ResourceOre,
		market.SideBuy, 14, 30, 0, 2)
	require.NoError(t, err)
	require.NoError(t, f.orders.Add(ctx, sell))
	require.NoError(t, f.orders.Add(ctx, buy))

	_, err = f.engine.Advance(ctx, true)
	require.NoError(t, err)

	// One trade of 30 at the resting maker's 12.
	gotBuy, err := f.orders.FindByID(ctx, "or-b")
	require.NoError(t, err)
	assert.Equal(t, market.StatusFilled, gotBuy.Status)
	gotSell, err := f.orders.FindByID(ctx, "or-s")
	require.NoError(t, err)
	assert.Equal(t, market.StatusOpen, gotSell.Status)
	assert.Equal(t, 20, gotSell.Remaining)

	gotBuyer, err := f.players.FindByID(ctx, "pl-buyer")
	require.NoError(t, err)
	assert.Equal(t, 30, gotBuyer.Inventory.Get(shared.ResourceOre))
	assert.Equal(t, player.StartingCredits+60, gotBuyer.Credits,
		"price improvement of 2 on 30 units refunds 60")

	gotSeller, err := f.players.FindByID(ctx, "pl-seller")
	require.NoError(t, err)
	assert.Equal(t, player.StartingCredits+360, gotSeller.Credits)

	lp, err := f.prices.Get(ctx, "zn-hub", shared.ResourceOre)
	require.NoError(t, err)
	assert.Equal(t, int64(12), lp.Price)

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeTradeExecuted])
}

func TestAdvance_ConditionalArmsAgainstLastPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-hub", "Alder Hub", world.ZoneHub)))
	owner := player.NewPlayer("pl-1", "mara", "bk_1", "zn-hub", 0)
	require.NoError(t, f.players.Add(ctx, owner))

	cond, err := market.NewConditionalOrder("or-c", "pl-1", "zn-hub", shared.ResourceFuel,
		market.SideBuy, 10, 5, market.TriggerLTE, 8, 0, 1)
	require.NoError(t, err)
	require.NoError(t, f.orders.Add(ctx, cond))

	// No trade history yet: the conditional must stay unarmed.
	_, err = f.engine.Advance(ctx, true)
	require.NoError(t, err)
	got, err := f.orders.FindByID(ctx, "or-c")
	require.NoError(t, err)
	assert.False(t, got.Armed)

	require.NoError(t, f.prices.Save(ctx, &market.LastPrice{
		ZoneID: "zn-hub", Resource: shared.ResourceFuel, Price: 8, Tick: 1,
	}))

	f.clock.Advance(time.Second)
	_, err = f.engine.Advance(ctx, false)
	require.NoError(t, err)

	got, err = f.orders.FindByID(ctx, "or-c")
	require.NoError(t, err)
	assert.True(t, got.Armed, "last price at the trigger arms the order")
}

func TestAdvance_TWAPInjectsSlices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	require.NoError(t, f.zones.Add(ctx, world.NewZone("zn-hub", "Alder Hub", world.ZoneHub)))
	owner := player.NewPlayer("pl-1", "mara", "bk_1", "zn-hub", 0)
	require.NoError(t, f.players.Add(ctx, owner))

	parent, err := market.NewTWAPOrder("or-t", "pl-1", "zn-hub", shared.ResourceMetal,
		market.SideSell, 10, 20, 10, 0, 1)
	require.NoError(t, err)
	require.NoError(t, f.orders.Add(ctx, parent))

	_, err = f.engine.Advance(ctx, true)
	require.NoError(t, err)

	slices, err := f.orders.FindOpenByOwner(ctx, "pl-1")
	require.NoError(t, err)
	var injected int
	for _, o := range slices {
		if o.ParentOrderID == "or-t" {
			injected++
			assert.Equal(t, market.TypeLimit, o.Type)
			assert.Equal(t, 10, o.Remaining)
		}
	}
	assert.Equal(t, 1, injected, "one slice per tick")

	gotParent, err := f.orders.FindByID(ctx, "or-t")
	require.NoError(t, err)
	assert.Equal(t, 10, gotParent.Remaining)
	assert.Equal(t, 1, gotParent.TicksRemaining)
}

func TestAdvance_IntelSweepDeletesExpiredReports(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	require.NoError(t, f.meta.Save(ctx, &world.Meta{
		CurrentTick: 249,
		LastTickAt:  f.clock.Now(),
		Season:      1,
	}))

	z := world.NewZone("zn-1", "Verdan Front", world.ZoneFront)
	require.NoError(t, f.zones.Add(ctx, z))
	old := intel.NewZoneReport("il-old", "pl-1", "", z, 40)
	recent := intel.NewZoneReport("il-recent", "pl-1", "", z, 60)
	require.NoError(t, f.intel.Add(ctx, old))
	require.NoError(t, f.intel.Add(ctx, recent))

	// Tick 250 is a sweep tick; the cutoff is 250−200 = 50.
	_, err := f.engine.Advance(ctx, true)
	require.NoError(t, err)

	_, err = f.intel.FindByID(ctx, "il-old")
	require.Error(t, err)
	assert.Equal(t, shared.KindNotFound, shared.KindOf(err))

	_, err = f.intel.FindByID(ctx, "il-recent")
	assert.NoError(t, err)
}

func TestAdvance_ExpiresDueContractsAndRefundsPoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, defaultConfig())

	poster := player.NewPlayer("pl-poster", "poster", "bk_p", "zn-hub", 0)
	require.NoError(t, f.players.Add(ctx, poster))

	c, err := contract.NewContract("ct-1", contract.KindSupply, "pl-poster", contract.PosterPlayer,
		contract.Details{ZoneID: "zn-1", Amount: 100}, 1, 400, 0, 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, f.contracts.Add(ctx, c))

	_, err = f.engine.Advance(ctx, true)
	require.NoError(t, err)

	got, err := f.contracts.FindByID(ctx, "ct-1")
	require.NoError(t, err)
	assert.Equal(t, contract.StatusExpired, got.Status)
	assert.Zero(t, got.EscrowedCredits)

	gotPoster, err := f.players.FindByID(ctx, "pl-poster")
	require.NoError(t, err)
	assert.Equal(t, player.StartingCredits+380, gotPoster.Credits,
		"escrow returns minus the 5% cancellation fee")

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeContractExpired])
}

func TestAdvance_SeasonRollsOverAtConfiguredLength(t *testing.T) {
	ctx := context.Background()
	cfg := defaultConfig()
	cfg.SeasonLengthTicks = 1
	f := newFixture(t, cfg)

	p := player.NewPlayer("pl-1", "mara", "bk_1", "zn-hub", 0)
	p.Credits = 9_000
	p.Reputation = 100
	require.NoError(t, f.players.Add(ctx, p))

	z := world.NewZone("zn-1", "Verdan Front", world.ZoneFront)
	require.NoError(t, z.Capture("fac-1"))
	z.SUStockpile = 100
	require.NoError(t, f.zones.Add(ctx, z))

	require.NoError(t, f.prices.Save(ctx, &market.LastPrice{
		ZoneID: "zn-1", Resource: shared.ResourceOre, Price: 9, Tick: 0,
	}))

	_, err := f.engine.Advance(ctx, true)
	require.NoError(t, err)

	m, err := f.meta.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Season)
	assert.Equal(t, int64(1), m.SeasonStartTick)
	assert.NotEmpty(t, m.ArchiveHash)

	archive, err := f.archives.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, m.ArchiveHash, archive.Hash)
	ok, err := archive.Verify()
	require.NoError(t, err)
	assert.True(t, ok)

	gotPlayer, err := f.players.FindByID(ctx, "pl-1")
	require.NoError(t, err)
	assert.Equal(t, player.StartingCredits, gotPlayer.Credits)
	assert.Equal(t, 50, gotPlayer.Reputation, "reputation halves across seasons")

	gotZone, err := f.zones.FindByID(ctx, "zn-1")
	require.NoError(t, err)
	assert.Empty(t, gotZone.OwnerFactionID)
	assert.Zero(t, gotZone.SUStockpile)

	_, err = f.prices.Get(ctx, "zn-1", shared.ResourceOre)
	require.Error(t, err, "price history resets with the season")

	counts := f.systemEvents(t, ctx)
	assert.Equal(t, 1, counts[event.TypeSeasonReset])
}

func TestRun_StopsWhenContextCancelled(t *testing.T) {
	cfg := defaultConfig()
	cfg.Interval = 5 * time.Millisecond
	f := newFixture(t, cfg)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.engine.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine did not stop after cancellation")
	}
}
