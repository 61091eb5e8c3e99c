// Package tick drives the world clock. A scheduler fires on the
// configured interval; each firing claims the next tick idempotently
// (CAS on the stored last-tick stamp, so concurrent instances never
// double-advance) and runs the ordered pipeline: maintenance, shipment
// movement and interception, production refill, supply burn, stockpile
// decay, TWAP progression, conditional arming, market matching,
// contract expiry, zone income, intel sweep, and season progression.
// The claim and every stage commit in one transaction; webhook
// delivery is network I/O and is kicked off only after commit.
package tick

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/application/actions"
	appseason "burnrate/internal/application/season"
	"burnrate/internal/domain/contract"
	"burnrate/internal/domain/event"
	"burnrate/internal/domain/faction"
	"burnrate/internal/domain/intel"
	"burnrate/internal/domain/market"
	"burnrate/internal/domain/player"
	"burnrate/internal/domain/season"
	"burnrate/internal/domain/shared"
	"burnrate/internal/domain/shipment"
	"burnrate/internal/domain/unit"
	"burnrate/internal/domain/world"
)

// errTickLost signals that another instance claimed the tick first. The
// transaction rolls back and the loser yields until the next firing.
var errTickLost = errors.New("tick already claimed by another instance")

// Kicker wakes the webhook dispatcher after a tick commits. Delivery
// runs outside the tick transaction; the dispatcher drains the event
// log from its own cursors.
type Kicker interface {
	Kick()
}

// Config carries the engine's tuning knobs.
type Config struct {
	// Interval between ticks. A firing yields when less than this has
	// elapsed since the stored last-tick stamp.
	Interval time.Duration
	// SeasonLengthTicks ends the running season once this many ticks
	// have elapsed since its start.
	SeasonLengthTicks int64
	// TicksPerDay converts tick arithmetic to days for quota resets and
	// income activity windows.
	TicksPerDay int64
}

// Deps bundles everything the pipeline touches.
type Deps struct {
	Players    player.PlayerRepository
	Zones      world.ZoneRepository
	Graph      world.GraphProvider
	Meta       world.MetaRepository
	Factions   faction.FactionRepository
	Shipments  shipment.ShipmentRepository
	Units      unit.UnitRepository
	Orders     market.OrderRepository
	Trades     market.TradeRepository
	Prices     market.LastPriceRepository
	Contracts  contract.ContractRepository
	Intel      intel.ReportRepository
	Scores     season.ScoreRepository
	Archives   season.ArchiveRepository
	Recorder   *appseason.Recorder
	Txm        shared.TxManager
	Emitter    *actions.Emitter
	WorldGate  *actions.WorldGate
	Clock      shared.Clock
	Logger     *zap.Logger
	Dispatcher Kicker
}

// Engine advances the world one tick at a time.
type Engine struct {
	players    player.PlayerRepository
	zones      world.ZoneRepository
	graph      world.GraphProvider
	meta       world.MetaRepository
	factions   faction.FactionRepository
	shipments  shipment.ShipmentRepository
	units      unit.UnitRepository
	orders     market.OrderRepository
	trades     market.TradeRepository
	prices     market.LastPriceRepository
	contracts  contract.ContractRepository
	intel      intel.ReportRepository
	scores     season.ScoreRepository
	archives   season.ArchiveRepository
	recorder   *appseason.Recorder
	txm        shared.TxManager
	emitter    *actions.Emitter
	worldGate  *actions.WorldGate
	clock      shared.Clock
	logger     *zap.Logger
	dispatcher Kicker
	cfg        Config
}

// NewEngine creates a new Engine
func NewEngine(d Deps, cfg Config) *Engine {
	return &Engine{
		players:    d.Players,
		zones:      d.Zones,
		graph:      d.Graph,
		meta:       d.Meta,
		factions:   d.Factions,
		shipments:  d.Shipments,
		units:      d.Units,
		orders:     d.Orders,
		trades:     d.Trades,
		prices:     d.Prices,
		contracts:  d.Contracts,
		intel:      d.Intel,
		scores:     d.Scores,
		archives:   d.Archives,
		recorder:   d.Recorder,
		txm:        d.Txm,
		emitter:    d.Emitter,
		worldGate:  d.WorldGate,
		clock:      d.Clock,
		logger:     d.Logger,
		dispatcher: d.Dispatcher,
		cfg:        cfg,
	}
}

// Result reports one Advance attempt.
type Result struct {
	// Tick is the world tick after the attempt: the new tick when this
	// call advanced, the unchanged current tick when it yielded.
	Tick int64
	// Advanced is true when this call claimed and committed the tick.
	Advanced bool
	Duration time.Duration
}

// Run fires Advance on the configured interval until the context is
// cancelled. Failed ticks are logged and retried on the next firing;
// the claim ensures a retried tick starts from the same state.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()
	e.logger.Info("tick engine started", zap.Duration("interval", e.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("tick engine stopped")
			return
		case <-ticker.C:
			if _, err := e.Advance(ctx, false); err != nil {
				e.logger.Error("tick failed", zap.Error(err))
			}
		}
	}
}

// Advance attempts to move the world forward one tick. It yields
// without error when the interval has not elapsed (unless force) or
// when another instance wins the claim. The claim and all pipeline
// stages share one transaction: any stage error rolls the whole tick
// back and the stored tick never advances.
func (e *Engine) Advance(ctx context.Context, force bool) (*Result, error) {
	e.worldGate.EnterTick()
	defer e.worldGate.LeaveTick()

	started := e.clock.Now()

	meta, err := e.meta.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !force && started.Sub(meta.LastTickAt) < e.cfg.Interval {
		return &Result{Tick: meta.CurrentTick}, nil
	}

	newTick := meta.CurrentTick + 1
	err = e.txm.Do(ctx, func(ctx context.Context) error {
		claimed, err := e.meta.ClaimTick(ctx, newTick, started, meta.LastTickAt)
		if err != nil {
			return err
		}
		if !claimed {
			return errTickLost
		}
		fresh, err := e.meta.Get(ctx)
		if err != nil {
			return err
		}
		return e.runPipeline(ctx, fresh)
	})
	if errors.Is(err, errTickLost) {
		e.logger.Debug("tick claim lost", zap.Int64("tick", newTick))
		return &Result{Tick: meta.CurrentTick}, nil
	}
	if err != nil {
		e.abortTick(ctx, newTick, err)
		metrics.RecordTickExecution(e.clock.Since(started).Seconds(), false)
		return nil, err
	}

	duration := e.clock.Since(started)
	metrics.RecordTickExecution(duration.Seconds(), true)
	metrics.SetCurrentTick(float64(newTick))
	e.logger.Info("tick committed",
		zap.Int64("tick", newTick),
		zap.Duration("duration", duration))

	if e.dispatcher != nil {
		e.dispatcher.Kick()
	}
	return &Result{Tick: newTick, Advanced: true, Duration: duration}, nil
}

// abortTick records a rolled-back tick in the event log. The append
// runs outside the failed transaction and is best-effort: the abort is
// already logged, the event just keeps the audit trail complete.
func (e *Engine) abortTick(ctx context.Context, tick int64, cause error) {
	e.logger.Error("tick aborted", zap.Int64("tick", tick), zap.Error(cause))
	if err := e.emitter.EmitSystem(ctx, event.TypeTickAborted, tick, map[string]any{
		"error": cause.Error(),
	}); err != nil {
		e.logger.Warn("failed to record tick abort", zap.Error(err))
	}
}
