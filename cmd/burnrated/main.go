package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"burnrate/internal/adapters/httpapi"
	"burnrate/internal/adapters/metrics"
	"burnrate/internal/adapters/persistence"
	"burnrate/internal/adapters/webhook"
	"burnrate/internal/application/actions"
	"burnrate/internal/application/admin"
	"burnrate/internal/application/auth"
	"burnrate/internal/application/batch"
	"burnrate/internal/application/contracts"
	"burnrate/internal/application/faction"
	"burnrate/internal/application/intel"
	"burnrate/internal/application/logging"
	"burnrate/internal/application/market"
	"burnrate/internal/application/mediator"
	"burnrate/internal/application/player"
	"burnrate/internal/application/season"
	"burnrate/internal/application/shipping"
	"burnrate/internal/application/tick"
	"burnrate/internal/application/webhooks"
	"burnrate/internal/application/worldq"
	"burnrate/internal/domain/shared"
	"burnrate/internal/infrastructure/config"
	"burnrate/internal/infrastructure/database"
	"burnrate/internal/infrastructure/pidfile"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: search standard locations)")
	flag.Parse()

	fmt.Printf("burnrated %s\n", version)

	cfg := config.MustLoadConfig(*configPath)

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.PIDFile != "" {
		pf := pidfile.New(cfg.Server.PIDFile)
		if err := pf.Acquire(); err != nil {
			logger.Fatal("failed to acquire pid file", zap.Error(err))
		}
		defer func() {
			if err := pf.Release(); err != nil {
				logger.Warn("failed to release pid file", zap.Error(err))
			}
		}()
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("daemon exited with error", zap.Error(err))
	}
	logger.Info("daemon stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("database ready", zap.String("type", cfg.Database.Type))

	// Metrics. Collectors are always constructed so recording sites need
	// no nil checks; registration is a no-op while the registry is unset.
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}
	httpMetrics := metrics.NewHTTPMetricsCollector()
	actionMetrics := metrics.NewActionMetricsCollector()
	tickMetrics := metrics.NewTickMetricsCollector()
	worldMetrics := metrics.NewWorldMetricsCollector()
	marketMetrics := metrics.NewMarketMetricsCollector()
	webhookMetrics := metrics.NewWebhookMetricsCollector()
	for _, register := range []func() error{
		httpMetrics.Register,
		actionMetrics.Register,
		tickMetrics.Register,
		worldMetrics.Register,
		marketMetrics.Register,
		webhookMetrics.Register,
	} {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	if cfg.Metrics.Enabled {
		metrics.SetGlobalTickCollector(tickMetrics)
		metrics.SetGlobalWorldCollector(worldMetrics)
		metrics.SetGlobalMarketCollector(marketMetrics)
		metrics.SetGlobalWebhookCollector(webhookMetrics)
	}

	// Repositories.
	playerRepo := persistence.NewGormPlayerRepository(db)
	zoneRepo := persistence.NewGormZoneRepository(db)
	routeRepo := persistence.NewGormRouteRepository(db)
	metaRepo := persistence.NewGormMetaRepository(db)
	factionRepo := persistence.NewGormFactionRepository(db)
	doctrineRepo := persistence.NewGormDoctrineRepository(db)
	shipmentRepo := persistence.NewGormShipmentRepository(db)
	unitRepo := persistence.NewGormUnitRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	tradeRepo := persistence.NewGormTradeRepository(db)
	priceRepo := persistence.NewGormLastPriceRepository(db)
	contractRepo := persistence.NewGormContractRepository(db)
	intelRepo := persistence.NewGormIntelRepository(db)
	eventRepo := persistence.NewGormEventRepository(db)
	webhookRepo := persistence.NewGormWebhookRepository(db)
	scoreRepo := persistence.NewGormScoreRepository(db)
	archiveRepo := persistence.NewGormArchiveRepository(db)
	txm := persistence.NewGormTxManager(db)
	graph := persistence.NewCachedGraphProvider(routeRepo)

	// Shared plumbing.
	clock := shared.NewRealClock()
	ticksPerDay := cfg.Tick.TicksPerDay()
	ticksPerWeek := 7 * ticksPerDay
	emitter := actions.NewEmitter(eventRepo, clock)
	recorder := season.NewRecorder(scoreRepo)
	limiters := actions.NewLimiters()
	worldGate := actions.NewWorldGate()
	locks := actions.NewKeyedLocks()
	gate := actions.NewGate(limiters, worldGate, locks, playerRepo, metaRepo, txm, ticksPerDay)

	// Webhook dispatcher, woken by the tick engine after each commit.
	dispatcher := webhook.NewDispatcher(webhookRepo, eventRepo, clock, logger, webhook.Config{
		Timeout: cfg.Tick.WebhookTimeout,
		Batch:   cfg.Tick.WebhookBatch,
	})

	engine := tick.NewEngine(tick.Deps{
		Players:    playerRepo,
		Zones:      zoneRepo,
		Graph:      graph,
		Meta:       metaRepo,
		Factions:   factionRepo,
		Shipments:  shipmentRepo,
		Units:      unitRepo,
		Orders:     orderRepo,
		Trades:     tradeRepo,
		Prices:     priceRepo,
		Contracts:  contractRepo,
		Intel:      intelRepo,
		Scores:     scoreRepo,
		Archives:   archiveRepo,
		Recorder:   recorder,
		Txm:        txm,
		Emitter:    emitter,
		WorldGate:  worldGate,
		Clock:      clock,
		Logger:     logger,
		Dispatcher: dispatcher,
	}, tick.Config{
		Interval:          cfg.Tick.Interval,
		SeasonLengthTicks: cfg.Season.LengthTicks(ticksPerDay),
		TicksPerDay:       ticksPerDay,
	})

	// Mediator. Middleware runs in registration order: the logger is
	// outermost so every layer below can log, the gate sits outside retry
	// so re-attempts run under the locks acquired for the first try.
	med := mediator.NewMediator()
	med.Use(
		logging.Middleware(logger),
		metrics.PrometheusMiddleware(actionMetrics),
		auth.Middleware(playerRepo),
		gate.Middleware(),
		actions.RetryMiddleware(clock),
	)

	// World queries and zone actions.
	mediator.MustRegister[*worldq.GetStatusQuery](med, worldq.NewGetStatusHandler(metaRepo, zoneRepo, playerRepo, ticksPerWeek))
	mediator.MustRegister[*worldq.ListZonesQuery](med, worldq.NewListZonesHandler(zoneRepo))
	mediator.MustRegister[*worldq.GetZoneQuery](med, worldq.NewGetZoneHandler(zoneRepo, graph))
	mediator.MustRegister[*worldq.GetZoneEfficiencyQuery](med, worldq.NewGetZoneEfficiencyHandler(zoneRepo))
	mediator.MustRegister[*worldq.ListRoutesQuery](med, worldq.NewListRoutesHandler(graph))
	mediator.MustRegister[*worldq.SupplyCommand](med, worldq.NewSupplyHandler(playerRepo, zoneRepo, contractRepo, metaRepo, recorder, txm, emitter))
	mediator.MustRegister[*worldq.CaptureCommand](med, worldq.NewCaptureHandler(playerRepo, zoneRepo, metaRepo, recorder, emitter, txm))
	mediator.MustRegister[*worldq.StockpileCommand](med, worldq.NewStockpileHandler(playerRepo, zoneRepo, metaRepo, txm, emitter))

	// Player lifecycle and progression.
	mediator.MustRegister[*player.JoinCommand](med, player.NewJoinHandler(playerRepo, zoneRepo, metaRepo, txm, emitter))
	mediator.MustRegister[*player.GetMeQuery](med, player.NewGetMeHandler(playerRepo, metaRepo, ticksPerDay))
	mediator.MustRegister[*player.TravelCommand](med, player.NewTravelHandler(playerRepo, zoneRepo, graph, metaRepo, txm, emitter))
	mediator.MustRegister[*player.ExtractCommand](med, player.NewExtractHandler(playerRepo, zoneRepo, metaRepo, txm, emitter))
	mediator.MustRegister[*player.ProduceCommand](med, player.NewProduceHandler(playerRepo, zoneRepo, unitRepo, metaRepo, txm, emitter))
	mediator.MustRegister[*player.UnlockLicenseCommand](med, player.NewUnlockLicenseHandler(playerRepo, metaRepo, txm, emitter))
	mediator.MustRegister[*player.GetLicensesQuery](med, player.NewGetLicensesHandler(playerRepo))
	mediator.MustRegister[*player.GetReputationQuery](med, player.NewGetReputationHandler(playerRepo))
	mediator.MustRegister[*player.ListEventsQuery](med, player.NewListEventsHandler(eventRepo))
	mediator.MustRegister[*player.ExportQuery](med, player.NewExportHandler(playerRepo, shipmentRepo, unitRepo, orderRepo, contractRepo))

	// Shipping and units. One handler covers every unit order since they
	// share locking and ownership checks.
	mediator.MustRegister[*shipping.LaunchCommand](med, shipping.NewLaunchHandler(playerRepo, shipmentRepo, unitRepo, graph, metaRepo, txm, emitter))
	mediator.MustRegister[*shipping.ListShipmentsQuery](med, shipping.NewListShipmentsHandler(shipmentRepo))
	mediator.MustRegister[*shipping.ListUnitsQuery](med, shipping.NewListUnitsHandler(unitRepo))
	mediator.MustRegister[*shipping.ListUnitMarketQuery](med, shipping.NewListUnitMarketHandler(unitRepo))
	unitHandler := shipping.NewUnitHandler(playerRepo, unitRepo, shipmentRepo, routeRepo, metaRepo, txm, emitter)
	mediator.MustRegister[*shipping.AssignEscortCommand](med, unitHandler)
	mediator.MustRegister[*shipping.DeployRaiderCommand](med, unitHandler)
	mediator.MustRegister[*shipping.RecallUnitCommand](med, unitHandler)
	mediator.MustRegister[*shipping.SellUnitCommand](med, unitHandler)
	mediator.MustRegister[*shipping.HireUnitCommand](med, unitHandler)

	// Market.
	placeHandler := market.NewPlaceOrderHandler(playerRepo, zoneRepo, orderRepo, metaRepo, txm, emitter)
	mediator.MustRegister[*market.PlaceOrderCommand](med, placeHandler)
	mediator.MustRegister[*market.PlaceConditionalCommand](med, placeHandler)
	mediator.MustRegister[*market.PlaceTWAPCommand](med, placeHandler)
	mediator.MustRegister[*market.CancelOrderCommand](med, market.NewCancelOrderHandler(playerRepo, orderRepo, metaRepo, txm, emitter))
	mediator.MustRegister[*market.ListZoneOrdersQuery](med, market.NewListZoneOrdersHandler(orderRepo))
	mediator.MustRegister[*market.ListMyOrdersQuery](med, market.NewListMyOrdersHandler(orderRepo))
	mediator.MustRegister[*market.GetTradesQuery](med, market.NewGetTradesHandler(tradeRepo, priceRepo))

	// Intel.
	mediator.MustRegister[*intel.ScanCommand](med, intel.NewScanHandler(zoneRepo, routeRepo, shipmentRepo, intelRepo, metaRepo, txm, emitter))
	mediator.MustRegister[*intel.ListIntelQuery](med, intel.NewListIntelHandler(intelRepo, metaRepo))
	mediator.MustRegister[*intel.GetIntelByTargetQuery](med, intel.NewGetIntelByTargetHandler(intelRepo, factionRepo, metaRepo))
	mediator.MustRegister[*intel.GetFactionIntelQuery](med, intel.NewGetFactionIntelHandler(intelRepo, factionRepo, metaRepo))

	// Factions.
	membershipHandler := faction.NewMembershipHandler(playerRepo, factionRepo, zoneRepo, metaRepo, txm, emitter)
	mediator.MustRegister[*faction.CreateFactionCommand](med, membershipHandler)
	mediator.MustRegister[*faction.JoinFactionCommand](med, membershipHandler)
	mediator.MustRegister[*faction.LeaveFactionCommand](med, membershipHandler)
	mediator.MustRegister[*faction.PromoteMemberCommand](med, membershipHandler)
	mediator.MustRegister[*faction.DemoteMemberCommand](med, membershipHandler)
	mediator.MustRegister[*faction.KickMemberCommand](med, membershipHandler)
	mediator.MustRegister[*faction.TransferLeadershipCommand](med, membershipHandler)
	mediator.MustRegister[*faction.DisbandFactionCommand](med, membershipHandler)
	treasuryHandler := faction.NewTreasuryHandler(playerRepo, factionRepo, metaRepo, txm, emitter, ticksPerDay)
	mediator.MustRegister[*faction.TreasuryDepositCommand](med, treasuryHandler)
	mediator.MustRegister[*faction.TreasuryWithdrawCommand](med, treasuryHandler)
	doctrineHandler := faction.NewDoctrineHandler(factionRepo, doctrineRepo, metaRepo, txm, emitter)
	mediator.MustRegister[*faction.CreateDoctrineCommand](med, doctrineHandler)
	mediator.MustRegister[*faction.UpdateDoctrineCommand](med, doctrineHandler)
	mediator.MustRegister[*faction.DeleteDoctrineCommand](med, doctrineHandler)
	mediator.MustRegister[*faction.ListDoctrinesQuery](med, faction.NewListDoctrinesHandler(factionRepo, doctrineRepo))
	mediator.MustRegister[*faction.ListFactionsQuery](med, faction.NewListFactionsHandler(factionRepo, zoneRepo))
	mediator.MustRegister[*faction.GetMyFactionQuery](med, faction.NewGetMyFactionHandler(factionRepo))
	mediator.MustRegister[*faction.GetFactionAnalyticsQuery](med, faction.NewGetFactionAnalyticsHandler(playerRepo, factionRepo, zoneRepo, metaRepo, ticksPerDay))
	mediator.MustRegister[*faction.GetFactionAuditQuery](med, faction.NewGetFactionAuditHandler(factionRepo, eventRepo))

	// Contracts.
	mediator.MustRegister[*contracts.CreateContractCommand](med, contracts.NewCreateContractHandler(playerRepo, factionRepo, contractRepo, zoneRepo, metaRepo, txm, emitter))
	lifecycleHandler := contracts.NewLifecycleHandler(playerRepo, factionRepo, contractRepo, zoneRepo, intelRepo, metaRepo, txm, emitter, recorder)
	mediator.MustRegister[*contracts.AcceptContractCommand](med, lifecycleHandler)
	mediator.MustRegister[*contracts.CompleteContractCommand](med, lifecycleHandler)
	mediator.MustRegister[*contracts.CancelContractCommand](med, lifecycleHandler)
	mediator.MustRegister[*contracts.ListOpenContractsQuery](med, contracts.NewListOpenContractsHandler(contractRepo))
	mediator.MustRegister[*contracts.ListMyContractsQuery](med, contracts.NewListMyContractsHandler(contractRepo))

	// Seasons.
	mediator.MustRegister[*season.GetSeasonQuery](med, season.NewGetSeasonHandler(metaRepo, ticksPerWeek, cfg.Season.LengthWeeks))
	mediator.MustRegister[*season.GetLeaderboardQuery](med, season.NewGetLeaderboardHandler(metaRepo, scoreRepo))
	mediator.MustRegister[*season.GetMyScoreQuery](med, season.NewGetMyScoreHandler(metaRepo, scoreRepo))

	// Webhooks and batch.
	webhookHandler := webhooks.NewWebhookHandler(webhookRepo, eventRepo, metaRepo, txm, emitter)
	mediator.MustRegister[*webhooks.RegisterWebhookCommand](med, webhookHandler)
	mediator.MustRegister[*webhooks.DeleteWebhookCommand](med, webhookHandler)
	mediator.MustRegister[*webhooks.ListWebhooksQuery](med, webhooks.NewListWebhooksHandler(webhookRepo))
	mediator.MustRegister[*batch.BatchCommand](med, batch.NewBatchHandler(med, limiters))

	// Admin.
	seed := strconv.FormatInt(cfg.World.Seed, 10)
	if cfg.World.Seed == 0 {
		seed = strconv.FormatInt(clock.Now().UnixNano(), 10)
	}
	mediator.MustRegister[*admin.ForceTickCommand](med, admin.NewForceTickHandler(engine))
	mediator.MustRegister[*admin.InitWorldCommand](med, admin.NewInitWorldHandler(zoneRepo, routeRepo, metaRepo, graph, clock, seed, cfg.World.ZoneCount))
	mediator.MustRegister[*admin.DashboardQuery](med, admin.NewDashboardHandler(metaRepo, playerRepo, factionRepo, zoneRepo, shipmentRepo, orderRepo, contractRepo, unitRepo, eventRepo, ticksPerWeek))

	apiServer := httpapi.NewServer(cfg.Server, med, logger, httpMetrics)
	metricsServer := metrics.NewExpositionServer(cfg.Metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		engine.Run(gctx)
		return nil
	})
	g.Go(func() error {
		dispatcher.Run(gctx)
		return nil
	})
	g.Go(apiServer.Start)
	if metricsServer != nil {
		g.Go(metricsServer.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if metricsServer != nil {
			_ = metricsServer.Stop(shutdownCtx)
		}
		return apiServer.Stop(shutdownCtx)
	})

	logger.Info("daemon started",
		zap.String("addr", cfg.Server.Addr),
		zap.Duration("tickInterval", cfg.Tick.Interval),
		zap.Int64("ticksPerDay", ticksPerDay))
	return g.Wait()
}
