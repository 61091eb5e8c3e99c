// Package httpapi is the REST adapter: a thin layer that decodes and
// validates request DTOs, dispatches mediator commands and queries, and
// renders domain results as JSON views. Game rules never live here.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"burnrate/internal/adapters/metrics"
	"burnrate/internal/application/mediator"
	"burnrate/internal/infrastructure/config"
)

// Server owns the HTTP listener and the route table.
type Server struct {
	mediator       mediator.Mediator
	logger         *zap.Logger
	httpMetrics    *metrics.HTTPMetricsCollector
	limiters       *ipLimiters
	corsOrigins    []string
	adminKey       string
	requestTimeout time.Duration
	httpServer     *http.Server
}

// NewServer wires the route table against the mediator. The server does
// not start listening until Start.
func NewServer(cfg config.ServerConfig, m mediator.Mediator, logger *zap.Logger, httpMetrics *metrics.HTTPMetricsCollector) *Server {
	s := &Server{
		mediator:       m,
		logger:         logger,
		httpMetrics:    httpMetrics,
		limiters:       newIPLimiters(cfg.RateLimit),
		corsOrigins:    cfg.CORSOrigins,
		adminKey:       cfg.AdminKey,
		requestTimeout: cfg.RequestTimeout,
	}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler builds the full route table wrapped in the request middleware.
// Exposed separately so tests can drive the mux without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, s.instrument(pattern, h))
	}

	// Public
	route("GET /health", s.handleHealth)
	route("GET /world/status", s.handleWorldStatus)
	route("POST /join", s.handleJoin)

	// Player and world
	route("GET /me", s.handleGetMe)
	route("GET /world/zones", s.handleListZones)
	route("GET /world/zones/{id}", s.handleGetZone)
	route("GET /routes", s.handleListRoutes)
	route("POST /travel", s.handleTravel)
	route("POST /extract", s.handleExtract)
	route("POST /produce", s.handleProduce)
	route("POST /supply", s.handleSupply)
	route("POST /capture", s.handleCapture)
	route("POST /stockpile", s.handleStockpile)
	route("GET /zone/{id}/efficiency", s.handleZoneEfficiency)

	// Shipping and units
	route("POST /ship", s.handleShip)
	route("GET /shipments", s.handleListShipments)
	route("GET /units", s.handleListUnits)
	route("GET /market/units", s.handleUnitMarket)
	route("POST /units/{id}/escort", s.handleAssignEscort)
	route("POST /units/{id}/raider", s.handleDeployRaider)
	route("POST /units/{id}/sell", s.handleSellUnit)
	route("POST /units/{id}/recall", s.handleRecallUnit)
	route("POST /hire/{unitId}", s.handleHireUnit)

	// Market
	route("POST /market/order", s.handlePlaceOrder)
	route("POST /market/conditional", s.handlePlaceConditional)
	route("POST /market/time-weighted", s.handlePlaceTWAP)
	route("GET /market/orders", s.handleListZoneOrders)
	route("DELETE /market/orders/{id}", s.handleCancelOrder)
	route("GET /market/mine", s.handleListMyOrders)
	route("GET /market/trades", s.handleListTrades)

	// Intel
	route("POST /scan", s.handleScan)
	route("GET /intel", s.handleListIntel)
	route("GET /intel/{type}/{id}", s.handleIntelByTarget)

	// Factions
	route("GET /factions", s.handleListFactions)
	route("POST /factions", s.handleCreateFaction)
	route("POST /factions/{id}/join", s.handleJoinFaction)
	route("POST /factions/leave", s.handleLeaveFaction)
	route("DELETE /factions", s.handleDisbandFaction)
	route("GET /factions/mine", s.handleMyFaction)
	route("GET /factions/intel", s.handleFactionIntel)
	route("POST /factions/members/{id}/promote", s.handlePromoteMember)
	route("POST /factions/members/{id}/demote", s.handleDemoteMember)
	route("DELETE /factions/members/{id}", s.handleKickMember)
	route("POST /factions/transfer-leadership", s.handleTransferLeadership)
	route("POST /factions/treasury/deposit", s.handleTreasuryDeposit)
	route("POST /factions/treasury/withdraw", s.handleTreasuryWithdraw)
	route("GET /faction/analytics", s.handleFactionAnalytics)
	route("GET /faction/audit", s.handleFactionAudit)
	route("GET /doctrines", s.handleListDoctrines)
	route("POST /doctrines", s.handleCreateDoctrine)
	route("PUT /doctrines/{id}", s.handleUpdateDoctrine)
	route("DELETE /doctrines/{id}", s.handleDeleteDoctrine)

	// Contracts
	route("GET /contracts", s.handleListContracts)
	route("GET /contracts/mine", s.handleMyContracts)
	route("POST /contracts", s.handleCreateContract)
	route("POST /contracts/{id}/accept", s.handleAcceptContract)
	route("POST /contracts/{id}/complete", s.handleCompleteContract)
	route("DELETE /contracts/{id}", s.handleCancelContract)

	// Progression
	route("GET /reputation", s.handleReputation)
	route("GET /licenses", s.handleListLicenses)
	route("POST /licenses/{type}/unlock", s.handleUnlockLicense)
	route("GET /events", s.handleListEvents)

	// Seasons
	route("GET /season", s.handleSeason)
	route("GET /leaderboard", s.handleLeaderboard)
	route("GET /season/me", s.handleMyScore)

	// Advanced
	route("GET /webhooks", s.handleListWebhooks)
	route("POST /webhooks", s.handleRegisterWebhook)
	route("DELETE /webhooks/{id}", s.handleDeleteWebhook)
	route("GET /me/export", s.handleExport)
	route("POST /batch", s.handleBatch)

	// Admin
	route("POST /admin/tick", s.handleAdminTick)
	route("POST /admin/init-world", s.handleAdminInitWorld)
	route("GET /admin/dashboard", s.handleAdminDashboard)

	return s.withRequestContext(mux)
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop drains in-flight requests up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server stopping")
	return s.httpServer.Shutdown(ctx)
}

// send dispatches through the mediator and maps any failure to the error
// envelope; handlers only deal with the happy path.
func (s *Server) send(w http.ResponseWriter, r *http.Request, req mediator.Request) (mediator.Response, bool) {
	resp, err := s.mediator.Send(r.Context(), req)
	if err != nil {
		s.writeErr(w, r, err)
		return nil, false
	}
	return resp, true
}

func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, w.Header().Get(headerCorrelationID), err)
}
