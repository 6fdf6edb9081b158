// Package relayer implements app.Runner for the relayer process.
package relayer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	apphttp "github.com/corneanet/notification-relayer/pkg/app/http"
	"github.com/corneanet/notification-relayer/pkg/auth"
	"github.com/corneanet/notification-relayer/pkg/balance"
	"github.com/corneanet/notification-relayer/pkg/config"
	"github.com/corneanet/notification-relayer/pkg/ethereum"
	"github.com/corneanet/notification-relayer/pkg/ledger"
	"github.com/corneanet/notification-relayer/pkg/notification"
	"github.com/corneanet/notification-relayer/pkg/pgutil"
	"github.com/corneanet/notification-relayer/pkg/relayer"
	"github.com/corneanet/notification-relayer/pkg/signer"
)

// Server holds configuration for the relayer process.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new relayer Server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run wires the stores, chain client and relayer, starts the scheduled jobs and
// serves the HTTP API. It blocks until an OS shutdown signal is received or the
// HTTP server fails.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting notification relayer",
		zap.String("rpc_url", cfg.Chain.RPCURL),
		zap.Int64("chain_id", cfg.Chain.ChainID))

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect relayer db: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database))

	notifications := notification.NewStore(db)
	ledgerStore := ledger.NewStore(db)
	balanceStore := balance.NewStore(db)

	chain, err := ethereum.NewClient(&cfg.Chain, logger)
	if err != nil {
		return fmt.Errorf("initialize ethereum client: %w", err)
	}
	defer chain.Close()

	authority := signer.New(cfg.Chain.RelayerPrivateKey, chain, &cfg.Chain, logger)
	monitor := balance.NewMonitor(chain, authority, balanceStore, cfg.Relayer.NativeDecimals, logger)

	sweeper := relayer.NewSweeper(
		chain,
		ledgerStore,
		notifications,
		monitor,
		common.HexToAddress(cfg.Chain.RegistryContract),
		cfg.Relayer.StalledAfter,
		logger,
	)
	orchestrator, err := relayer.NewOrchestrator(
		&cfg.Chain,
		&cfg.Relayer,
		authority,
		chain,
		monitor,
		notifications,
		ledgerStore,
		sweeper,
		logger,
	)
	if err != nil {
		return fmt.Errorf("initialize orchestrator: %w", err)
	}
	defer orchestrator.Stop()

	svc := relayer.NewService(&cfg.Chain, &cfg.Relayer, orchestrator, sweeper, authority, monitor, ledgerStore, notifications)
	svc = relayer.NewLog(svc, logger)

	engine := relayer.NewEngine(&cfg.Relayer, sweeper, monitor, logger)
	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start relayer engine: %w", err)
	}
	defer engine.Stop()

	router := s.newRouter(svc, engine, db, logger)
	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)
}

func (s *Server) newRouter(svc relayer.Service, engine *relayer.Engine, db *bun.DB, logger *zap.Logger) http.Handler {
	cfg := s.cfg

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	r.Use(apphttp.CORS)
	r.Use(apphttp.RequestLogger(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !engine.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		if err := db.PingContext(r.Context()); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("DB_UNAVAILABLE"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	validator := auth.NewJWTValidator(&cfg.Auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(validator, logger))
		relayer.RegisterRoutes(r, svc, logger)
	})

	return r
}
