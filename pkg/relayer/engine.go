package relayer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/corneanet/notification-relayer/internal/metrics"
	"github.com/corneanet/notification-relayer/pkg/config"
)

// Reconciler finalizes pending transactions and reports stuck submissions
type Reconciler interface {
	Reconcile(ctx context.Context) ([]Change, error)
	ReportStalled(ctx context.Context) (int, error)
}

// Engine runs the relayer's background jobs
type Engine struct {
	cfg        *config.RelayerConfig
	reconciler Reconciler
	sampler    BalanceSampler
	logger     *zap.Logger

	cronLog cronLogger
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc

	mu      sync.RWMutex
	started bool
}

// NewEngine creates a new relayer engine
func NewEngine(cfg *config.RelayerConfig, reconciler Reconciler, sampler BalanceSampler, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		reconciler: reconciler,
		sampler:    sampler,
		logger:     logger,
		cronLog:    cronLogger{logger: logger.Sugar()},
	}
}

// newScheduler builds a scheduler holding exactly the engine's two jobs.
// Every Start gets its own.
func (e *Engine) newScheduler() (*cron.Cron, error) {
	c := cron.New(
		cron.WithLogger(e.cronLog),
		cron.WithChain(cron.Recover(e.cronLog), cron.SkipIfStillRunning(e.cronLog)),
	)
	if _, err := c.AddFunc(e.cfg.ReconcileSchedule, e.runReconcile); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", e.cfg.ReconcileSchedule, err)
	}
	if _, err := c.AddFunc(e.cfg.BalanceSchedule, e.runBalanceSample); err != nil {
		return nil, fmt.Errorf("invalid balance schedule %q: %w", e.cfg.BalanceSchedule, err)
	}
	return c, nil
}

// Start records the startup balance and schedules the periodic jobs
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("engine already started")
	}

	e.logger.Info("Starting relayer engine",
		zap.String("reconcile_schedule", e.cfg.ReconcileSchedule),
		zap.String("balance_schedule", e.cfg.BalanceSchedule))

	scheduler, err := e.newScheduler()
	if err != nil {
		return err
	}

	e.cron = scheduler
	e.ctx, e.cancel = context.WithCancel(ctx)

	startupCtx, cancel := e.jobContext()
	e.sampler.Sample(startupCtx, "startup")
	cancel()

	e.cron.Start()
	e.started = true

	e.logger.Info("Relayer engine started")
	return nil
}

// Stop cancels running jobs and waits for them to return
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return
	}

	e.logger.Info("Stopping relayer engine")
	e.cancel()
	<-e.cron.Stop().Done()
	e.cron = nil
	e.started = false
	e.logger.Info("Relayer engine stopped")
}

// IsReady reports whether the background jobs are scheduled
func (e *Engine) IsReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.started
}

func (e *Engine) jobContext() (context.Context, context.CancelFunc) {
	timeout := e.cfg.JobTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return context.WithTimeout(e.ctx, timeout)
}

func (e *Engine) runReconcile() {
	ctx, cancel := e.jobContext()
	defer cancel()

	changes, err := e.reconciler.Reconcile(ctx)
	if err != nil {
		e.logger.Error("Reconciliation failed", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("engine", "reconcile").Inc()
	} else if len(changes) > 0 {
		e.logger.Debug("Reconciliation finished", zap.Int("changes", len(changes)))
	}

	if _, err := e.reconciler.ReportStalled(ctx); err != nil {
		e.logger.Error("Stalled submission check failed", zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("engine", "stalled").Inc()
	}
}

func (e *Engine) runBalanceSample() {
	ctx, cancel := e.jobContext()
	defer cancel()

	e.sampler.Sample(ctx, "scheduled")
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
