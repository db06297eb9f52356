package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Runner launches one generation pass with the given reference time
type Runner interface {
	Run(ctx context.Context, asOf time.Time) error
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(ctx context.Context, asOf time.Time) error

// Run calls the wrapped function
func (f RunnerFunc) Run(ctx context.Context, asOf time.Time) error {
	return f(ctx, asOf)
}

// DailyTriggerConfig holds configuration for the daily trigger
type DailyTriggerConfig struct {
	// RunHour and RunMinute define the daily slot (24h clock) in Timezone
	RunHour   int
	RunMinute int
	Timezone  string

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultDailyTriggerConfig returns default daily trigger configuration
func DefaultDailyTriggerConfig() DailyTriggerConfig {
	return DailyTriggerConfig{
		RunHour:       2, // 2am
		RunMinute:     0,
		Timezone:      "UTC",
		CheckInterval: time.Minute,
	}
}

// DailyTrigger fires the recurring generation run once per calendar day at
// the configured slot. A check that lands after the slot (a delayed tick,
// or a process that was down at run time) still fires for that day; only
// one run per date is ever launched.
type DailyTrigger struct {
	config   DailyTriggerConfig
	runner   Runner
	clock    Clock
	location *time.Location
	logger   *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string // Track which date we last ran for
}

// NewDailyTrigger creates a new daily trigger. The timezone must have been
// validated upstream; an unknown zone falls back to UTC.
func NewDailyTrigger(
	config DailyTriggerConfig,
	runner Runner,
	clock Clock,
	logger *zap.Logger,
) *DailyTrigger {
	if clock == nil {
		clock = SystemClock{}
	}
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		logger.Warn("unknown trigger timezone, falling back to UTC",
			zap.String("timezone", config.Timezone),
			zap.Error(err),
		)
		location = time.UTC
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &DailyTrigger{
		config:   config,
		runner:   runner,
		clock:    clock,
		location: location,
		logger:   logger,
	}
}

// Start starts the daily trigger
func (t *DailyTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Daily trigger started",
		zap.Int("run_hour", t.config.RunHour),
		zap.Int("run_minute", t.config.RunMinute),
		zap.String("timezone", t.location.String()),
		zap.Duration("check_interval", t.config.CheckInterval),
	)

	return nil
}

// Stop stops the daily trigger and waits for an in-flight run to finish
func (t *DailyTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Daily trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether the daily slot has been reached
func (t *DailyTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.CheckInterval)
	defer ticker.Stop()

	// Evaluate once at startup so a process restarted after the slot
	// still runs for today.
	t.checkAndTrigger(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.checkAndTrigger(ctx)
		}
	}
}

// checkAndTrigger fires the run when today's slot has passed and no run
// was launched for today yet. The run goes on its own goroutine so a slow
// pass never delays the next tick; Stop still waits for it.
func (t *DailyTrigger) checkAndTrigger(ctx context.Context) {
	now := t.clock.Now().In(t.location)
	currentDate := now.Format("2006-01-02")

	t.mu.Lock()
	alreadyRan := t.lastRunDate == currentDate
	t.mu.Unlock()
	if alreadyRan {
		return
	}

	slot := time.Date(now.Year(), now.Month(), now.Day(),
		t.config.RunHour, t.config.RunMinute, 0, 0, t.location)
	if now.Before(slot) {
		return
	}

	t.mu.Lock()
	// Re-check under the lock; a concurrent tick may have won
	if t.lastRunDate == currentDate {
		t.mu.Unlock()
		return
	}
	t.lastRunDate = currentDate
	t.mu.Unlock()

	t.logger.Info("Triggering recurring expense generation",
		zap.String("run_date", currentDate),
		zap.Time("as_of", now),
	)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.runner.Run(ctx, now); err != nil {
			t.logger.Error("Scheduled generation run failed", zap.Error(err))
		}
	}()
}
