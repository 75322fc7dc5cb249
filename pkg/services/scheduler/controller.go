package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/report-relay/pkg/adapters"
	"github.com/de-tools/report-relay/pkg/models/domain"
	"github.com/de-tools/report-relay/pkg/services/schedule"
	"github.com/de-tools/report-relay/pkg/store/duckdb/configs"
	"github.com/rs/zerolog"
)

// Runner executes one configuration snapshot. Implemented by the execution
// orchestrator.
type Runner interface {
	Execute(ctx context.Context, cfg domain.ReportConfig) domain.ExecutionResult
}

// Status is the control-surface view of the scheduler.
type Status struct {
	Running         bool
	ActiveConfigs   int
	NextExecutionAt *time.Time
	LastExecutionAt *time.Time
}

type planned struct {
	cfg domain.ReportConfig
	at  time.Time
}

// Controller owns the scheduler's running state. Starting recomputes the
// wake target from all active configurations and adopts the earliest next
// execution; stopping only prevents future executions - a run already in
// flight completes.
type Controller struct {
	configs configs.Store
	runner  Runner

	mu          sync.Mutex
	running     bool
	cancel      context.CancelFunc
	done        chan struct{}
	wake        chan struct{}
	nextAt      *time.Time
	lastAt      *time.Time
	activeCount int

	now func() time.Time
}

func NewController(configStore configs.Store, runner Runner) *Controller {
	return &Controller{
		configs: configStore,
		runner:  runner,
		wake:    make(chan struct{}, 1),
		now:     time.Now,
	}
}

func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return fmt.Errorf("scheduler already running")
	}

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(loopCtx)
	return nil
}

func (c *Controller) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return fmt.Errorf("scheduler not running")
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done

	c.mu.Lock()
	c.running = false
	c.nextAt = nil
	c.mu.Unlock()
	return nil
}

// Refresh recomputes the wake target after configuration edits.
func (c *Controller) Refresh() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Running:         c.running,
		ActiveConfigs:   c.activeCount,
		NextExecutionAt: c.nextAt,
		LastExecutionAt: c.lastAt,
	}
}

func (c *Controller) run(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	defer close(c.done)

	for {
		due, next, ok, err := c.plan(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("failed to plan executions")
		}

		c.mu.Lock()
		if ok {
			at := next
			c.nextAt = &at
		} else {
			c.nextAt = nil
		}
		c.mu.Unlock()

		if !ok {
			// Nothing schedulable; wait for a refresh.
			select {
			case <-ctx.Done():
				return
			case <-c.wake:
				continue
			}
		}

		logger.Info().Time("next", next).Int("due", len(due)).Msg("scheduler armed")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-c.wake:
			timer.Stop()
			continue
		case <-timer.C:
		}

		// In-flight executions run to completion even if the scheduler is
		// stopped meanwhile.
		runCtx := context.WithoutCancel(ctx)
		for _, p := range due {
			c.runner.Execute(runCtx, p.cfg)
		}

		now := c.now()
		c.mu.Lock()
		c.lastAt = &now
		c.mu.Unlock()
	}
}

// plan snapshots active configurations and computes the earliest next
// execution. due holds the configurations firing at that instant.
func (c *Controller) plan(ctx context.Context) (due []planned, next time.Time, ok bool, err error) {
	rows, err := c.configs.ListActive(ctx)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("list active configs: %w", err)
	}

	now := c.now()
	var all []planned
	for _, row := range rows {
		cfg := adapters.MapStoreConfigToDomain(row)
		at, err := schedule.Next(cfg.Rule, now)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("config", cfg.ID).Msg("config has no schedulable rule")
			continue
		}
		all = append(all, planned{cfg: cfg, at: at})
	}

	c.mu.Lock()
	c.activeCount = len(rows)
	c.mu.Unlock()

	if len(all) == 0 {
		return nil, time.Time{}, false, nil
	}

	next = all[0].at
	for _, p := range all[1:] {
		if p.at.Before(next) {
			next = p.at
		}
	}
	for _, p := range all {
		if p.at.Equal(next) {
			due = append(due, p)
		}
	}
	return due, next, true, nil
}
