package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks. ctx is cancelled
// when the task is removed or the scheduler stops.
type TaskFn func(ctx context.Context)

// TaskInfo is a snapshot of one ticker task, served by the admin API.
type TaskInfo struct {
	Name         string        `json:"name"`
	Interval     time.Duration `json:"interval"`
	Runs         int64         `json:"runs"`
	Panics       int64         `json:"panics"`
	LastRun      time.Time     `json:"last_run"`
	LastDuration time.Duration `json:"last_duration"`
}

// Scheduler runs named periodic tasks. A task never overlaps with itself.
type Scheduler struct {
	mu      sync.Mutex
	tickers map[string]*tickerEntry
	logger  *zap.Logger
	ctx     context.Context
	stop    context.CancelFunc
}

type tickerEntry struct {
	info   TaskInfo
	cancel context.CancelFunc
}

// New creates a new Scheduler.
func New(logger *zap.Logger) *Scheduler {
	ctx, stop := context.WithCancel(context.Background())
	return &Scheduler{
		tickers: make(map[string]*tickerEntry),
		logger:  logger,
		ctx:     ctx,
		stop:    stop,
	}
}

// AddTicker registers a task to run on a fixed interval.
// If a task with the same name exists, it is replaced.
func (s *Scheduler) AddTicker(name string, interval time.Duration, fn TaskFn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.tickers[name]; ok {
		old.cancel()
		delete(s.tickers, name)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	entry := &tickerEntry{
		info:   TaskInfo{Name: name, Interval: interval},
		cancel: cancel,
	}
	s.tickers[name] = entry

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(ctx, entry, fn)
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("scheduler task registered", zap.String("name", name), zap.Duration("interval", interval))
}

func (s *Scheduler) run(ctx context.Context, entry *tickerEntry, fn TaskFn) {
	start := time.Now()
	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				s.logger.Error("scheduler task panicked",
					zap.String("task", entry.info.Name),
					zap.Any("recover", r))
			}
		}()
		fn(ctx)
	}()

	s.mu.Lock()
	entry.info.Runs++
	if panicked {
		entry.info.Panics++
	}
	entry.info.LastRun = start
	entry.info.LastDuration = time.Since(start)
	s.mu.Unlock()
}

// Remove stops and removes a ticker task by name.
func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.tickers[name]; ok {
		entry.cancel()
		delete(s.tickers, name)
	}
}

// Stop stops all tasks. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stop()
}

// ListTickers returns the registered tasks sorted by name.
func (s *Scheduler) ListTickers() []TaskInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TaskInfo, 0, len(s.tickers))
	for _, e := range s.tickers {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
