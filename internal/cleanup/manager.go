package cleanup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Remover deletes everything stored for a user.
type Remover interface {
	DeleteAll(ctx context.Context, userID string) error
}

// Manager removes stored avatars of deactivated accounts in the background.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown()
	Enqueue(userID string)
}

type Config struct {
	MaxConcurrent int
	Timeout       time.Duration
	Logger        *logrus.Logger
}

type manager struct {
	cfg     Config
	remover Remover

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	active map[string]struct{}
}

func NewManager(cfg Config, remover Remover) Manager {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &manager{
		cfg:     cfg,
		remover: remover,
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		active:  make(map[string]struct{}),
	}
}

func (m *manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx != nil {
		return fmt.Errorf("cleanup manager already started")
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.cfg.Logger.Infof("avatar cleanup started, %d workers", m.cfg.MaxConcurrent)
	return nil
}

// Shutdown cancels queued and running jobs and waits for their goroutines.
func (m *manager) Shutdown() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Unlock()
	m.wg.Wait()
	m.cfg.Logger.Info("avatar cleanup stopped")
}

// Enqueue schedules removal for userID. A user already queued is not queued
// twice; jobs enqueued before Start or after Shutdown are dropped.
func (m *manager) Enqueue(userID string) {
	logger := m.cfg.Logger.WithField("user_id", userID)

	m.mu.Lock()
	if m.ctx == nil || m.ctx.Err() != nil {
		m.mu.Unlock()
		logger.Warn("avatar cleanup not running, dropping job")
		return
	}
	if _, queued := m.active[userID]; queued {
		m.mu.Unlock()
		return
	}
	m.active[userID] = struct{}{}
	ctx := m.ctx
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		defer m.unregister(userID)

		select {
		case <-ctx.Done():
			logger.Warn("avatar cleanup cancelled before start")
			return
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
			m.run(ctx, logger, userID)
		}
	}()
}

func (m *manager) run(ctx context.Context, logger *logrus.Entry, userID string) {
	jobCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	start := time.Now()
	if err := m.remover.DeleteAll(jobCtx, userID); err != nil {
		logger.WithError(err).Error("delete avatars")
		return
	}
	logger.WithField("elapsed", time.Since(start).String()).Info("avatars deleted")
}

func (m *manager) unregister(userID string) {
	m.mu.Lock()
	delete(m.active, userID)
	m.mu.Unlock()
}

var _ Manager = (*manager)(nil)
