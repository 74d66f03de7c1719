package combat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"github.com/kasuganosora/campaign-table/store"
	"go.uber.org/zap"
)

const (
	spawnLockPrefix   = "spawn:lock:"
	spawnLockRetry    = 50 * time.Millisecond
	defaultMaxSpawn   = 20
	defaultSpawnLease = 10 * time.Second
)

// SpawnerConfig wires a Spawner.
type SpawnerConfig struct {
	Monsters    store.MonsterStore
	Table       *Table
	Cache       cache.Cache
	Hooks       *hook.HookCenter
	Logger      *zap.Logger
	MaxQuantity int
	LockTTL     time.Duration
}

// Spawner clones bestiary templates into numbered combat instances.
type Spawner struct {
	monsters    store.MonsterStore
	table       *Table
	cache       cache.Cache
	hooks       *hook.HookCenter
	logger      *zap.Logger
	maxQuantity int
	lockTTL     time.Duration
}

func NewSpawner(cfg SpawnerConfig) (*Spawner, error) {
	if cfg.Monsters == nil || cfg.Cache == nil {
		return nil, apperr.InvalidArgument("spawner: monster store and cache are required")
	}
	if cfg.Hooks == nil {
		cfg.Hooks = hook.NewHookCenter()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.MaxQuantity <= 0 {
		cfg.MaxQuantity = defaultMaxSpawn
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultSpawnLease
	}
	return &Spawner{
		monsters:    cfg.Monsters,
		table:       cfg.Table,
		cache:       cfg.Cache,
		hooks:       cfg.Hooks,
		logger:      cfg.Logger,
		maxQuantity: cfg.MaxQuantity,
		lockTTL:     cfg.LockTTL,
	}, nil
}

// SpawnRequest is the payload of the BeforeInstanceSpawn hook.
type SpawnRequest struct {
	TemplateID string `json:"template_id"`
	Quantity   int    `json:"quantity"`
}

// SpawnInstances creates quantity instances of a template, one after the
// other. The first failure stops the batch; instances already created are
// returned with the error and stay in the store.
func (s *Spawner) SpawnInstances(ctx context.Context, templateID string, quantity int) ([]model.Monster, error) {
	if quantity < 1 || quantity > s.maxQuantity {
		return nil, apperr.InvalidArgumentf("quantity must be between 1 and %d", s.maxQuantity)
	}
	if templateID == "" {
		return nil, apperr.InvalidArgument("template id is required")
	}
	if _, err := s.hooks.Trigger(ctx, hook.BeforeInstanceSpawn, SpawnRequest{TemplateID: templateID, Quantity: quantity}); errors.Is(err, hook.ErrInterrupt) {
		return nil, apperr.FailedPrecondition("instance spawn refused")
	}

	lease, err := s.lock(ctx, templateID)
	if err != nil {
		return nil, err
	}
	defer lease.release(ctx)

	created := make([]model.Monster, 0, quantity)
	for i := 0; i < quantity; i++ {
		if i > 0 {
			if err := lease.refresh(ctx); err != nil {
				s.logger.Warn("spawn batch stopped early",
					zap.String("template_id", templateID),
					zap.Int("created", len(created)), zap.Int("requested", quantity), zap.Error(err))
				return created, err
			}
		}
		inst, err := s.monsters.SpawnInstance(ctx, templateID)
		if err != nil {
			if len(created) > 0 {
				s.logger.Warn("spawn batch stopped early",
					zap.String("template_id", templateID),
					zap.Int("created", len(created)), zap.Int("requested", quantity), zap.Error(err))
			}
			return created, err
		}
		created = append(created, *inst)
		if s.table != nil {
			s.table.Admit(ctx, MonsterEntity(inst))
		}
	}
	s.logger.Info("instances spawned",
		zap.String("template_id", templateID), zap.Int("count", len(created)))
	return created, nil
}

// spawnLease is a held spawn lock.
type spawnLease struct {
	s     *Spawner
	key   string
	token string
}

// lock takes the per-template spawn lock, waiting while another batch holds
// it. Numbering depends on counting existing instances, so two batches of the
// same template must not interleave.
func (s *Spawner) lock(ctx context.Context, templateID string) (*spawnLease, error) {
	l := &spawnLease{s: s, key: spawnLockPrefix + templateID, token: uuid.NewString()}

	waitCtx, cancel := context.WithTimeout(ctx, s.lockTTL)
	defer cancel()
	ticker := time.NewTicker(spawnLockRetry)
	defer ticker.Stop()
	for {
		ok, err := s.cache.SetNX(waitCtx, l.key, l.token, s.lockTTL)
		if err != nil {
			return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "acquire spawn lock")
		}
		if ok {
			return l, nil
		}
		select {
		case <-waitCtx.Done():
			return nil, apperr.Unavailable("another spawn of this template is in progress")
		case <-ticker.C:
		}
	}
}

// refresh extends the lease before the next instance is created. A lease
// that expired or changed hands stops the batch.
func (l *spawnLease) refresh(ctx context.Context) error {
	v, err := l.s.cache.Get(ctx, l.key)
	switch {
	case cache.IsNotFound(err) || (err == nil && v != l.token):
		return apperr.Unavailable("spawn lock lost")
	case err != nil:
		return apperr.WrapWithCode(err, apperr.CodeUnavailable, "refresh spawn lock")
	}
	if err := l.s.cache.Expire(ctx, l.key, l.s.lockTTL); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeUnavailable, "refresh spawn lock")
	}
	return nil
}

func (l *spawnLease) release(ctx context.Context) {
	if _, err := l.s.cache.CompareAndDelete(context.WithoutCancel(ctx), l.key, l.token); err != nil {
		l.s.logger.Warn("spawn lock release failed", zap.String("key", l.key), zap.Error(err))
	}
}
