package combat

import (
	"context"
	"sync"
	"time"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"github.com/kasuganosora/campaign-table/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the table as served to clients.
type Snapshot struct {
	Combatants    []Combatant `json:"combatants"`
	Timeline      []Combatant `json:"timeline"`
	CombatStarted bool        `json:"combat_started"`
}

// TableConfig wires a Table.
type TableConfig struct {
	Characters   store.CharacterStore
	Monsters     store.MonsterStore
	Npcs         store.NpcStore
	Pending      *PendingQueue
	Hooks        *hook.HookCenter
	Logger       *zap.Logger
	StoreTimeout time.Duration
}

// Validate fills optional fields and rejects a config missing a store.
func (cfg *TableConfig) Validate() error {
	if cfg.Characters == nil || cfg.Monsters == nil || cfg.Npcs == nil {
		return apperr.InvalidArgument("table: characters, monsters and npcs stores are required")
	}
	if cfg.Pending == nil {
		return apperr.InvalidArgument("table: pending queue is required")
	}
	if cfg.Hooks == nil {
		cfg.Hooks = hook.NewHookCenter()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = 5 * time.Second
	}
	return nil
}

// Table is the server-side combat table shared by every game master client.
// The in-memory combatant list is authoritative between loads; mu is never
// held across store I/O.
type Table struct {
	characters   store.CharacterStore
	monsters     store.MonsterStore
	npcs         store.NpcStore
	pending      *PendingQueue
	hooks        *hook.HookCenter
	logger       *zap.Logger
	storeTimeout time.Duration
	session      *Session

	flushMu sync.Mutex

	mu         sync.Mutex
	combatants []Combatant
	loaded     bool

	// gen counts local mutations. touched maps a combatant id to the
	// generation of its latest mutation and writing counts its unsettled
	// store writes, so a Load overlapping either keeps the local value.
	// loads holds the starting generations of in-flight loads.
	gen     uint64
	touched map[string]uint64
	writing map[string]int
	loads   map[uint64]int
}

func NewTable(cfg TableConfig) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Table{
		characters:   cfg.Characters,
		monsters:     cfg.Monsters,
		npcs:         cfg.Npcs,
		pending:      cfg.Pending,
		hooks:        cfg.Hooks,
		logger:       cfg.Logger,
		storeTimeout: cfg.StoreTimeout,
		session:      NewSession(cfg.Logger),
		touched:      make(map[string]uint64),
		writing:      make(map[string]int),
		loads:        make(map[uint64]int),
	}, nil
}

// Load rebuilds the table from the store: queued writes are replayed first,
// then the three collections are read in parallel. Any read failure fails
// the whole load and leaves the previous table in place. Combatants mutated
// locally while the reads were in flight keep their local state.
func (t *Table) Load(ctx context.Context) (Snapshot, error) {
	if _, err := t.FlushPending(ctx); err != nil {
		t.logger.Warn("pending flush before load failed", zap.Error(err))
	}

	t.mu.Lock()
	since := t.gen
	t.loads[since]++
	t.mu.Unlock()
	defer t.endLoad(since)

	var (
		chars    []model.Character
		monsters []model.Monster
		npcs     []model.Npc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		chars, err = t.characters.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		monsters, err = t.monsters.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		npcs, err = t.npcs.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, apperr.WrapWithCode(err, apperr.CodeUnavailable, "load combat table")
	}

	combatants := NormalizeAll(ActiveEntities(chars, monsters, npcs))

	t.mu.Lock()
	if t.gen != since || len(t.writing) > 0 {
		combatants = t.mergeLocked(combatants, since)
	}
	started := CombatStarted(combatants)
	t.combatants = combatants
	t.loaded = true
	t.mu.Unlock()

	if started {
		t.session.Start(ctx)
	}
	return t.Snapshot(), nil
}

// mergeLocked overlays the local state of every combatant mutated after
// generation since, or with a write still in flight, onto a freshly read list. A mutated combatant missing
// locally was removed and is dropped; one missing from the read was added
// and is appended.
func (t *Table) mergeLocked(read []Combatant, since uint64) []Combatant {
	merged := make([]Combatant, 0, len(read))
	seen := make(map[string]bool)
	for _, c := range read {
		if !t.localWinsLocked(c.ID, since) {
			merged = append(merged, c)
			continue
		}
		seen[c.ID] = true
		if i := t.indexLocked(c.ID); i >= 0 {
			merged = append(merged, t.combatants[i])
		}
	}
	for _, c := range t.combatants {
		if t.localWinsLocked(c.ID, since) && !seen[c.ID] {
			merged = append(merged, c)
		}
	}
	return merged
}

func (t *Table) localWinsLocked(id string, since uint64) bool {
	return t.touched[id] > since || t.writing[id] > 0
}

// touchLocked records a local mutation of id.
func (t *Table) touchLocked(id string) {
	t.gen++
	t.touched[id] = t.gen
}

// beginWriteLocked records a local mutation of id that persist will write.
func (t *Table) beginWriteLocked(id string) {
	t.touchLocked(id)
	t.writing[id]++
}

func (t *Table) endWrite(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writing[id]--; t.writing[id] <= 0 {
		delete(t.writing, id)
	}
	t.touchLocked(id)
}

// endLoad unregisters a finished load and forgets mutations no in-flight
// load can still overlap.
func (t *Table) endLoad(since uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loads[since]--; t.loads[since] <= 0 {
		delete(t.loads, since)
	}
	oldest := t.gen
	for g := range t.loads {
		oldest = min(oldest, g)
	}
	for id, g := range t.touched {
		if g <= oldest {
			delete(t.touched, id)
		}
	}
}

// Snapshot returns the current table without touching the store.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() Snapshot {
	cs := make([]Combatant, len(t.combatants))
	copy(cs, t.combatants)
	return Snapshot{
		Combatants:    cs,
		Timeline:      Timeline(cs),
		CombatStarted: t.session.Started(),
	}
}

// Len is the number of combatants currently at the table.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.combatants)
}

// PendingLen is the number of writes waiting for replay.
func (t *Table) PendingLen(ctx context.Context) (int, error) {
	return t.pending.Len(ctx)
}

// Invalidate forces the next access to reload from the store. Called after
// documents change outside the table (roster edits, deletions).
func (t *Table) Invalidate() {
	t.mu.Lock()
	t.loaded = false
	t.mu.Unlock()
}

func (t *Table) ensureLoaded(ctx context.Context) error {
	t.mu.Lock()
	loaded := t.loaded
	t.mu.Unlock()
	if loaded {
		return nil
	}
	_, err := t.Load(ctx)
	return err
}

func (t *Table) indexLocked(id string) int {
	for i := range t.combatants {
		if t.combatants[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Table) emit(ctx context.Context, name string, ev Event) {
	ev.Type = name
	ev.At = time.Now()
	ev.CombatStarted = t.session.Started()
	_, _ = t.hooks.Trigger(ctx, name, ev)
}

// FlushResult reports one replay pass over the pending queue.
type FlushResult struct {
	Flushed   int `json:"flushed"`
	Dropped   int `json:"dropped"`
	Remaining int `json:"remaining"`
}

// FlushPending replays queued writes. Writes whose document is gone, or
// that the store rejects as invalid, are dropped; others are retried until
// the attempt limit.
func (t *Table) FlushPending(ctx context.Context) (FlushResult, error) {
	t.flushMu.Lock()
	defer t.flushMu.Unlock()

	var res FlushResult
	writes, err := t.pending.List(ctx)
	if err != nil {
		return res, apperr.WrapWithCode(err, apperr.CodeUnavailable, "list pending writes")
	}
	for _, w := range writes {
		err := t.apply(ctx, w.Kind, w.ID, w.Op, w.Fields)
		switch {
		case err == nil:
			res.Flushed++
			_ = t.pending.Resolve(ctx, w)
		case apperr.IsNotFound(err) || apperr.IsInvalidArgument(err):
			res.Dropped++
			t.logger.Warn("pending write discarded",
				zap.String("combatant_id", w.ID), zap.String("kind", string(w.Kind)),
				zap.String("op", w.Op), zap.Error(err))
			_ = t.pending.Resolve(ctx, w)
		default:
			dropped, ferr := t.pending.Fail(ctx, w, err)
			if ferr != nil {
				t.logger.Warn("pending write bookkeeping failed", zap.Error(ferr))
			}
			if dropped {
				res.Dropped++
				t.logger.Error("pending write abandoned after max attempts",
					zap.String("combatant_id", w.ID), zap.String("kind", string(w.Kind)),
					zap.String("op", w.Op), zap.Error(err))
			}
		}
	}
	if n, err := t.pending.Len(ctx); err == nil {
		res.Remaining = n
	}
	if len(writes) > 0 {
		t.logger.Info("pending writes replayed",
			zap.Int("flushed", res.Flushed), zap.Int("dropped", res.Dropped), zap.Int("remaining", res.Remaining))
	}
	return res, nil
}

// apply runs one write against the collection owning kind.
func (t *Table) apply(ctx context.Context, kind Kind, id, op string, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, t.storeTimeout)
	defer cancel()

	var err error
	switch kind {
	case KindCharacter:
		if op == OpDelete {
			return t.characters.Delete(ctx, id)
		}
		_, err = t.characters.Update(ctx, id, fields)
	case KindMonster:
		if op == OpDelete {
			return t.monsters.Delete(ctx, id)
		}
		_, err = t.monsters.Update(ctx, id, fields)
	case KindNpc:
		if op == OpDelete {
			return t.npcs.Delete(ctx, id)
		}
		_, err = t.npcs.Update(ctx, id, fields)
	default:
		err = apperr.InvalidArgumentf("unknown combatant kind %q", kind)
	}
	return err
}

// persist writes through to the store without failing the caller. The write
// survives cancellation of ctx; a transient failure is queued for replay.
// Callers mark the write with beginWriteLocked; it settles here.
func (t *Table) persist(ctx context.Context, kind Kind, id, op string, fields map[string]any) {
	defer t.endWrite(id)
	ctx = context.WithoutCancel(ctx)
	err := t.apply(ctx, kind, id, op, fields)
	if err == nil {
		if ferr := t.pending.Forget(ctx, kind, id, op, fields); ferr != nil {
			t.logger.Warn("pending queue cleanup failed", zap.String("combatant_id", id), zap.Error(ferr))
		}
		return
	}

	fieldsLog := zap.Any("fields", fields)
	switch {
	case apperr.IsNotFound(err):
		t.logger.Warn("combatant document missing, write dropped",
			zap.String("combatant_id", id), zap.String("kind", string(kind)), zap.String("op", op), zap.Error(err))
		return
	case apperr.IsInvalidArgument(err):
		t.logger.Error("combatant write rejected",
			zap.String("combatant_id", id), zap.String("kind", string(kind)), zap.String("op", op), fieldsLog, zap.Error(err))
		return
	}

	t.logger.Warn("combatant write failed, queued for retry",
		zap.String("combatant_id", id), zap.String("kind", string(kind)), zap.String("op", op), fieldsLog, zap.Error(err))
	qerr := t.pending.Enqueue(ctx, PendingWrite{Kind: kind, ID: id, Op: op, Fields: fields, LastError: err.Error()})
	if qerr != nil {
		t.logger.Error("pending queue unavailable, write lost",
			zap.String("combatant_id", id), zap.String("kind", string(kind)), zap.String("op", op), zap.Error(qerr))
	}
}
