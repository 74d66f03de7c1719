package combat

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/campaign-table/cache"
	"go.uber.org/zap"
)

const pendingKey = "table:pending"

// Write operations replayed by the pending queue.
const (
	OpUpdate = "update"
	OpDelete = "delete"
)

// PendingWrite is a table change the store refused, waiting for replay.
type PendingWrite struct {
	Kind      Kind           `json:"kind"`
	ID        string         `json:"id"`
	Op        string         `json:"op"`
	Fields    map[string]any `json:"fields,omitempty"`
	Attempts  int            `json:"attempts"`
	LastError string         `json:"last_error,omitempty"`
	QueuedAt  time.Time      `json:"queued_at"`
	Version   string         `json:"version"`
}

func pendingField(kind Kind, id, op string) string {
	return string(kind) + ":" + id + ":" + op
}

func (w PendingWrite) field() string { return pendingField(w.Kind, w.ID, w.Op) }

// PendingQueue stores failed writes in a cache hash so they outlive a store
// outage. At most one entry exists per (kind, id, op); newer field values
// overwrite older ones.
type PendingQueue struct {
	mu          sync.Mutex
	cache       cache.Cache
	maxAttempts int
	logger      *zap.Logger
}

func NewPendingQueue(c cache.Cache, maxAttempts int, logger *zap.Logger) *PendingQueue {
	if maxAttempts <= 0 {
		maxAttempts = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PendingQueue{cache: c, maxAttempts: maxAttempts, logger: logger}
}

func (q *PendingQueue) load(ctx context.Context, field string) (*PendingWrite, error) {
	raw, err := q.cache.HGet(ctx, pendingKey, field)
	if cache.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var w PendingWrite
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		q.logger.Warn("corrupt pending write discarded", zap.String("field", field), zap.Error(err))
		return nil, q.cache.HDel(ctx, pendingKey, field)
	}
	return &w, nil
}

func (q *PendingQueue) save(ctx context.Context, w *PendingWrite) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return q.cache.HSet(ctx, pendingKey, w.field(), string(raw))
}

// Enqueue records w, merging its fields into any queued write for the same
// document and operation. A delete discards queued updates of its document.
func (q *PendingQueue) Enqueue(ctx context.Context, w PendingWrite) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w.Op == OpDelete {
		if err := q.cache.HDel(ctx, pendingKey, pendingField(w.Kind, w.ID, OpUpdate)); err != nil {
			return err
		}
	}
	existing, err := q.load(ctx, w.field())
	if err != nil {
		return err
	}
	if existing != nil && len(existing.Fields) > 0 {
		merged := make(map[string]any, len(existing.Fields)+len(w.Fields))
		for k, v := range existing.Fields {
			merged[k] = v
		}
		for k, v := range w.Fields {
			merged[k] = v
		}
		w.Fields = merged
	}
	w.Attempts = 0
	w.QueuedAt = time.Now()
	w.Version = uuid.NewString()
	return q.save(ctx, &w)
}

// Forget removes what a successful write made obsolete: the written fields
// of a queued update, or everything queued for a deleted document.
func (q *PendingQueue) Forget(ctx context.Context, kind Kind, id, op string, fields map[string]any) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if op == OpDelete {
		return q.cache.HDel(ctx, pendingKey,
			pendingField(kind, id, OpUpdate), pendingField(kind, id, OpDelete))
	}
	existing, err := q.load(ctx, pendingField(kind, id, op))
	if err != nil || existing == nil {
		return err
	}
	for k := range fields {
		delete(existing.Fields, k)
	}
	if len(existing.Fields) == 0 {
		return q.cache.HDel(ctx, pendingKey, existing.field())
	}
	return q.save(ctx, existing)
}

// List returns queued writes, oldest first.
func (q *PendingQueue) List(ctx context.Context) ([]PendingWrite, error) {
	all, err := q.cache.HGetAll(ctx, pendingKey)
	if err != nil {
		return nil, err
	}
	out := make([]PendingWrite, 0, len(all))
	for field, raw := range all {
		var w PendingWrite
		if err := json.Unmarshal([]byte(raw), &w); err != nil {
			q.logger.Warn("corrupt pending write skipped", zap.String("field", field), zap.Error(err))
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QueuedAt.Before(out[j].QueuedAt) })
	return out, nil
}

func (q *PendingQueue) Len(ctx context.Context) (int, error) {
	n, err := q.cache.HLen(ctx, pendingKey)
	return int(n), err
}

// Resolve drops w unless a newer write replaced it since it was listed.
func (q *PendingQueue) Resolve(ctx context.Context, w PendingWrite) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	current, err := q.load(ctx, w.field())
	if err != nil || current == nil || current.Version != w.Version {
		return err
	}
	return q.cache.HDel(ctx, pendingKey, w.field())
}

// Fail counts a failed replay of w and reports whether w was dropped for
// exceeding the attempt limit.
func (q *PendingQueue) Fail(ctx context.Context, w PendingWrite, cause error) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	current, err := q.load(ctx, w.field())
	if err != nil || current == nil || current.Version != w.Version {
		return false, err
	}
	current.Attempts++
	current.LastError = cause.Error()
	if current.Attempts >= q.maxAttempts {
		return true, q.cache.HDel(ctx, pendingKey, current.field())
	}
	return false, q.save(ctx, current)
}
