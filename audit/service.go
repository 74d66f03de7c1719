package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	queueSize     = 1024
	batchSize     = 100
	flushInterval = 2 * time.Second
)

// Entry holds one audit event to be logged.
type Entry struct {
	Actor
	Action  string
	Payload interface{}
	Error   string
}

// Service logs audit entries asynchronously in batches.
type Service struct {
	db     *gorm.DB
	ch     chan *model.AuditLog
	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		ch:     make(chan *model.AuditLog, queueSize),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Log enqueues an audit entry for async DB write. A nil Service discards it.
func (svc *Service) Log(entry Entry) {
	if svc == nil {
		return
	}
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		payload = []byte("null")
	}
	record := &model.AuditLog{
		TraceID:   entry.TraceID,
		AccountID: entry.AccountID,
		Action:    entry.Action,
		Payload:   datatypes.JSON(payload),
		Error:     entry.Error,
		IP:        entry.IP,
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("audit channel full, dropping entry",
			zap.String("action", entry.Action))
	}
}

// Hook records every event it sees, attributed to the actor carried by ctx.
// Register it on hook.TableEvents.
func (svc *Service) Hook() hook.HookFn {
	return func(ctx context.Context, event string, data interface{}) (interface{}, error) {
		svc.Log(Entry{Actor: ActorFrom(ctx), Action: event, Payload: data})
		return data, nil
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	svc.once.Do(func() { close(svc.stopCh) })
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]*model.AuditLog, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("audit batch write failed", zap.Int("entries", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
