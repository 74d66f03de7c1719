package audit

import (
	"context"
	"testing"

	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"github.com/kasuganosora/campaign-table/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLog_EnqueuedAndFlushedOnStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	accountID := int64(2)
	svc.Log(Entry{
		Actor:   Actor{TraceID: "trace-123", AccountID: &accountID, IP: "127.0.0.1"},
		Action:  "table.stop",
		Payload: map[string]bool{"confirm": true},
	})
	svc.Stop(context.Background())

	var logs []model.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "trace-123", logs[0].TraceID)
	assert.Equal(t, "table.stop", logs[0].Action)
	assert.Equal(t, "127.0.0.1", logs[0].IP)
	require.NotNil(t, logs[0].AccountID)
	assert.Equal(t, int64(2), *logs[0].AccountID)
	assert.JSONEq(t, `{"confirm":true}`, string(logs[0].Payload))
}

func TestLog_ManyEntriesAcrossBatches(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	for i := 0; i < batchSize+5; i++ {
		svc.Log(Entry{Action: "on_health_change"})
	}
	svc.Stop(context.Background())

	var n int64
	require.NoError(t, db.Model(&model.AuditLog{}).Count(&n).Error)
	assert.Equal(t, int64(batchSize+5), n)
}

func TestLog_NilServiceIsNoop(t *testing.T) {
	var svc *Service
	assert.NotPanics(t, func() { svc.Log(Entry{Action: "x"}) })
}

func TestHook_UsesActorFromContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	hc := hook.NewHookCenter()
	hc.RegisterAll(hook.TableEvents, 100, "audit", svc.Hook())

	ctx := WithActor(context.Background(), Actor{TraceID: "t-1", IP: "10.0.0.1"})
	out, err := hc.Trigger(ctx, hook.OnCombatStart, map[string]any{"combat_started": true})
	require.NoError(t, err)
	assert.NotNil(t, out)
	svc.Stop(context.Background())

	var logs []model.AuditLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, hook.OnCombatStart, logs[0].Action)
	assert.Equal(t, "t-1", logs[0].TraceID)
	assert.Nil(t, logs[0].AccountID)
}

func TestStop_Idempotent(t *testing.T) {
	svc := New(testutil.SetupTestDB(t), zap.NewNop())
	svc.Stop(context.Background())
	assert.NotPanics(t, func() { svc.Stop(context.Background()) })
}

func TestActorFrom_Empty(t *testing.T) {
	assert.Equal(t, Actor{}, ActorFrom(context.Background()))
}
