package combat

import (
	"context"

	"github.com/looplab/fsm"
	"go.uber.org/zap"
)

const (
	stateIdle    = "idle"
	stateStarted = "started"

	eventStart = "start"
	eventStop  = "stop"
)

// Session tracks whether a combat is running.
type Session struct {
	machine *fsm.FSM
}

func NewSession(logger *zap.Logger) *Session {
	return &Session{
		machine: fsm.NewFSM(
			stateIdle,
			fsm.Events{
				{Name: eventStart, Src: []string{stateIdle}, Dst: stateStarted},
				{Name: eventStop, Src: []string{stateStarted}, Dst: stateIdle},
			},
			fsm.Callbacks{
				"enter_state": func(_ context.Context, e *fsm.Event) {
					logger.Info("combat session changed", zap.String("from", e.Src), zap.String("to", e.Dst))
				},
			},
		),
	}
}

func (s *Session) Started() bool { return s.machine.Is(stateStarted) }

// Start reports whether the call moved the session from idle to started.
func (s *Session) Start(ctx context.Context) bool { return s.fire(ctx, eventStart) }

// Stop reports whether the call moved the session from started to idle.
func (s *Session) Stop(ctx context.Context) bool { return s.fire(ctx, eventStop) }

func (s *Session) fire(ctx context.Context, event string) bool {
	// The only possible error is firing from the wrong state, which callers
	// treat as "already there".
	return s.machine.Event(ctx, event) == nil
}
