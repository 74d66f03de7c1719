package ws

import (
	"context"
	"encoding/json"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/combat"
)

// Table is the part of the combat table the WS commands drive.
type Table interface {
	Load(ctx context.Context) (combat.Snapshot, error)
	StartCombat(ctx context.Context) combat.Snapshot
	StopCombat(ctx context.Context, confirmed bool) error
	Snapshot() combat.Snapshot
	AddToCombat(ctx context.Context, kind combat.Kind, id string) (combat.Combatant, error)
	SetInitiative(ctx context.Context, id, raw string) (combat.Combatant, error)
	AdjustHealth(ctx context.Context, id string, delta int) (combat.Combatant, error)
	RemoveFromCombat(ctx context.Context, id string) error
}

// Reply packet types.
const (
	TablePacket     = "table"
	CombatantPacket = "combatant"
	RemovedPacket   = "removed"
)

func decode(payload json.RawMessage, dst any) error {
	if len(payload) == 0 {
		return apperr.InvalidArgument("payload required")
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeInvalidArgument, "malformed payload")
	}
	return nil
}

type idPayload struct {
	ID string `json:"id"`
}

type initiativePayload struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// raw returns the user input as typed: a JSON string is unquoted, anything
// else is passed as its literal text.
func (p initiativePayload) raw() string {
	var s string
	if err := json.Unmarshal(p.Value, &s); err == nil {
		return s
	}
	return string(p.Value)
}

type healthPayload struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

type addPayload struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type stopPayload struct {
	Confirm bool `json:"confirm"`
}

// RegisterTableCommands wires the table commands onto r.
func RegisterTableCommands(r *Router, t Table) {
	r.On("get_table", func(ctx context.Context, s *Session, _ json.RawMessage) error {
		snap, err := t.Load(ctx)
		if err != nil {
			return err
		}
		s.Reply(TablePacket, snap)
		return nil
	})

	r.On("start_combat", func(ctx context.Context, s *Session, _ json.RawMessage) error {
		s.Reply(TablePacket, t.StartCombat(ctx))
		return nil
	})

	r.On("stop_combat", func(ctx context.Context, s *Session, payload json.RawMessage) error {
		var p stopPayload
		if len(payload) > 0 {
			if err := decode(payload, &p); err != nil {
				return err
			}
		}
		if err := t.StopCombat(ctx, p.Confirm); err != nil {
			return err
		}
		s.Reply(TablePacket, t.Snapshot())
		return nil
	})

	r.On("add_to_combat", func(ctx context.Context, s *Session, payload json.RawMessage) error {
		var p addPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		kind, err := combat.ParseKind(p.Kind)
		if err != nil {
			return err
		}
		c, err := t.AddToCombat(ctx, kind, p.ID)
		if err != nil {
			return err
		}
		s.Reply(CombatantPacket, c)
		return nil
	})

	r.On("set_initiative", func(ctx context.Context, s *Session, payload json.RawMessage) error {
		var p initiativePayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		c, err := t.SetInitiative(ctx, p.ID, p.raw())
		if err != nil {
			return err
		}
		s.Reply(CombatantPacket, c)
		return nil
	})

	r.On("adjust_health", func(ctx context.Context, s *Session, payload json.RawMessage) error {
		var p healthPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		c, err := t.AdjustHealth(ctx, p.ID, p.Delta)
		if err != nil {
			return err
		}
		s.Reply(CombatantPacket, c)
		return nil
	})

	r.On("remove", func(ctx context.Context, s *Session, payload json.RawMessage) error {
		var p idPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		if err := t.RemoveFromCombat(ctx, p.ID); err != nil {
			return err
		}
		s.Reply(RemovedPacket, p)
		return nil
	})

	r.On("ping", func(_ context.Context, s *Session, payload json.RawMessage) error {
		s.Send(&Packet{Type: "pong", Payload: payload})
		return nil
	})
}
