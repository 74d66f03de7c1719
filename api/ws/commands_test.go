package ws

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kasuganosora/campaign-table/combat"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/store"
	"github.com/kasuganosora/campaign-table/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CommandSuite struct {
	suite.Suite
	ctx    context.Context
	store  *store.Store
	table  *combat.Table
	router *Router
	sess   *Session
	seq    uint64
}

func (s *CommandSuite) SetupTest() {
	s.ctx = context.Background()
	s.store, _ = testutil.SetupTestStore(s.T())
	c, _ := testutil.SetupTestCache(s.T())
	var err error
	s.table, err = combat.NewTable(combat.TableConfig{
		Characters: s.store.Characters,
		Monsters:   s.store.Monsters,
		Npcs:       s.store.Npcs,
		Pending:    combat.NewPendingQueue(c, 3, nil),
		Logger:     nop(),
	})
	s.Require().NoError(err)
	s.router = NewRouter(nop())
	RegisterTableCommands(s.router, s.table)
	s.sess = newSession(1)
	s.seq = 0
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) send(typ string, payload any) Packet {
	s.seq++
	s.router.Dispatch(s.sess, makePacket(s.T(), s.seq, typ, payload))
	return next(s.T(), s.sess)
}

func (s *CommandSuite) character(nom string, hp, hpMax int) *model.Character {
	ch := model.NewCharacter()
	ch.Nom, ch.Classe, ch.EstActif = nom, "Guerrier", true
	ch.Stats.PvActuel, ch.Stats.PvMax = hp, hpMax
	s.Require().NoError(s.store.Characters.Create(s.ctx, ch))
	return ch
}

func decodePayload[T any](t *testing.T, pkt Packet) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(pkt.Payload, &out))
	return out
}

func (s *CommandSuite) TestGetTable() {
	hero := s.character("Thorin", 10, 10)
	pkt := s.send("get_table", nil)
	s.Require().Equal(TablePacket, pkt.Type)
	snap := decodePayload[combat.Snapshot](s.T(), pkt)
	s.Require().Len(snap.Combatants, 1)
	s.Equal(hero.ID, snap.Combatants[0].ID)
}

func (s *CommandSuite) TestSetInitiative_StringOrNumber() {
	hero := s.character("Thorin", 10, 10)

	pkt := s.send("set_initiative", map[string]any{"id": hero.ID, "value": "17abc"})
	s.Require().Equal(CombatantPacket, pkt.Type)
	s.Equal(17, decodePayload[combat.Combatant](s.T(), pkt).Initiative)

	pkt = s.send("set_initiative", map[string]any{"id": hero.ID, "value": 4})
	s.Equal(4, decodePayload[combat.Combatant](s.T(), pkt).Initiative)

	pkt = s.send("set_initiative", map[string]any{"id": hero.ID, "value": ""})
	s.Equal(0, decodePayload[combat.Combatant](s.T(), pkt).Initiative)
}

func (s *CommandSuite) TestAdjustHealth_Clamped() {
	hero := s.character("Thorin", 3, 20)
	pkt := s.send("adjust_health", map[string]any{"id": hero.ID, "delta": -10})
	s.Equal(0, decodePayload[combat.Combatant](s.T(), pkt).HPCurrent)
	pkt = s.send("adjust_health", map[string]any{"id": hero.ID, "delta": 50})
	s.Equal(20, decodePayload[combat.Combatant](s.T(), pkt).HPCurrent)

	stored, err := s.store.Characters.Get(s.ctx, hero.ID)
	s.Require().NoError(err)
	s.Equal(20, stored.Stats.PvActuel)
}

func (s *CommandSuite) TestRemove() {
	hero := s.character("Thorin", 10, 10)
	pkt := s.send("remove", map[string]any{"id": hero.ID})
	s.Require().Equal(RemovedPacket, pkt.Type)
	s.Equal(hero.ID, decodePayload[idPayload](s.T(), pkt).ID)

	pkt = s.send("remove", map[string]any{"id": hero.ID})
	s.Require().Equal("error", pkt.Type)
	s.Contains(decodePayload[errorPayload](s.T(), pkt).Error, "not at the table")
}

func (s *CommandSuite) TestStartStop() {
	hero := s.character("Thorin", 10, 10)
	s.send("set_initiative", map[string]any{"id": hero.ID, "value": "12"})

	pkt := s.send("start_combat", nil)
	s.True(decodePayload[combat.Snapshot](s.T(), pkt).CombatStarted)

	pkt = s.send("stop_combat", nil)
	s.Require().Equal("error", pkt.Type)
	s.Equal("confirmation required to stop the combat", decodePayload[errorPayload](s.T(), pkt).Error)

	pkt = s.send("stop_combat", map[string]any{"confirm": true})
	s.Require().Equal(TablePacket, pkt.Type)
	snap := decodePayload[combat.Snapshot](s.T(), pkt)
	s.False(snap.CombatStarted)
	s.Zero(snap.Combatants[0].Initiative)
}

func (s *CommandSuite) TestAddToCombat() {
	npc := model.NewNpc()
	npc.Nom, npc.Pv, npc.PvMax = "Sildar", 8, 8
	s.Require().NoError(s.store.Npcs.Create(s.ctx, npc))

	pkt := s.send("add_to_combat", map[string]any{"kind": "npc", "id": npc.ID})
	s.Require().Equal(CombatantPacket, pkt.Type)
	s.Equal("Sildar", decodePayload[combat.Combatant](s.T(), pkt).Name)

	pkt = s.send("add_to_combat", map[string]any{"kind": "dragon", "id": npc.ID})
	s.Equal("error", pkt.Type)
}

func (s *CommandSuite) TestMalformedPayloads() {
	pkt := s.send("adjust_health", nil)
	s.Equal("payload required", decodePayload[errorPayload](s.T(), pkt).Error)
	pkt = s.send("adjust_health", map[string]any{"id": "x", "delta": "lots"})
	s.Equal("malformed payload", decodePayload[errorPayload](s.T(), pkt).Error)
}

func TestPing(t *testing.T) {
	r := NewRouter(nop())
	RegisterTableCommands(r, nil)
	s := newSession(1)
	r.Dispatch(s, makePacket(t, 1, "ping", map[string]int{"n": 1}))
	pkt := next(t, s)
	assert.Equal(t, "pong", pkt.Type)
	assert.JSONEq(t, `{"n":1}`, string(pkt.Payload))
}
