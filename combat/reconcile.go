package combat

import (
	"context"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/plugin/hook"
	"golang.org/x/sync/errgroup"
)

// stopWorkers bounds the parallel initiative resets of StopCombat.
const stopWorkers = 8

// SetInitiative parses raw leniently (see ParseInitiative) and stores the
// result on the combatant. Only the initiative field is written.
func (t *Table) SetInitiative(ctx context.Context, id, raw string) (Combatant, error) {
	if err := t.ensureLoaded(ctx); err != nil {
		return Combatant{}, err
	}
	value := ParseInitiative(raw)

	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return Combatant{}, apperr.NotFoundf("combatant %s not at the table", id)
	}
	t.combatants[i].Initiative = value
	t.beginWriteLocked(id)
	c := t.combatants[i]
	t.mu.Unlock()

	t.persist(ctx, c.Kind, c.ID, OpUpdate, map[string]any{"initiative": value})
	t.emit(ctx, hook.OnInitiativeChange, Event{Combatant: &c})
	return c, nil
}

// healthField is the document path holding current hit points for kind.
func healthField(kind Kind) string {
	if kind == KindCharacter {
		return "stats.pv_actuel"
	}
	return "pv"
}

// AdjustHealth adds delta (damage is negative) to the combatant's current hit
// points, clamped to [0, max].
func (t *Table) AdjustHealth(ctx context.Context, id string, delta int) (Combatant, error) {
	if err := t.ensureLoaded(ctx); err != nil {
		return Combatant{}, err
	}

	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return Combatant{}, apperr.NotFoundf("combatant %s not at the table", id)
	}
	c := &t.combatants[i]
	c.HPCurrent = ClampHealth(c.HPCurrent, delta, c.HPMax)
	t.beginWriteLocked(id)
	updated := *c
	t.mu.Unlock()

	t.persist(ctx, updated.Kind, updated.ID, OpUpdate, map[string]any{healthField(updated.Kind): updated.HPCurrent})
	t.emit(ctx, hook.OnHealthChange, Event{Combatant: &updated})
	return updated, nil
}

// RemoveFromCombat takes the combatant off the table. A monster instance is
// deleted for good; characters and NPCs are only marked inactive.
func (t *Table) RemoveFromCombat(ctx context.Context, id string) error {
	if err := t.ensureLoaded(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return apperr.NotFoundf("combatant %s not at the table", id)
	}
	c := t.combatants[i]
	t.combatants = append(t.combatants[:i:i], t.combatants[i+1:]...)
	t.beginWriteLocked(id)
	t.mu.Unlock()

	if c.Kind == KindMonster {
		t.persist(ctx, c.Kind, c.ID, OpDelete, nil)
	} else {
		t.persist(ctx, c.Kind, c.ID, OpUpdate, map[string]any{"est_actif": false})
	}
	t.emit(ctx, hook.OnCombatantRemoved, Event{Combatant: &c, CombatantID: c.ID})
	return nil
}

// StartCombat marks the combat as running. Nothing is persisted.
func (t *Table) StartCombat(ctx context.Context) Snapshot {
	if t.session.Start(ctx) {
		t.emit(ctx, hook.OnCombatStart, Event{})
	}
	return t.Snapshot()
}

// StopCombat ends the combat and resets every initiative to 0. It requires
// an explicit confirmation; partial persistence failures are queued, not
// reported.
func (t *Table) StopCombat(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return apperr.FailedPrecondition("confirmation required to stop the combat")
	}
	if err := t.ensureLoaded(ctx); err != nil {
		return err
	}
	t.session.Stop(ctx)

	t.mu.Lock()
	for i := range t.combatants {
		t.combatants[i].Initiative = 0
		t.beginWriteLocked(t.combatants[i].ID)
	}
	reset := make([]Combatant, len(t.combatants))
	copy(reset, t.combatants)
	t.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(stopWorkers)
	for _, c := range reset {
		g.Go(func() error {
			t.persist(ctx, c.Kind, c.ID, OpUpdate, map[string]any{"initiative": 0})
			return nil
		})
	}
	_ = g.Wait()

	t.emit(ctx, hook.OnCombatStop, Event{})
	return nil
}

// AddToCombat seats an existing character or NPC at the table. Monsters
// join through their template instead. Adding a combatant already seated
// returns it unchanged.
func (t *Table) AddToCombat(ctx context.Context, kind Kind, id string) (Combatant, error) {
	if kind == KindMonster {
		return Combatant{}, apperr.InvalidArgument("monsters join the table by spawning an instance of their template")
	}
	if err := t.ensureLoaded(ctx); err != nil {
		return Combatant{}, err
	}

	t.mu.Lock()
	if i := t.indexLocked(id); i >= 0 {
		c := t.combatants[i]
		t.mu.Unlock()
		return c, nil
	}
	t.mu.Unlock()

	entity, err := t.fetch(ctx, kind, id)
	if err != nil {
		return Combatant{}, err
	}
	c := Normalize(entity)

	t.mu.Lock()
	if i := t.indexLocked(id); i >= 0 {
		c = t.combatants[i]
		t.mu.Unlock()
		return c, nil
	}
	t.combatants = append(t.combatants, c)
	t.beginWriteLocked(id)
	t.mu.Unlock()

	t.persist(ctx, kind, id, OpUpdate, map[string]any{"est_actif": true})
	t.emit(ctx, hook.OnCombatantAdded, Event{Combatant: &c})
	return c, nil
}

func (t *Table) fetch(ctx context.Context, kind Kind, id string) (Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, t.storeTimeout)
	defer cancel()
	switch kind {
	case KindCharacter:
		ch, err := t.characters.Get(ctx, id)
		if err != nil {
			return Entity{}, err
		}
		return CharacterEntity(ch), nil
	case KindNpc:
		n, err := t.npcs.Get(ctx, id)
		if err != nil {
			return Entity{}, err
		}
		return NpcEntity(n), nil
	}
	return Entity{}, apperr.InvalidArgumentf("unknown combatant kind %q", kind)
}

// Admit seats a freshly spawned monster instance. Before the first load the
// instance is left for Load to pick up.
func (t *Table) Admit(ctx context.Context, e Entity) Combatant {
	c := Normalize(e)
	t.mu.Lock()
	if t.loaded && t.indexLocked(c.ID) < 0 {
		t.combatants = append(t.combatants, c)
		t.touchLocked(c.ID)
	}
	t.mu.Unlock()
	t.emit(ctx, hook.AfterInstanceSpawn, Event{Combatant: &c})
	return c
}
