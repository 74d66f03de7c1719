// Package combat aggregates active characters, monsters and NPCs into the
// shared combat table and reconciles game master edits with the store.
package combat

import (
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/model"
)

// Kind tags which collection a combatant's document lives in.
type Kind string

const (
	KindCharacter Kind = "character"
	KindMonster   Kind = "monster"
	KindNpc       Kind = "npc"
)

// ParseKind validates a kind received from a client.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindCharacter, KindMonster, KindNpc:
		return k, nil
	}
	return "", apperr.InvalidArgumentf("unknown combatant kind %q", s)
}

// Entity is a stored document tagged with the collection it was read from.
// Exactly one payload pointer matches Kind.
type Entity struct {
	Kind      Kind
	Character *model.Character
	Monster   *model.Monster
	Npc       *model.Npc
}

func CharacterEntity(c *model.Character) Entity { return Entity{Kind: KindCharacter, Character: c} }
func MonsterEntity(m *model.Monster) Entity     { return Entity{Kind: KindMonster, Monster: m} }
func NpcEntity(n *model.Npc) Entity             { return Entity{Kind: KindNpc, Npc: n} }

// ActiveEntities keeps the documents flagged est_actif, characters first,
// then monsters, then NPCs, each in the order given. Templates never sit at
// the table even if flagged.
func ActiveEntities(chars []model.Character, monsters []model.Monster, npcs []model.Npc) []Entity {
	out := make([]Entity, 0, len(chars)+len(monsters)+len(npcs))
	for i := range chars {
		if chars[i].EstActif {
			out = append(out, CharacterEntity(&chars[i]))
		}
	}
	for i := range monsters {
		if monsters[i].EstActif && !monsters[i].EstModele {
			out = append(out, MonsterEntity(&monsters[i]))
		}
	}
	for i := range npcs {
		if npcs[i].EstActif {
			out = append(out, NpcEntity(&npcs[i]))
		}
	}
	return out
}

// Classify guesses the kind of an untyped document from its shape:
// a "classe" key marks a character, an "occupation" key an NPC, anything
// else is a monster.
func Classify(doc map[string]any) Kind {
	if _, ok := doc["classe"]; ok {
		return KindCharacter
	}
	if _, ok := doc["occupation"]; ok {
		return KindNpc
	}
	return KindMonster
}
