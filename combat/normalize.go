package combat

import (
	"encoding/json"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/model"
)

// Combatant is the uniform view of anything sitting at the combat table.
type Combatant struct {
	ID              string `json:"id"`
	Kind            Kind   `json:"kind"`
	Name            string `json:"name"`
	HPCurrent       int    `json:"hp_current"`
	HPMax           int    `json:"hp_max"`
	AC              int    `json:"ac"`
	Initiative      int    `json:"initiative"`
	InitiativeBonus int    `json:"initiative_bonus"`
}

// AbilityMod is the D&D modifier of a raw ability score, floor((score-10)/2).
func AbilityMod(score int) int {
	d := score - 10
	q := d / 2
	if d%2 != 0 && d < 0 {
		q--
	}
	return q
}

// Normalize projects an entity onto a Combatant. Characters read their
// stats block; monsters and NPCs read root fields and derive the initiative
// bonus from dexterity.
func Normalize(e Entity) Combatant {
	c := Combatant{Kind: e.Kind}
	switch e.Kind {
	case KindCharacter:
		if ch := e.Character; ch != nil {
			c.ID, c.Name, c.Initiative = ch.ID, ch.Nom, ch.Initiative
			c.HPCurrent = ch.Stats.PvActuel
			c.HPMax = ch.Stats.PvMax
			c.AC = ch.Stats.Ca
			c.InitiativeBonus = ch.Stats.Init
		}
	case KindMonster:
		if m := e.Monster; m != nil {
			c.ID, c.Name, c.Initiative = m.ID, m.Nom, m.Initiative
			c.HPCurrent, c.HPMax, c.AC = m.Pv, m.PvMax, m.Ca
			c.InitiativeBonus = AbilityMod(m.Dexterite)
		}
	case KindNpc:
		if n := e.Npc; n != nil {
			c.ID, c.Name, c.Initiative = n.ID, n.Nom, n.Initiative
			c.HPCurrent, c.HPMax, c.AC = n.Pv, n.PvMax, n.Ca
			c.InitiativeBonus = AbilityMod(n.Dexterite)
		}
	}
	return c
}

// NormalizeAll keeps input order.
func NormalizeAll(entities []Entity) []Combatant {
	out := make([]Combatant, len(entities))
	for i, e := range entities {
		out[i] = Normalize(e)
	}
	return out
}

// DecodeDocument classifies an untyped document and decodes it into the
// matching model. Absent fields keep their zero value.
func DecodeDocument(doc map[string]any) (Entity, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return Entity{}, apperr.InvalidArgumentf("document: %v", err)
	}
	kind := Classify(doc)
	var target any
	e := Entity{Kind: kind}
	switch kind {
	case KindCharacter:
		e.Character = &model.Character{}
		target = e.Character
	case KindNpc:
		e.Npc = &model.Npc{}
		target = e.Npc
	default:
		e.Monster = &model.Monster{}
		target = e.Monster
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return Entity{}, apperr.InvalidArgumentf("%s document: %v", kind, err)
	}
	return e, nil
}

// NormalizeDocument is DecodeDocument followed by Normalize.
func NormalizeDocument(doc map[string]any) (Combatant, error) {
	e, err := DecodeDocument(doc)
	if err != nil {
		return Combatant{}, err
	}
	return Normalize(e), nil
}
