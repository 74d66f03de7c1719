package combat

import (
	"testing"

	"github.com/kasuganosora/campaign-table/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbilityMod(t *testing.T) {
	cases := map[int]int{
		1: -5, 3: -4, 8: -1, 9: -1, 10: 0, 11: 0, 12: 1, 14: 2, 15: 2, 20: 5, 30: 10, 0: -5,
	}
	for score, want := range cases {
		assert.Equal(t, want, AbilityMod(score), "score %d", score)
	}
}

func TestNormalize_Character(t *testing.T) {
	ch := model.NewCharacter()
	ch.ID, ch.Nom, ch.Classe = "c1", "Thorin", "Clerc"
	ch.Stats.PvActuel, ch.Stats.PvMax, ch.Stats.Ca, ch.Stats.Init = 7, 11, 18, -1
	ch.Initiative = 12
	ch.Caracteristiques.Dexterite = 20

	c := Normalize(CharacterEntity(ch))
	assert.Equal(t, Combatant{
		ID: "c1", Kind: KindCharacter, Name: "Thorin",
		HPCurrent: 7, HPMax: 11, AC: 18, Initiative: 12, InitiativeBonus: -1,
	}, c, "characters read the stats block, not their ability scores")
}

func TestNormalize_MonsterAndNpc(t *testing.T) {
	m := model.NewMonster()
	m.ID, m.Nom, m.Pv, m.PvMax, m.Ca, m.Dexterite, m.Initiative = "m1", "Gobelin 1", 5, 7, 15, 14, 9
	assert.Equal(t, Combatant{
		ID: "m1", Kind: KindMonster, Name: "Gobelin 1",
		HPCurrent: 5, HPMax: 7, AC: 15, Initiative: 9, InitiativeBonus: 2,
	}, Normalize(MonsterEntity(m)))

	n := model.NewNpc()
	n.ID, n.Nom, n.Occupation, n.Pv, n.PvMax, n.Ca, n.Dexterite = "n1", "Elmar", "Aubergiste", 4, 4, 10, 9
	assert.Equal(t, Combatant{
		ID: "n1", Kind: KindNpc, Name: "Elmar",
		HPCurrent: 4, HPMax: 4, AC: 10, InitiativeBonus: -1,
	}, Normalize(NpcEntity(n)))
}

func TestNormalize_NilPayload(t *testing.T) {
	c := Normalize(Entity{Kind: KindMonster})
	assert.Equal(t, Combatant{Kind: KindMonster}, c)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindCharacter, Classify(map[string]any{"nom": "A", "classe": "Barde"}))
	assert.Equal(t, KindNpc, Classify(map[string]any{"nom": "B", "occupation": "Forgeron"}))
	assert.Equal(t, KindMonster, Classify(map[string]any{"nom": "C", "type": "Bête"}))
	assert.Equal(t, KindCharacter, Classify(map[string]any{"occupation": "x", "classe": "y"}),
		"classe wins whatever else is present")
}

func TestNormalizeDocument(t *testing.T) {
	c, err := NormalizeDocument(map[string]any{
		"id": "x", "nom": "Loup", "pv": 11, "pv_max": 11, "ca": 13, "dexterite": 15,
	})
	require.NoError(t, err)
	assert.Equal(t, KindMonster, c.Kind)
	assert.Equal(t, 2, c.InitiativeBonus)
	assert.Equal(t, 11, c.HPCurrent)

	c, err = NormalizeDocument(map[string]any{
		"nom": "Aria", "classe": "Roublard",
		"stats": map[string]any{"pv_actuel": 3, "init": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, KindCharacter, c.Kind)
	assert.Equal(t, 3, c.HPCurrent)
	assert.Equal(t, 0, c.HPMax, "absent numerics are 0")
	assert.Equal(t, 4, c.InitiativeBonus)

	_, err = NormalizeDocument(map[string]any{"nom": "Bad", "pv": "lots"})
	assert.Error(t, err)
}

func TestActiveEntities(t *testing.T) {
	chars := []model.Character{
		{Base: model.Base{ID: "c1"}, EstActif: true},
		{Base: model.Base{ID: "c2"}},
	}
	monsters := []model.Monster{
		{Base: model.Base{ID: "tpl"}, EstActif: true, EstModele: true},
		{Base: model.Base{ID: "m1"}, EstActif: true},
	}
	npcs := []model.Npc{
		{Base: model.Base{ID: "n1"}, EstActif: true},
	}
	var ids []string
	for _, e := range ActiveEntities(chars, monsters, npcs) {
		ids = append(ids, string(e.Kind)+":"+Normalize(e).ID)
	}
	assert.Equal(t, []string{"character:c1", "monster:m1", "npc:n1"}, ids)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("npc")
	require.NoError(t, err)
	assert.Equal(t, KindNpc, k)
	_, err = ParseKind("dragon")
	assert.Error(t, err)
}
