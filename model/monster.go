package model

import (
	"fmt"

	"gorm.io/datatypes"
)

// Monster is either a bestiary template (EstModele) or a combat instance
// spawned from one.
type Monster struct {
	Base
	Nom        string  `gorm:"size:128;not null;index" json:"nom"`
	Type       string  `gorm:"size:64;not null" json:"type"`
	Taille     string  `gorm:"size:32" json:"taille"`
	Alignement string  `gorm:"size:32" json:"alignement"`
	Pv         int     `json:"pv"`
	PvMax      int     `json:"pv_max"`
	Ca         int     `json:"ca"`
	Vitesse    float64 `json:"vitesse"`
	AbilityScores
	Challenge  float64                          `json:"challenge"`
	XP         int                              `json:"xp"`
	Actions    datatypes.JSONSlice[MonsterAction] `json:"actions"`
	EstActif   bool                             `gorm:"index" json:"est_actif"`
	EstModele  bool                             `gorm:"index" json:"est_modele"`
	Initiative int                              `json:"initiative"`
}

type MonsterAction struct {
	Nom  string `json:"nom"`
	Desc string `json:"desc"`
}

// NewMonster returns a template pre-filled with creation defaults.
func NewMonster() *Monster {
	return &Monster{
		Taille:        "Moyenne",
		Vitesse:       9,
		AbilityScores: DefaultAbilityScores(),
		EstModele:     true,
	}
}

func (m *Monster) Validate() error {
	if err := required("nom", m.Nom); err != nil {
		return err
	}
	return required("type", m.Type)
}

// Instantiate returns the seq-th combat copy of the template: numbered name,
// full hit points, active, initiative reset. m is left untouched.
func (m *Monster) Instantiate(seq int) *Monster {
	inst := *m
	inst.Base = Base{}
	inst.Nom = fmt.Sprintf("%s %d", m.Nom, seq)
	inst.EstModele = false
	inst.EstActif = true
	inst.Pv = m.PvMax
	inst.Initiative = 0
	if m.Actions != nil {
		inst.Actions = append(datatypes.JSONSlice[MonsterAction]{}, m.Actions...)
	}
	return &inst
}
