package model

import "gorm.io/datatypes"

// Npc is a non-player character of the campaign.
type Npc struct {
	Base
	Nom          string  `gorm:"size:128;not null;index" json:"nom"`
	Race         string  `gorm:"size:64" json:"race"`
	Occupation   string  `gorm:"size:128" json:"occupation"`
	Alignement   string  `gorm:"size:32" json:"alignement"`
	Apparence    string  `gorm:"type:text" json:"apparence"`
	Personnalite string  `gorm:"type:text" json:"personnalite"`
	But          string  `gorm:"type:text" json:"but"`
	Secret       string  `gorm:"type:text" json:"secret"`
	Voix         string  `gorm:"size:255" json:"voix"`
	Ca           int     `json:"ca"`
	Pv           int     `json:"pv"`
	PvMax        int     `json:"pv_max"`
	Vitesse      float64 `json:"vitesse"`
	Initiative   int     `json:"initiative"`
	AbilityScores
	Attaques datatypes.JSONSlice[NpcAttack] `json:"attaques"`
	EstActif bool                           `gorm:"index" json:"est_actif"`
}

type NpcAttack struct {
	Nom    string `json:"nom"`
	Bonus  int    `json:"bonus"`
	Degats string `json:"degats"`
}

func NewNpc() *Npc {
	return &Npc{
		Vitesse:       9,
		AbilityScores: DefaultAbilityScores(),
	}
}

func (n *Npc) Validate() error {
	return required("nom", n.Nom)
}
