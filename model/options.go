package model

import "gorm.io/datatypes"

// Race is reference data offered by the roster forms.
type Race struct {
	Base
	Nom                   string                            `gorm:"uniqueIndex;size:128;not null" json:"nom"`
	Description           string                            `gorm:"type:text" json:"description"`
	Vitesse               float64                           `json:"vitesse"`
	Taille                string                            `gorm:"size:32" json:"taille"`
	VisionNocturne        bool                              `json:"vision_nocturne"`
	BonusCaracteristiques datatypes.JSONSlice[AbilityBonus] `json:"bonus_caracteristiques"`
	Maitrises             datatypes.JSONType[RaceProficiencies] `json:"maitrises"`
	Traits                datatypes.JSONSlice[Trait]        `json:"traits"`
}

type AbilityBonus struct {
	Stat string `json:"stat"`
	Val  int    `json:"val"`
}

type RaceProficiencies struct {
	Armes   []string `json:"armes"`
	Armures []string `json:"armures"`
	Outils  []string `json:"outils"`
	Langues []string `json:"langues"`
}

func (r *Race) Validate() error { return required("nom", r.Nom) }

// Classe is a character class offered by the roster forms.
type Classe struct {
	Base
	Nom              string                                 `gorm:"uniqueIndex;size:128;not null" json:"nom"`
	Description      string                                 `gorm:"type:text" json:"description"`
	DeVie            int                                    `json:"de_vie"`
	Maitrises        datatypes.JSONType[ClassProficiencies] `json:"maitrises"`
	ChoixCompetences datatypes.JSONType[SkillChoice]        `json:"choix_competences"`
	Magie            datatypes.JSONType[ClassMagic]         `json:"magie"`
	EquipementDepart datatypes.JSONSlice[string]            `json:"equipement_depart"`
}

type ClassProficiencies struct {
	Armures     []string `json:"armures"`
	Armes       []string `json:"armes"`
	Outils      []string `json:"outils"`
	Sauvegardes []string `json:"sauvegardes"`
}

type SkillChoice struct {
	Nombre int      `json:"nombre"`
	Liste  []string `json:"liste"`
}

type ClassMagic struct {
	EstLanceur      bool   `json:"est_lanceur"`
	Caracteristique string `json:"caracteristique,omitempty"`
}

func (c *Classe) Validate() error {
	if err := required("nom", c.Nom); err != nil {
		return err
	}
	if c.DeVie <= 0 {
		return &ValidationError{Field: "de_vie", Reason: "must be positive"}
	}
	return nil
}

// TableName keeps the plural consistent with the other collections.
func (Classe) TableName() string { return "classes" }
