package model

import "gorm.io/datatypes"

// Character is a player character sheet.
type Character struct {
	Base
	Nom        string `gorm:"size:128;not null;index" json:"nom"`
	Classe     string `gorm:"size:64;not null" json:"classe"`
	SousClasse string `gorm:"size:64" json:"sous_classe"`
	Race       string `gorm:"size:64" json:"race"`
	Historique string `gorm:"size:64" json:"historique"`
	Alignement string `gorm:"size:32" json:"alignement"`
	Niveau     int    `json:"niveau"`
	XP         int    `json:"xp"`
	NomJoueur  string `gorm:"size:64" json:"nom_joueur"`
	EstPnj     bool   `json:"est_pnj"`
	EstActif   bool   `gorm:"index" json:"est_actif"`
	Initiative int    `json:"initiative"`

	Caracteristiques AbilityScores                    `gorm:"embedded;embeddedPrefix:car_" json:"caracteristiques"`
	Maitrises        datatypes.JSONType[Proficiencies] `json:"maitrises"`
	Stats            CharacterStats                   `gorm:"embedded;embeddedPrefix:stats_" json:"stats"`
	Magie            datatypes.JSONType[Spellcasting]  `json:"magie"`
	Actions          datatypes.JSONSlice[Attack]       `json:"actions"`
	Inventaire       datatypes.JSONType[Inventory]     `json:"inventaire"`
	Traits           datatypes.JSONSlice[Trait]        `json:"traits"`
	Details          datatypes.JSONType[Details]       `json:"details"`
}

// CharacterStats is the combat and vitality block of a sheet.
type CharacterStats struct {
	PvMax             int        `json:"pv_max"`
	PvActuel          int        `json:"pv_actuel"`
	PvTemporaire      int        `json:"pv_temporaire"`
	DesVie            HitDice    `gorm:"embedded;embeddedPrefix:des_vie_" json:"des_vie"`
	ContreLaMort      DeathSaves `gorm:"embedded;embeddedPrefix:mort_" json:"contre_la_mort"`
	Ca                int        `json:"ca"`
	Init              int        `json:"init"`
	Vitesse           float64    `json:"vitesse"`
	PerceptionPassive int        `json:"perception_passive"`
	Inspiration       bool       `json:"inspiration"`
}

type HitDice struct {
	Total       int `json:"total"`
	Face        int `json:"face"`
	Disponibles int `json:"disponibles"`
}

type DeathSaves struct {
	Succes int `json:"succes"`
	Echecs int `json:"echecs"`
}

type Proficiencies struct {
	Bonus       int      `json:"bonus"`
	Sauvegardes []string `json:"sauvegardes"`
	Competences []string `json:"competences"`
	Armures     []string `json:"armures"`
	Armes       []string `json:"armes"`
	Outils      []string `json:"outils"`
	Langues     []string `json:"langues"`
}

type SpellSlot struct {
	Max    int `json:"max"`
	Actuel int `json:"actuel"`
}

type SpellSlots struct {
	Niveau1 SpellSlot `json:"niveau_1"`
	Niveau2 SpellSlot `json:"niveau_2"`
	Niveau3 SpellSlot `json:"niveau_3"`
	Niveau4 SpellSlot `json:"niveau_4"`
	Niveau5 SpellSlot `json:"niveau_5"`
	Niveau6 SpellSlot `json:"niveau_6"`
	Niveau7 SpellSlot `json:"niveau_7"`
	Niveau8 SpellSlot `json:"niveau_8"`
	Niveau9 SpellSlot `json:"niveau_9"`
}

type Cantrip struct {
	Nom  string `json:"nom"`
	Desc string `json:"desc,omitempty"`
}

type PreparedSpell struct {
	Nom     string `json:"nom"`
	Niveau  int    `json:"niveau"`
	Prepare bool   `json:"prepare"`
	Domaine bool   `json:"domaine"`
}

type Spellcasting struct {
	ClasseLancement  string          `json:"classe_lancement,omitempty"`
	Caracteristique  string          `json:"caracteristique,omitempty"`
	DDSauvegarde     int             `json:"dd_sauvegarde,omitempty"`
	BonusAttaqueSort int             `json:"bonus_attaque_sort,omitempty"`
	Emplacements     SpellSlots      `json:"emplacements"`
	SortsMineurs     []Cantrip       `json:"sorts_mineurs"`
	SortsPrepares    []PreparedSpell `json:"sorts_prepares"`
}

// Attack is a weapon or spell attack line on a character sheet.
type Attack struct {
	Nom          string `json:"nom"`
	BonusAttaque int    `json:"bonus_attaque"`
	Degats       string `json:"degats"`
	TypeDegats   string `json:"type_degats"`
	Portee       string `json:"portee,omitempty"`
	Desc         string `json:"desc,omitempty"`
}

type Coins struct {
	PC int `json:"pc"`
	PA int `json:"pa"`
	PE int `json:"pe"`
	PO int `json:"po"`
	PP int `json:"pp"`
}

type Item struct {
	Nom      string  `json:"nom"`
	Quantite int     `json:"quantite"`
	Equipe   bool    `json:"equipe"`
	Poids    float64 `json:"poids,omitempty"`
	Desc     string  `json:"desc,omitempty"`
}

type Inventory struct {
	Pieces     Coins  `json:"pieces"`
	Equipement []Item `json:"equipement"`
}

type Appearance struct {
	Age     int    `json:"age,omitempty"`
	Taille  string `json:"taille,omitempty"`
	Poids   string `json:"poids,omitempty"`
	Yeux    string `json:"yeux,omitempty"`
	Peau    string `json:"peau,omitempty"`
	Cheveux string `json:"cheveux,omitempty"`
}

type Details struct {
	Apparence    Appearance `json:"apparence"`
	Personnalite string     `json:"personnalite,omitempty"`
	Ideaux       string     `json:"ideaux,omitempty"`
	Liens        string     `json:"liens,omitempty"`
	Defauts      string     `json:"defauts,omitempty"`
	Histoire     string     `json:"histoire,omitempty"`
}

// NewCharacter returns a sheet pre-filled with creation defaults.
// Request bodies are decoded on top of it.
func NewCharacter() *Character {
	return &Character{
		Race:             "Inconnu",
		Niveau:           1,
		Caracteristiques: DefaultAbilityScores(),
		Maitrises:        datatypes.NewJSONType(Proficiencies{Bonus: 2}),
		Stats: CharacterStats{
			DesVie:            HitDice{Total: 1, Face: 8, Disponibles: 1},
			Vitesse:           9,
			PerceptionPassive: 10,
		},
	}
}

func (c *Character) Validate() error {
	if err := required("nom", c.Nom); err != nil {
		return err
	}
	return required("classe", c.Classe)
}
