// Package store is the document persistence boundary for characters,
// monsters, NPCs and the roster reference data.
package store

import (
	"context"

	"github.com/kasuganosora/campaign-table/model"
)

//go:generate mockgen -destination=mock/mock_store.go -package=storemock github.com/kasuganosora/campaign-table/store CharacterStore,MonsterStore,NpcStore

// Update keys are JSON field paths ("initiative", "stats.pv_actuel") or
// nested objects ({"stats": {"pv_actuel": 3}}); only the named fields change.

// CharacterStore persists player characters.
type CharacterStore interface {
	List(ctx context.Context) ([]model.Character, error)
	Get(ctx context.Context, id string) (*model.Character, error)
	Create(ctx context.Context, doc *model.Character) error
	Update(ctx context.Context, id string, fields map[string]any) (*model.Character, error)
	Delete(ctx context.Context, id string) error
}

// MonsterStore persists bestiary templates and their combat instances.
type MonsterStore interface {
	List(ctx context.Context) ([]model.Monster, error)
	Get(ctx context.Context, id string) (*model.Monster, error)
	Create(ctx context.Context, doc *model.Monster) error
	Update(ctx context.Context, id string, fields map[string]any) (*model.Monster, error)
	Delete(ctx context.Context, id string) error

	// SpawnInstance creates one numbered combat copy of a template.
	SpawnInstance(ctx context.Context, templateID string) (*model.Monster, error)
	// CountInstances counts non-template monsters whose name starts with
	// prefix, compared case-insensitively.
	CountInstances(ctx context.Context, prefix string) (int, error)
}

// NpcStore persists non-player characters.
type NpcStore interface {
	List(ctx context.Context) ([]model.Npc, error)
	Get(ctx context.Context, id string) (*model.Npc, error)
	Create(ctx context.Context, doc *model.Npc) error
	Update(ctx context.Context, id string, fields map[string]any) (*model.Npc, error)
	Delete(ctx context.Context, id string) error
}

// OptionStore serves the race and class lists of the roster forms.
type OptionStore interface {
	Races(ctx context.Context) ([]model.Race, error)
	Classes(ctx context.Context) ([]model.Classe, error)
	CreateRace(ctx context.Context, r *model.Race) error
	CreateClasse(ctx context.Context, c *model.Classe) error
}

// Store bundles every collection.
type Store struct {
	Characters CharacterStore
	Monsters   MonsterStore
	Npcs       NpcStore
	Options    OptionStore
}
