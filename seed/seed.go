// Package seed loads campaign data (races, classes, bestiary, roster and
// NPCs) from YAML files into the store.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/combat"
	"github.com/kasuganosora/campaign-table/model"
	"github.com/kasuganosora/campaign-table/store"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// File is the content of a seed file. Documents carry no type tag; each is
// classified by its shape.
type File struct {
	Races     []map[string]any `yaml:"races"`
	Classes   []map[string]any `yaml:"classes"`
	Documents []map[string]any `yaml:"documents"`
}

// Load decodes a seed file. Unknown top-level sections are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, apperr.InvalidArgumentf("seed file: %v", err)
	}
	return &f, nil
}

func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Load(bytes.NewReader(raw))
}

// Options tunes Apply.
type Options struct {
	// Reset empties every seeded table first.
	Reset bool
}

// Result counts the rows created by Apply.
type Result struct {
	Races      int `json:"races"`
	Classes    int `json:"classes"`
	Characters int `json:"characters"`
	Monsters   int `json:"monsters"`
	Npcs       int `json:"npcs"`
}

type Seeder struct {
	db     *gorm.DB
	store  *store.Store
	logger *zap.Logger
}

func NewSeeder(db *gorm.DB, st *store.Store, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, store: st, logger: logger}
}

// decodeOnto overlays doc on target, keeping target's values for absent keys.
func decodeOnto(doc map[string]any, target any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

// Apply writes f through the store. Every document is validated by the
// store; the first failure stops the run with the counts so far.
func (s *Seeder) Apply(ctx context.Context, f *File, opts Options) (Result, error) {
	var res Result
	if opts.Reset {
		if err := s.reset(ctx); err != nil {
			return res, err
		}
	}

	for i, doc := range f.Races {
		r := &model.Race{}
		if err := decodeOnto(doc, r); err != nil {
			return res, apperr.InvalidArgumentf("races[%d]: %v", i, err)
		}
		if err := s.store.Options.CreateRace(ctx, r); err != nil {
			return res, apperr.Wrapf(err, "races[%d] %q", i, r.Nom)
		}
		res.Races++
	}
	for i, doc := range f.Classes {
		c := &model.Classe{}
		if err := decodeOnto(doc, c); err != nil {
			return res, apperr.InvalidArgumentf("classes[%d]: %v", i, err)
		}
		if err := s.store.Options.CreateClasse(ctx, c); err != nil {
			return res, apperr.Wrapf(err, "classes[%d] %q", i, c.Nom)
		}
		res.Classes++
	}
	for i, doc := range f.Documents {
		if err := s.document(ctx, doc, &res); err != nil {
			return res, apperr.Wrapf(err, "documents[%d]", i)
		}
	}

	s.logger.Info("seed applied",
		zap.Int("races", res.Races), zap.Int("classes", res.Classes),
		zap.Int("characters", res.Characters), zap.Int("monsters", res.Monsters), zap.Int("npcs", res.Npcs))
	return res, nil
}

func (s *Seeder) document(ctx context.Context, doc map[string]any, res *Result) error {
	// Ids are assigned by the store.
	clean := make(map[string]any, len(doc))
	for k, v := range doc {
		if k != "id" && k != "_id" {
			clean[k] = v
		}
	}
	doc = clean

	switch combat.Classify(doc) {
	case combat.KindCharacter:
		c := model.NewCharacter()
		if err := decodeOnto(doc, c); err != nil {
			return apperr.InvalidArgumentf("character: %v", err)
		}
		if err := s.store.Characters.Create(ctx, c); err != nil {
			return err
		}
		res.Characters++
	case combat.KindNpc:
		n := model.NewNpc()
		if err := decodeOnto(doc, n); err != nil {
			return apperr.InvalidArgumentf("npc: %v", err)
		}
		if err := s.store.Npcs.Create(ctx, n); err != nil {
			return err
		}
		res.Npcs++
	default:
		m := model.NewMonster()
		if err := decodeOnto(doc, m); err != nil {
			return apperr.InvalidArgumentf("monster: %v", err)
		}
		if err := s.store.Monsters.Create(ctx, m); err != nil {
			return err
		}
		res.Monsters++
	}
	return nil
}

// reset empties the campaign tables. Accounts and the audit trail are kept.
func (s *Seeder) reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{&model.Character{}, &model.Monster{}, &model.Npc{}, &model.Race{}, &model.Classe{}} {
			if err := all.Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.WrapWithCode(err, apperr.CodeUnavailable, "reset campaign data")
	}
	s.logger.Info("campaign data reset")
	return nil
}
