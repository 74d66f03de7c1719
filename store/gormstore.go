package store

import (
	"context"
	"errors"
	"strings"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/model"
	"gorm.io/gorm"
)

// document is the constraint satisfied by every collection model.
type document[T any] interface {
	*T
	Validate() error
}

// collection is the gorm implementation shared by characters, monsters and NPCs.
type collection[T any, PT document[T]] struct {
	db     *gorm.DB
	kind   string
	order  string
	fields *fieldSet
}

func newCollection[T any, PT document[T]](db *gorm.DB, kind, order string) *collection[T, PT] {
	return &collection[T, PT]{
		db:     db,
		kind:   kind,
		order:  order,
		fields: newFieldSet(new(T)),
	}
}

func (c *collection[T, PT]) List(ctx context.Context) ([]T, error) {
	var docs []T
	if err := c.db.WithContext(ctx).Order(c.order).Find(&docs).Error; err != nil {
		return nil, storeError(err, "list "+c.kind+"s")
	}
	return docs, nil
}

func (c *collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	if id == "" {
		return nil, apperr.InvalidArgumentf("%s id is required", c.kind)
	}
	var doc T
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("%s %s not found", c.kind, id)
	}
	if err != nil {
		return nil, storeError(err, "get "+c.kind)
	}
	return &doc, nil
}

func (c *collection[T, PT]) Create(ctx context.Context, doc *T) error {
	if err := PT(doc).Validate(); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeInvalidArgument, err.Error())
	}
	if err := c.db.WithContext(ctx).Create(doc).Error; err != nil {
		return storeError(err, "create "+c.kind)
	}
	return nil
}

// Update applies a partial patch and returns the stored document.
func (c *collection[T, PT]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if id == "" {
		return nil, apperr.InvalidArgumentf("%s id is required", c.kind)
	}
	cols, err := c.fields.resolve(fields)
	if err != nil {
		return nil, err
	}
	if name, ok := cols["nom"].(string); ok && strings.TrimSpace(name) == "" {
		return nil, apperr.InvalidArgument("nom: is required")
	}
	res := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, storeError(res.Error, "update "+c.kind)
	}
	// MySQL reports zero affected rows for no-op updates, so existence is
	// settled by the read below.
	return c.Get(ctx, id)
}

func (c *collection[T, PT]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidArgumentf("%s id is required", c.kind)
	}
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return storeError(res.Error, "delete "+c.kind)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("%s %s not found", c.kind, id)
	}
	return nil
}

// monsterCollection adds template cloning to the monster collection.
type monsterCollection struct {
	*collection[model.Monster, *model.Monster]
}

// SpawnInstance loads the template, numbers the copy after the instances
// already carrying its name and stores it. The template itself is never written.
func (m *monsterCollection) SpawnInstance(ctx context.Context, templateID string) (*model.Monster, error) {
	tpl, err := m.Get(ctx, templateID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound("template not found")
		}
		return nil, err
	}
	if !tpl.EstModele {
		return nil, apperr.InvalidArgumentf("monster %s is not a template", templateID)
	}
	n, err := m.CountInstances(ctx, tpl.Nom)
	if err != nil {
		return nil, err
	}
	inst := tpl.Instantiate(n + 1)
	if err := m.Create(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// CountInstances compares in Go so the match is a literal, Unicode-aware
// prefix whatever the SQL dialect's collation.
func (m *monsterCollection) CountInstances(ctx context.Context, prefix string) (int, error) {
	var names []string
	err := m.db.WithContext(ctx).Model(&model.Monster{}).
		Where("est_modele = ?", false).
		Pluck("nom", &names).Error
	if err != nil {
		return 0, storeError(err, "count instances")
	}
	return countPrefixed(names, prefix), nil
}

func countPrefixed(names []string, prefix string) int {
	p := strings.ToLower(prefix)
	n := 0
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), p) {
			n++
		}
	}
	return n
}

type optionStore struct {
	db *gorm.DB
}

func (o *optionStore) Races(ctx context.Context) ([]model.Race, error) {
	var races []model.Race
	if err := o.db.WithContext(ctx).Order("nom").Find(&races).Error; err != nil {
		return nil, storeError(err, "list races")
	}
	return races, nil
}

func (o *optionStore) Classes(ctx context.Context) ([]model.Classe, error) {
	var classes []model.Classe
	if err := o.db.WithContext(ctx).Order("nom").Find(&classes).Error; err != nil {
		return nil, storeError(err, "list classes")
	}
	return classes, nil
}

func (o *optionStore) CreateRace(ctx context.Context, r *model.Race) error {
	if err := r.Validate(); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeInvalidArgument, err.Error())
	}
	return storeError(o.db.WithContext(ctx).Create(r).Error, "create race")
}

func (o *optionStore) CreateClasse(ctx context.Context, c *model.Classe) error {
	if err := c.Validate(); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeInvalidArgument, err.Error())
	}
	return storeError(o.db.WithContext(ctx).Create(c).Error, "create classe")
}

// NewGorm returns a Store backed by db. Tables must already be migrated.
func NewGorm(db *gorm.DB) *Store {
	return &Store{
		Characters: newCollection[model.Character, *model.Character](db, "character", "created_at, id"),
		Monsters: &monsterCollection{
			collection: newCollection[model.Monster, *model.Monster](db, "monster", "nom, id"),
		},
		Npcs:    newCollection[model.Npc, *model.Npc](db, "npc", "nom, id"),
		Options: &optionStore{db: db},
	}
}

// storeError classifies a driver error. Nil stays nil.
func storeError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.WrapWithCode(err, apperr.CodeNotFound, op)
	case errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err):
		return apperr.WrapWithCode(err, apperr.CodeInvalidArgument, op+": duplicate")
	default:
		return apperr.WrapWithCode(err, apperr.CodeUnavailable, op)
	}
}

// isUniqueViolation matches SQLite and MySQL duplicate-key messages.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
