package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/tree-api/internal/database"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/utils"
)

// assignedToRelation is the association joined by the eager queries.
const assignedToRelation = "AssignedTo"

// GormRepository is a GORM implementation of Repository
type GormRepository[T any, P models.EntityPtr[T]] struct {
	db    *gorm.DB
	table string
}

// NewGormRepository creates a repository for the entity stored in table
func NewGormRepository[T any, P models.EntityPtr[T]](db *gorm.DB, table string) *GormRepository[T, P] {
	return &GormRepository[T, P]{db: db, table: table}
}

// NewBankRepository creates a new BankRepository
func NewBankRepository(db *gorm.DB) BankRepository {
	return NewGormRepository[models.Bank](db, "banks")
}

// NewTimerRepository creates a new TimerRepository
func NewTimerRepository(db *gorm.DB) TimerRepository {
	return NewGormRepository[models.Timer](db, "timers")
}

// NewTreeRepository creates a new TreeRepository
func NewTreeRepository(db *gorm.DB) TreeRepository {
	return NewGormRepository[models.Tree](db, "trees")
}

// Table returns the table backing the repository
func (r *GormRepository[T, P]) Table() string {
	return r.table
}

func (r *GormRepository[T, P]) WithTx(tx *gorm.DB) Repository[T] {
	return &GormRepository[T, P]{db: tx, table: r.table}
}

// Save writes only the entity's own columns. The user is referenced by
// AssignedToID and is never created or updated through the entity.
func (r *GormRepository[T, P]) Save(ctx context.Context, ent *T) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(P(ent)).Error
}

func (r *GormRepository[T, P]) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

func (r *GormRepository[T, P]) FindByID(ctx context.Context, id uint64) (*T, error) {
	ent := new(T)
	if err := r.db.WithContext(ctx).First(ent, id).Error; err != nil {
		return nil, err
	}
	return ent, nil
}

func (r *GormRepository[T, P]) FindByIDForUpdate(ctx context.Context, id uint64) (*T, error) {
	query := r.db.WithContext(ctx)

	// sqlite locks the whole database for writes and has no FOR UPDATE
	if query.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	ent := new(T)
	if err := query.First(ent, id).Error; err != nil {
		return nil, err
	}
	return ent, nil
}

func (r *GormRepository[T, P]) FindAll(ctx context.Context, sort utils.Sort) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Scopes(database.OrderBy(r.table, r.sortOrDefault(sort))).
		Find(&items).Error
	return items, err
}

func (r *GormRepository[T, P]) FindAllPaged(ctx context.Context, page utils.Pageable) ([]T, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []T
	err = r.db.WithContext(ctx).
		Scopes(database.OrderBy(r.table, r.sortOrDefault(page.Sort)), database.Paginate(page)).
		Find(&items).Error
	return items, total, err
}

func (r *GormRepository[T, P]) FindAllWithEagerRelationships(ctx context.Context, sort utils.Sort) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Joins(assignedToRelation).
		Scopes(database.OrderBy(r.table, r.sortOrDefault(sort))).
		Find(&items).Error
	return items, err
}

func (r *GormRepository[T, P]) FindAllWithEagerRelationshipsPaged(ctx context.Context, page utils.Pageable) ([]T, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var items []T
	err = r.db.WithContext(ctx).
		Joins(assignedToRelation).
		Scopes(database.OrderBy(r.table, r.sortOrDefault(page.Sort)), database.Paginate(page)).
		Find(&items).Error
	return items, total, err
}

func (r *GormRepository[T, P]) FindOneWithEagerRelationships(ctx context.Context, id uint64) (*T, error) {
	ent := new(T)
	if err := r.db.WithContext(ctx).Joins(assignedToRelation).First(ent, id).Error; err != nil {
		return nil, err
	}
	return ent, nil
}

func (r *GormRepository[T, P]) DeleteByID(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}

func (r *GormRepository[T, P]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Count(&count).Error
	return count, err
}

// sortOrDefault keeps listings stable across pages by falling back to id order.
func (r *GormRepository[T, P]) sortOrDefault(sort utils.Sort) utils.Sort {
	if sort.Column == "" {
		return utils.Sort{Column: "id"}
	}
	return sort
}
