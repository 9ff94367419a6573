package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/metrics"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/repository"
	"github.com/yukikurage/tree-api/internal/utils"
)

var (
	ErrIDExists            = errors.New("a new entity cannot already have an id")
	ErrIDNull              = errors.New("id is required")
	ErrIDInvalid           = errors.New("id does not match the path")
	ErrIDNotFound          = errors.New("entity not found")
	ErrNotFound            = errors.New("not found")
	ErrUnknownUser         = errors.New("assigned user does not exist")
	ErrUserAlreadyAssigned = errors.New("user is already assigned to another entity")
)

// evicter is implemented by repositories that keep copies of records outside
// the store
type evicter interface {
	Evict(ctx context.Context, ids ...uint64)
}

// MergeFunc copies the non-null value fields of src into dst
type MergeFunc[T any] func(dst, src *T)

// CRUDService handles the create, update, read and delete flows shared by
// every user-assigned entity
type CRUDService[T any, P models.EntityPtr[T]] struct {
	db     *gorm.DB
	repo   repository.Repository[T]
	users  repository.UserRepository
	merge  MergeFunc[T]
	entity string
}

// NewCRUDService creates a new CRUDService
func NewCRUDService[T any, P models.EntityPtr[T]](db *gorm.DB, repo repository.Repository[T], users repository.UserRepository, merge MergeFunc[T]) *CRUDService[T, P] {
	return &CRUDService[T, P]{
		db:     db,
		repo:   repo,
		users:  users,
		merge:  merge,
		entity: P(new(T)).EntityName(),
	}
}

// EntityName returns the name used in error payloads
func (s *CRUDService[T, P]) EntityName() string {
	return s.entity
}

// Create persists a new entity. payloadID is the id the client sent and must be nil.
func (s *CRUDService[T, P]) Create(ctx context.Context, payloadID *uint64, ent *T) (*T, error) {
	if payloadID != nil {
		return nil, s.record("create", ErrIDExists)
	}

	P(ent).SetID(0)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkAssignedUser(ctx, tx, ent); err != nil {
			return err
		}
		return s.save(ctx, tx, ent)
	})
	if err != nil {
		return nil, s.record("create", err)
	}

	s.record("create", nil)
	return ent, nil
}

// Update overwrites every field of the stored entity with ent
func (s *CRUDService[T, P]) Update(ctx context.Context, pathID uint64, payloadID *uint64, ent *T) (*T, error) {
	if err := checkIdentity(pathID, payloadID); err != nil {
		return nil, s.record("update", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lock(ctx, tx, pathID); err != nil {
			return err
		}
		if err := s.checkAssignedUser(ctx, tx, ent); err != nil {
			return err
		}

		P(ent).SetID(pathID)
		return s.save(ctx, tx, ent)
	})
	if err != nil {
		return nil, s.record("update", err)
	}
	s.evictCommitted(ctx, pathID)

	s.record("update", nil)
	return ent, nil
}

// PartialUpdate merges the non-null value fields of patch into the stored
// entity. The assigned user is never changed.
func (s *CRUDService[T, P]) PartialUpdate(ctx context.Context, pathID uint64, payloadID *uint64, patch *T) (*T, error) {
	if err := checkIdentity(pathID, payloadID); err != nil {
		return nil, s.record("partial_update", err)
	}

	var merged *T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.lock(ctx, tx, pathID)
		if err != nil {
			return err
		}

		s.merge(existing, patch)
		if err := s.save(ctx, tx, existing); err != nil {
			return err
		}

		merged = existing
		return nil
	})
	if err != nil {
		return nil, s.record("partial_update", err)
	}
	s.evictCommitted(ctx, pathID)

	s.record("partial_update", nil)
	return merged, nil
}

// List returns every entity, joined with its user when eager is set
func (s *CRUDService[T, P]) List(ctx context.Context, eager bool, sort utils.Sort) ([]T, error) {
	var (
		items []T
		err   error
	)
	if eager {
		items, err = s.repo.FindAllWithEagerRelationships(ctx, sort)
	} else {
		items, err = s.repo.FindAll(ctx, sort)
	}
	if err != nil {
		return nil, s.record("list", fmt.Errorf("failed to list %ss: %w", s.entity, err))
	}

	s.record("list", nil)
	return items, nil
}

// ListPage returns one page of entities and the total count
func (s *CRUDService[T, P]) ListPage(ctx context.Context, eager bool, page utils.Pageable) ([]T, int64, error) {
	var (
		items []T
		total int64
		err   error
	)
	if eager {
		items, total, err = s.repo.FindAllWithEagerRelationshipsPaged(ctx, page)
	} else {
		items, total, err = s.repo.FindAllPaged(ctx, page)
	}
	if err != nil {
		return nil, 0, s.record("list", fmt.Errorf("failed to list %ss: %w", s.entity, err))
	}

	s.record("list", nil)
	return items, total, nil
}

// Get returns the entity joined with its user
func (s *CRUDService[T, P]) Get(ctx context.Context, id uint64) (*T, error) {
	ent, err := s.repo.FindOneWithEagerRelationships(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, s.record("get", ErrNotFound)
		}
		return nil, s.record("get", fmt.Errorf("failed to get %s: %w", s.entity, err))
	}

	s.record("get", nil)
	return ent, nil
}

// Delete removes the entity. Missing ids are not an error.
func (s *CRUDService[T, P]) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return s.record("delete", fmt.Errorf("failed to delete %s: %w", s.entity, err))
	}

	s.record("delete", nil)
	return nil
}

func checkIdentity(pathID uint64, payloadID *uint64) error {
	if payloadID == nil {
		return ErrIDNull
	}
	if *payloadID != pathID {
		return ErrIDInvalid
	}
	return nil
}

// lock loads the stored row for the rest of the transaction
func (s *CRUDService[T, P]) lock(ctx context.Context, tx *gorm.DB, id uint64) (*T, error) {
	ent, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIDNotFound
		}
		return nil, fmt.Errorf("failed to load %s: %w", s.entity, err)
	}
	return ent, nil
}

func (s *CRUDService[T, P]) checkAssignedUser(ctx context.Context, tx *gorm.DB, ent *T) error {
	userID := P(ent).AssignedUserID()
	if userID == nil {
		return nil
	}

	exists, err := s.users.WithTx(tx).ExistsByID(ctx, *userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return ErrUnknownUser
	}
	return nil
}

// evictCommitted drops cached copies of id. Readers that ran while the
// transaction was open may have cached the row as it was before the write.
func (s *CRUDService[T, P]) evictCommitted(ctx context.Context, id uint64) {
	if cached, ok := s.repo.(evicter); ok {
		cached.Evict(ctx, id)
	}
}

func (s *CRUDService[T, P]) save(ctx context.Context, tx *gorm.DB, ent *T) error {
	err := s.repo.WithTx(tx).Save(ctx, ent)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUserAlreadyAssigned
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrUnknownUser
	default:
		return fmt.Errorf("failed to save %s: %w", s.entity, err)
	}
}

// record counts the operation and passes err through
func (s *CRUDService[T, P]) record(operation string, err error) error {
	metrics.RecordEntityOperation(s.entity, operation, outcome(err))
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsRejection(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// IsRejection reports whether err is caused by the request rather than the store
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrIDExists, ErrIDNull, ErrIDInvalid, ErrIDNotFound,
		ErrNotFound, ErrUnknownUser, ErrUserAlreadyAssigned,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
