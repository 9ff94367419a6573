package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/utils"
)

// Repository defines the data access contract shared by every entity that is
// assigned to a user.
type Repository[T any] interface {
	// Save creates the record when its id is zero and overwrites every column otherwise
	Save(ctx context.Context, ent *T) error

	// ExistsByID reports whether a record with id is stored
	ExistsByID(ctx context.Context, id uint64) (bool, error)

	// FindByID loads a record without its user. Returns gorm.ErrRecordNotFound when absent.
	FindByID(ctx context.Context, id uint64) (*T, error)

	// FindByIDForUpdate is FindByID holding a row lock for the rest of the transaction
	FindByIDForUpdate(ctx context.Context, id uint64) (*T, error)

	// FindAll lists every record
	FindAll(ctx context.Context, sort utils.Sort) ([]T, error)

	// FindAllPaged lists one page of records together with the total count
	FindAllPaged(ctx context.Context, page utils.Pageable) ([]T, int64, error)

	// FindAllWithEagerRelationships lists every record joined with its user in one query
	FindAllWithEagerRelationships(ctx context.Context, sort utils.Sort) ([]T, error)

	// FindAllWithEagerRelationshipsPaged is the paged variant of FindAllWithEagerRelationships
	FindAllWithEagerRelationshipsPaged(ctx context.Context, page utils.Pageable) ([]T, int64, error)

	// FindOneWithEagerRelationships loads a record joined with its user
	FindOneWithEagerRelationships(ctx context.Context, id uint64) (*T, error)

	// DeleteByID removes the record. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id uint64) error

	// Count returns the number of stored records
	Count(ctx context.Context) (int64, error)

	// WithTx returns a repository bound to tx
	WithTx(tx *gorm.DB) Repository[T]
}

type (
	BankRepository  = Repository[models.Bank]
	TimerRepository = Repository[models.Timer]
	TreeRepository  = Repository[models.Tree]
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByLogin finds a user by login
	FindByLogin(ctx context.Context, login string) (*models.User, error)

	// ExistsByID reports whether a user with id exists
	ExistsByID(ctx context.Context, id uint64) (bool, error)

	// List retrieves one page of users ordered by id, with the total count
	List(ctx context.Context, page utils.Pageable) ([]models.User, int64, error)

	// WithTx returns a repository bound to tx
	WithTx(tx *gorm.DB) UserRepository
}
