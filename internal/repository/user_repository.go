package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/database"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/utils"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	return &GormUserRepository{db: tx}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin finds a user by login
func (r *GormUserRepository) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) ExistsByID(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

// List retrieves one page of users
func (r *GormUserRepository) List(ctx context.Context, page utils.Pageable) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := page.Sort
	if sort.Column == "" {
		sort = utils.Sort{Column: "id"}
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Scopes(database.OrderBy("users", sort), database.Paginate(page)).
		Find(&users).Error
	return users, total, err
}
