package database

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/yukikurage/tree-api/internal/models"
)

// Models lists every table managed by the service, parents first.
var Models = []any{
	&models.User{},
	&models.Bank{},
	&models.Timer{},
	&models.Tree{},
}

// DefaultUsers are created on first start so entities have someone to be assigned to.
var DefaultUsers = []models.User{
	{Login: "admin", Email: "admin@localhost", FirstName: "Administrator", LastName: "Administrator", Activated: true},
	{Login: "user", Email: "user@localhost", FirstName: "User", LastName: "User", Activated: true},
}

// Migrate creates or updates the schema, checks relationship indexes and
// seeds the default users.
func Migrate(db *gorm.DB, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	log.Info("running database migrations")
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db, log); err != nil {
		return err
	}

	if err := SeedUsers(db, log); err != nil {
		return err
	}

	log.Info("database migrations completed")
	return nil
}

// AddIndexes makes sure the relationship lookup indexes exist. Tables that
// predate a struct tag do not get the index from AutoMigrate alone.
func AddIndexes(db *gorm.DB, log *slog.Logger) error {
	indexes := []struct {
		model any
		field string
	}{
		{&models.Bank{}, "AssignedToID"},
		{&models.Timer{}, "AssignedToID"},
		{&models.Tree{}, "AssignedToID"},
		{&models.User{}, "Login"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.field) {
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.field); err != nil {
			return fmt.Errorf("failed to create index on %T.%s: %w", idx.model, idx.field, err)
		}

		log.Info("created index", slog.String("model", fmt.Sprintf("%T", idx.model)), slog.String("field", idx.field))
	}

	return nil
}

// SeedUsers inserts DefaultUsers whose login does not exist yet.
func SeedUsers(db *gorm.DB, log *slog.Logger) error {
	for _, seed := range DefaultUsers {
		var existing models.User
		err := db.Where("login = ?", seed.Login).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up user %s: %w", seed.Login, err)
		}

		user := seed
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", seed.Login, err)
		}

		log.Info("seeded user", slog.String("login", user.Login), slog.Uint64("id", user.ID))
	}

	return nil
}
