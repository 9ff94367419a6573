package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/tree-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(page utils.Pageable) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(page.Offset()).Limit(page.Size)
	}
}

// OrderBy applies sort to a GORM query. An empty sort keeps the store's
// default ordering.
func OrderBy(table string, sort utils.Sort) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sort.Column == "" {
			return db
		}
		return db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: table, Name: sort.Column},
			Desc:   sort.Desc,
		})
	}
}
