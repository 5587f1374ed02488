package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// Active restricts a query to rows whose lifecycle is active.
// table qualifies the column when the query joins other tables.
func Active(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column := "status"
		if table != "" {
			column = table + ".status"
		}
		return db.Where(column+" = ?", models.LifecycleActive)
	}
}
