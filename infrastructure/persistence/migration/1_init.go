package migration

import (
	"fmt"

	"github.com/anjaliconnect/api/domain/model"
	"gorm.io/gorm"
)

// Up1 creates the member, payment and audit log tables when they are missing.
func Up1(database *gorm.DB) error {
	tables := []any{}

	tables = addNewTable(database, model.Member{}, tables)
	tables = addNewTable(database, model.Payment{}, tables)
	tables = addNewTable(database, model.AuditLog{}, tables)

	if len(tables) == 0 {
		return nil
	}

	if err := database.Migrator().CreateTable(tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

func addNewTable(database *gorm.DB, model any, tables []any) []any {
	if !database.Migrator().HasTable(model) {
		tables = append(tables, model)
	}
	return tables
}
