package datamodel

import (
	"fmt"

	"github.com/frahmantamala/epic-crm/internal/core/datamodel/client"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/contract"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/event"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Models lists the persisted records in foreign key order.
func Models() []any {
	return []any{&user.User{}, &client.Client{}, &contract.Contract{}, &event.Event{}}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Drop removes every table, dependents first.
func Drop(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop %T: %w", models[i], err)
		}
	}
	return nil
}

func Reset(db *gorm.DB) error {
	if err := Drop(db); err != nil {
		return err
	}
	return Migrate(db)
}
