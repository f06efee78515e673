package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/combustibles/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20240115_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.FuelReading{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("fuel_readings", "users")
			},
		},
		{
			ID: "20240301_create_import_jobs",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.ImportJob{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("import_jobs")
			},
		},
	})
	return m.Migrate()
}
