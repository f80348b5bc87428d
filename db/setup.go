package db

import (
	"github.com/fracas-dev/fracas/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

// MigrateDatabase creates missing tables. Order matters: every foreign key
// points at an earlier table (teams carry no declared constraint on lead_id,
// which breaks the users<->teams cycle).
func MigrateDatabase() error {
	models := []interface{}{
		&models.Team{},
		&models.User{},
		&models.Subsystem{},
		&models.Record{},
		&models.Comment{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
