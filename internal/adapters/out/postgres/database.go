package postgres

import (
	"fmt"

	"matching/internal/adapters/out/postgres/courierrepo"
	"matching/internal/adapters/out/postgres/queuerepo"

	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL. GORM's own statement logging is silenced; the
// service logs at the use case level. Driver errors are translated to GORM's
// portable errors such as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the users_queue and couriers tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&queuerepo.EntryDTO{}, &courierrepo.CourierDTO{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
