package database

import (
	"seratus-studio/internal/domain/catalog"
	"seratus-studio/internal/domain/orders"
	"seratus-studio/internal/domain/site"
	"seratus-studio/internal/domain/users"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(dsn string) {
	db, err := Connect(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	DB = db
	log.Info().Msg("Connected and migrated successfully")
}

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
}

// indexes AutoMigrate cannot express.
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_backgrounds_single_active ON backgrounds ((is_active)) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN (to_tsvector('simple', title || ' ' || description))`,
	`CREATE INDEX IF NOT EXISTS idx_products_tags ON products USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS idx_artworks_search ON artworks USING GIN (to_tsvector('simple', title || ' ' || description))`,
	`CREATE INDEX IF NOT EXISTS idx_artworks_tags ON artworks USING GIN (tags)`,
}

func Migrate(db *gorm.DB) error {
	// required for gen_random_uuid()
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&users.User{},

		// catalog
		&catalog.Product{},
		&catalog.Artwork{},
		&catalog.CreativeProcessImage{},

		&orders.Order{},

		// site
		&site.Background{},
		&site.Setting{},
	); err != nil {
		return err
	}

	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
