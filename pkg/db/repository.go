// pkg/db/repository.go
package db

import (
	"strconv"

	"github.com/smith3v/study-scheduler/pkg/config"
	"github.com/smith3v/study-scheduler/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Export DB variable
var DB *gorm.DB

func InitDB(cfg config.DatabaseConfig) error {
	var err error
	dsn := "host=" + cfg.Host +
		" user=" + cfg.User +
		" password=" + cfg.Password +
		" dbname=" + cfg.DBName +
		" port=" + strconv.Itoa(cfg.Port) +
		" sslmode=" + cfg.SSLMode
	gormLogger, gormErr := newGormLogger(config.AppConfig.Logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", config.AppConfig.Logging.GormLevel, "error", gormErr)
	}
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		// Driver errors become gorm sentinels, e.g. unique violations turn
		// into gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	if err := Migrate(DB); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return err
	}
	return nil
}

// Migrate is shared between InitDB and the sqlite test helper so both paths
// create the same schema.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Deck{},
		&VocabCard{},
		&CultureQuestion{},
		&CardProgress{},
		&ReviewLog{},
		&DeckProgress{},
		&CreditAward{},
	)
}
