package db

import (
	"fmt"
	"os"

	"lasalleserve/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB(log *zap.Logger) *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("migrate models", zap.Error(err))
	}
	log.Info("database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.AssetCondition{},
		&models.StockLoss{},
		&models.Loan{},
		&models.LoanItem{},
		&models.DamageReport{},
	); err != nil {
		return err
	}

	// One bucket per (asset, condition).
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_asset_condition
	  ON %s (asset_id, condition);
	`, models.AssetConditionTable, models.AssetConditionTable)).Error; err != nil {
		return err
	}

	// Conflict checks scan live loans by room and window.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_live_room_window
	  ON %s (room_id, start_date, end_date)
	  WHERE status NOT IN ('rejected', 'completed');
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// The sweeper's predicate.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_approved_end_date
	  ON %s (end_date)
	  WHERE status = 'approved' AND returned_at IS NULL;
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	return nil
}
