package db

import (
	"Gin_postgres_redis_inventory_tool/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	// 明细到单头只留逻辑外键：归档/清库不被约束牵制
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Item{},
		&models.Borrower{},
		&models.Loan{},
		&models.LoanItem{},
		&models.InvoiceCounter{},
		&models.ActivityLog{},
	); err != nil {
		return err
	}

	// 同一条码最多一条“未归还”明细
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_barcode
	  ON %s (barcode)
	  WHERE status = 'on_loan';
	`, models.LoanItemTable, models.LoanItemTable)).Error; err != nil {
		return err
	}

	// 查当前在借更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_barcode_createdat
	  ON %s (barcode, created_at DESC)
	  WHERE status = 'on_loan';
	`, models.LoanItemTable, models.LoanItemTable)).Error; err != nil {
		return err
	}

	return nil
}
