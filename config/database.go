package config

import (
	"fmt"
	"log"

	"github.com/datescare/amora-be/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(cfg Config) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBSSL)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	DB = database

	if err := AutoMigrate(DB); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated")
}

// AutoMigrate creates or updates the schema for every model. Shared with the
// test harness, which runs it against an in-memory database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Like{},
		&models.Match{},
		&models.CreditAccount{},
		&models.CreditTransaction{},
		&models.CreditPackage{},
		&models.PackagePurchase{},
		&models.MailThread{},
		&models.MailMessage{},
		&models.TherapistSchedule{},
		&models.ClosedDate{},
		&models.Booking{},
		&models.CallSession{},
		&models.BillingTick{},
		&models.CreditAccessRequest{},
		&models.CreditResettlementRequest{},
	)
}
