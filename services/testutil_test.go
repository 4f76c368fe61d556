package services

import (
	"testing"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB swaps config.DB for an in-memory database for the duration of
// the test. A single connection keeps every query on the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	previous := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = previous
		sqlDB.Close()
	})

	return db
}

func createTestUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()

	user := models.User{
		Email:    email,
		Password: "hashed",
		Name:     "Test User",
		Role:     role,
		IsActive: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", email, err)
	}
	return &user
}

func accountBalance(t *testing.T, userID uint) *models.CreditAccount {
	t.Helper()

	var account models.CreditAccount
	if err := config.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		t.Fatalf("failed to load account for user %d: %v", userID, err)
	}
	return &account
}

func setBalance(t *testing.T, userID uint, comp, purch, kobos int) {
	t.Helper()

	svc := NewCreditService()
	if _, err := svc.InitializeAccount(userID); err != nil {
		t.Fatalf("failed to initialize account: %v", err)
	}
	err := config.DB.Model(&models.CreditAccount{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"complimentary_credits": comp,
			"purchased_credits":     purch,
			"kobos":                 kobos,
		}).Error
	if err != nil {
		t.Fatalf("failed to set balance: %v", err)
	}
}
