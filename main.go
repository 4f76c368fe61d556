package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/datescare/amora-be/config"
	"github.com/datescare/amora-be/models"
	"github.com/datescare/amora-be/routes"
	"github.com/datescare/amora-be/services"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Connect to database and run migrations
	config.ConnectDatabase(cfg)

	sqlDB, err := config.GetSQLDB()
	if err != nil {
		log.Fatal("Failed to get database handle:", err)
	}
	if err := config.RunMigrations(sqlDB); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create default admin user if it doesn't exist
	createDefaultAdmin(cfg)

	// Live events hub
	config.InitializeWebSocketHub()

	// Optional infrastructure: rate limiting and notifications
	config.ConnectRedis(cfg)

	notifier, err := services.NewNotifier(cfg.AMQPURL, cfg.NotificationExchange, logger)
	if err != nil {
		log.Printf("Notification broker unavailable, events will be dropped: %v", err)
	}
	services.DefaultNotifier = notifier
	defer notifier.Close()

	// Per-minute chat billing shares one service instance between the routes
	// and the stale-session sweep
	chatService := services.NewChatBillingService()

	scheduler := services.NewScheduler(services.NewBookingService(), chatService, logger, cfg)
	scheduler.Start()
	defer scheduler.Stop()

	r := routes.SetupRoutes(chatService)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func createDefaultAdmin(cfg config.Config) {
	var count int64
	config.DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		authService := services.NewAuthService()
		adminEmail := cfg.AdminEmail
		adminPassword := cfg.AdminPassword

		if adminEmail == "" {
			adminEmail = "admin@dates.care"
		}
		if adminPassword == "" {
			adminPassword = "admin123"
		}

		_, err := authService.CreateUser(adminEmail, adminPassword, "Administrator", models.RoleAdmin)
		if err != nil {
			log.Printf("Failed to create default admin: %v", err)
		} else {
			log.Printf("Default admin created with email: %s", adminEmail)
		}
	}
}
