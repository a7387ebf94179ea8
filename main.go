package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/config"
	"github.com/amanymoammer22/backend/email"
	"github.com/amanymoammer22/backend/models"
	"github.com/amanymoammer22/backend/routes"
)

func main() {
	log.Println("Starting application...")

	// Load environment variables
	_ = godotenv.Load()
	cfg := config.Load()

	// Init DB
	db := initDatabase(cfg)

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Subscriber{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Serve uploaded images
	r.Static("/uploads", cfg.UploadsDir)

	// Setup routes
	mailer := email.NewSMTPSender(cfg)
	routes.SetupRoutes(r, db, mailer)

	// Start server
	log.Printf("Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	return db
}
