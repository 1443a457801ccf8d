package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/martlaane/organizer-backend/config"
	"github.com/martlaane/organizer-backend/database"
	"github.com/martlaane/organizer-backend/internal/auditlog"
	"github.com/martlaane/organizer-backend/internal/auth"
	"github.com/martlaane/organizer-backend/internal/calendar"
	"github.com/martlaane/organizer-backend/internal/challenge"
	"github.com/martlaane/organizer-backend/internal/food"
	"github.com/martlaane/organizer-backend/internal/todo"
	"github.com/martlaane/organizer-backend/routes"
	"github.com/martlaane/organizer-backend/utils"
)

// @title Organizer Backend API
// @version 1.0
// @description Personal organizer: recurring calendar, todos, challenges and meal planning.
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&auditlog.AuditLog{},
		&calendar.Event{},
		&todo.Todo{},
		&challenge.Challenge{},
		&food.Food{},
		&food.MealPlan{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("✅ Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
