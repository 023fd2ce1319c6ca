package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"citycare-be/config"
	"citycare-be/controllers"
	"citycare-be/models"
	"citycare-be/repositories"
	"citycare-be/routes"
	"citycare-be/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	issueCollection := config.GetCollection("issues")
	userCollection := config.GetCollection("users")
	staffCollection := config.GetCollection("staffs")
	timelineCollection := config.GetCollection("timeline")
	paymentCollection := config.GetCollection("payments")

	if err := models.EnsureIssueIndexes(issueCollection); err != nil {
		log.Fatalf("Failed to ensure issue indexes: %v", err)
	}
	if err := models.EnsureUserIndexes(userCollection); err != nil {
		log.Fatalf("Failed to ensure user indexes: %v", err)
	}

	issueRepo := repositories.NewIssueRepository(issueCollection)
	userRepo := repositories.NewUserRepository(userCollection)
	staffRepo := repositories.NewStaffRepository(staffCollection)
	timelineRepo := repositories.NewTimelineRepository(timelineCollection)
	paymentRepo := repositories.NewPaymentRepository(paymentCollection)

	policy := services.NewPolicy(userRepo)
	issueService := services.NewIssueService(issueRepo, staffRepo, timelineRepo, paymentRepo, policy)
	issueService.StrictTransitions = os.Getenv("STRICT_TRANSITIONS") == "true"
	userService := services.NewUserService(userRepo, policy)
	staffService := services.NewStaffService(staffRepo, policy)

	// Idempotent admin seed from configuration
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := userService.SeedAdmin(ctx, adminEmail); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
		cancel()
		log.Printf("Admin account ensured for %s", adminEmail)
	}

	createLimit := 10
	if v := os.Getenv("ISSUE_CREATE_DAILY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			createLimit = n
		}
	}

	r := gin.Default()
	r.Use(cors.Default())

	authController := controllers.NewAuthController(userService)
	userController := controllers.NewUserController(userService)
	issueController := controllers.NewIssueController(issueService)
	staffController := controllers.NewStaffController(staffService)

	routes.AuthRoutes(r, authController)
	routes.UserRoutes(r, userController)
	routes.IssueRoutes(r, issueController, createLimit)
	routes.StaffRoutes(r, staffController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
