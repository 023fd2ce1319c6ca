package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"citycare-be/middlewares"
	"citycare-be/models"
	"citycare-be/services"
	authUtils "citycare-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService is the directory surface the auth and user controllers call
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, bool, error)
	VerifyCredentials(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, principal, email string) (*models.User, error)
	List(ctx context.Context, principal, search string) ([]models.User, error)
	SetRole(ctx context.Context, principal string, id primitive.ObjectID, role models.UserRole) (*models.User, error)
	SetStatus(ctx context.Context, principal string, id primitive.ObjectID, status models.UserStatus) (*models.User, error)
}

type AuthController struct {
	svc UserService
}

func NewAuthController(svc UserService) *AuthController {
	return &AuthController{svc: svc}
}

// RegisterUser handles signup. Registering a known email is a no-op that
// returns the existing record.
func (ac *AuthController) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, created, err := ac.svc.Register(ctx, services.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		log.Println("Error registering user:", err)
		respondError(c, err)
		return
	}

	code := http.StatusCreated
	if !created {
		code = http.StatusOK
	}
	c.JSON(code, gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	})
}

// LoginUser handles user login
func (ac *AuthController) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.svc.VerifyCredentials(ctx, input.Email, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken(user.Email)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": token,
	})
}

// GetMe retrieves the authenticated user's own record
func (ac *AuthController) GetMe(c *gin.Context) {
	principal, ok := middlewares.Principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := ac.svc.Get(ctx, principal, principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
