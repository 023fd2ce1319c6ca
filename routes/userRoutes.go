package routes

import (
	"citycare-be/controllers"
	"citycare-be/middlewares"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the admin-facing user directory routes
func UserRoutes(r *gin.Engine, uc *controllers.UserController) {
	users := r.Group("/api/users", middlewares.AuthMiddleware())
	{
		users.GET("", uc.GetAllUsers)
		users.PATCH("/:id/role", uc.SetUserRole)
		users.PATCH("/:id/status", uc.SetUserStatus)
	}
}
