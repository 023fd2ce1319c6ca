package routes

import (
	"citycare-be/controllers"
	"citycare-be/middlewares"

	"github.com/gin-gonic/gin"
)

// StaffRoutes sets up the staff registry routes
func StaffRoutes(r *gin.Engine, sc *controllers.StaffController) {
	staff := r.Group("/api/staffs", middlewares.AuthMiddleware())
	{
		staff.GET("", sc.GetAllStaff)
		staff.POST("", sc.CreateStaff)
		staff.PATCH("/:id", sc.UpdateStaff)
		staff.DELETE("/:id", sc.DeleteStaff)
	}
}
