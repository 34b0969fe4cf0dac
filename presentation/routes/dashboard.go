package routes

import (
	"github.com/anjaliconnect/api/presentation/controllers/dashboard"
	"github.com/gin-gonic/gin"
)

func DashboardRoutes(admin *gin.RouterGroup, controller dashboard.DashboardController) {
	admin.GET("/dashboard", controller.Overview)
}
