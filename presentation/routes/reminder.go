package routes

import (
	"github.com/anjaliconnect/api/presentation/controllers/reminder"
	"github.com/gin-gonic/gin"
)

func ReminderRoutes(admin *gin.RouterGroup, controller reminder.ReminderController) {
	admin.POST("/reminders", controller.SendManual)
	admin.GET("/audit-logs", controller.ListAuditLogs)
}
