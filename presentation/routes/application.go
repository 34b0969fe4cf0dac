package routes

import (
	"github.com/anjaliconnect/api/presentation/controllers/application"
	"github.com/gin-gonic/gin"
)

func ApplicationRoutes(public *gin.RouterGroup, admin *gin.RouterGroup, controller application.ApplicationController) {
	public.POST("/applications", controller.Submit)

	applications := admin.Group("/applications")
	{
		applications.GET("/pending", controller.ListPending)
		applications.POST("/:id/approve", controller.Approve)
		applications.POST("/:id/reject", controller.Reject)
	}
}
