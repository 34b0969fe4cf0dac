package routes

import (
	"github.com/anjaliconnect/api/presentation/controllers/member"
	"github.com/gin-gonic/gin"
)

func MemberRoutes(admin *gin.RouterGroup, controller member.MemberController) {
	members := admin.Group("/members")
	{
		members.GET("", controller.ListMembers)
		members.POST("/search", controller.SearchMembers)
		members.GET("/:id", controller.GetMember)
		members.PATCH("/:id", controller.UpdateMember)
	}
}
