package application

import (
	"net/http"

	applicationUseCase "github.com/anjaliconnect/api/application/usecases/application"
	"github.com/anjaliconnect/api/presentation/controllers/common"
	"github.com/anjaliconnect/api/presentation/middlewares"
	"github.com/gin-gonic/gin"
)

type ApplicationController interface {
	Submit(ctx *gin.Context)
	ListPending(ctx *gin.Context)
	Approve(ctx *gin.Context)
	Reject(ctx *gin.Context)
}

type applicationController struct {
	usecase applicationUseCase.ApplicationUseCase
}

func NewApplicationController(usecase applicationUseCase.ApplicationUseCase) ApplicationController {
	return &applicationController{
		usecase: usecase,
	}
}

func (c *applicationController) Submit(ctx *gin.Context) {
	var req SubmitApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	member, err := c.usecase.Submit(ctx.Request.Context(), applicationUseCase.SubmitInput{
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		City:               req.City,
		State:              req.State,
		Pincode:            req.Pincode,
		DonationPreference: req.DonationPreference,
		MonthlyAmount:      req.MonthlyAmount,
		TermsAccepted:      req.TermsAccepted,
	})
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toApplicationResponse(member))
}

func (c *applicationController) ListPending(ctx *gin.Context) {
	members, err := c.usecase.ListPending(ctx.Request.Context())
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	resp := make([]ApplicationResponse, 0, len(members))
	for i := range members {
		resp = append(resp, toApplicationResponse(&members[i]))
	}
	ctx.JSON(http.StatusOK, resp)
}

func (c *applicationController) Approve(ctx *gin.Context) {
	member, err := c.usecase.Approve(ctx.Request.Context(), ctx.Param("id"), middlewares.GetCallerFromContext(ctx))
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toApplicationResponse(member))
}

func (c *applicationController) Reject(ctx *gin.Context) {
	var req RejectApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	member, err := c.usecase.Reject(ctx.Request.Context(), ctx.Param("id"), middlewares.GetCallerFromContext(ctx), req.Reason)
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toApplicationResponse(member))
}
