package member

import (
	"net/http"

	memberUseCase "github.com/anjaliconnect/api/application/usecases/member"
	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/presentation/controllers/common"
	"github.com/gin-gonic/gin"
)

type MemberController interface {
	ListMembers(ctx *gin.Context)
	SearchMembers(ctx *gin.Context)
	GetMember(ctx *gin.Context)
	UpdateMember(ctx *gin.Context)
}

type memberController struct {
	usecase memberUseCase.MemberUseCase
}

func NewMemberController(usecase memberUseCase.MemberUseCase) MemberController {
	return &memberController{
		usecase: usecase,
	}
}

func (c *memberController) ListMembers(ctx *gin.Context) {
	var query ListMembersQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	c.list(ctx, query.toFilter())
}

// SearchMembers accepts the full dynamic filter as a JSON body.
func (c *memberController) SearchMembers(ctx *gin.Context) {
	var req filter.PaginationInputWithFilter
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	c.list(ctx, req)
}

func (c *memberController) list(ctx *gin.Context, req filter.PaginationInputWithFilter) {
	page, err := c.usecase.List(ctx.Request.Context(), req)
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toPagedResponse(page))
}

func (c *memberController) GetMember(ctx *gin.Context) {
	member, err := c.usecase.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMemberResponse(member))
}

func (c *memberController) UpdateMember(ctx *gin.Context) {
	var req UpdateMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	member, err := c.usecase.Update(ctx.Request.Context(), ctx.Param("id"), memberUseCase.UpdateInput{
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Address:            req.Address,
		City:               req.City,
		State:              req.State,
		Pincode:            req.Pincode,
		DonationPreference: req.DonationPreference,
		MonthlyAmount:      req.MonthlyAmount,
		PaymentStatus:      req.PaymentStatus,
		Active:             req.Active,
	})
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toMemberResponse(member))
}
