package reminder

import (
	"net/http"

	reminderUseCase "github.com/anjaliconnect/api/application/usecases/reminder"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/presentation/controllers/common"
	"github.com/anjaliconnect/api/presentation/middlewares"
	"github.com/gin-gonic/gin"
)

type ReminderController interface {
	SendManual(ctx *gin.Context)
	ListAuditLogs(ctx *gin.Context)
}

type reminderController struct {
	usecase reminderUseCase.ReminderUseCase
}

func NewReminderController(usecase reminderUseCase.ReminderUseCase) ReminderController {
	return &reminderController{
		usecase: usecase,
	}
}

// SendManual reminds the listed members. Unknown ids are skipped and the
// response counts only the recipients actually attempted.
func (c *reminderController) SendManual(ctx *gin.Context) {
	var req ManualReminderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	summary, err := c.usecase.DispatchManual(ctx.Request.Context(), reminderUseCase.ManualInput{
		Caller:    middlewares.GetCallerFromContext(ctx),
		MemberIDs: req.MemberIDs,
	})
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, ManualReminderResponse{
		BatchID:         summary.BatchID,
		DispatchedCount: summary.Dispatched,
	})
}

func (c *reminderController) ListAuditLogs(ctx *gin.Context) {
	var query AuditLogQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		common.WriteBindError(ctx, err)
		return
	}

	q := repository.AuditLogQuery{
		MemberID: query.MemberID,
		BatchID:  query.BatchID,
		Limit:    query.Limit,
	}
	if query.Type != "" {
		dispatchType, err := model.ParseDispatchType(query.Type)
		if err != nil {
			common.WriteBindError(ctx, err)
			return
		}
		q.Type = dispatchType
	}

	entries, err := c.usecase.AuditTrail(ctx.Request.Context(), q)
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	resp := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, toAuditLogResponse(entry))
	}
	ctx.JSON(http.StatusOK, resp)
}
