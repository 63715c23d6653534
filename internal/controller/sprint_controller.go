package controller

import (
	"errors"
	"strconv"

	"readsprint_backend/internal/model"
	"readsprint_backend/internal/service"
	"readsprint_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SprintController struct {
	SprintService   *service.SprintService
	FeedbackService *service.FeedbackService
}

func NewSprintController(sprintService *service.SprintService, feedbackService *service.FeedbackService) *SprintController {
	return &SprintController{
		SprintService:   sprintService,
		FeedbackService: feedbackService,
	}
}

// Plan godoc
// @Summary 生成冲刺推荐
// @Description 按多种策略生成候选并返回最优推荐；没有可读内容时 best 为空
// @Tags 冲刺
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.PlanRequest true "规划参数"
// @Success 200 {object} util.Response{data=service.PlanResult}
// @Router /api/sprints/plan [post]
func (c *SprintController) Plan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.PlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SprintService.Plan(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Commit godoc
// @Summary 提交候选为冲刺
// @Tags 冲刺
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body model.SprintCandidate true "要提交的候选"
// @Success 201 {object} util.Response{data=model.Sprint}
// @Failure 400 {object} util.Response "页区间无效"
// @Router /api/sprints [post]
func (c *SprintController) Commit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var candidate model.SprintCandidate
	if err := ctx.ShouldBindJSON(&candidate); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sprint, err := c.SprintService.Commit(claims.UserID, candidate)
	if err != nil {
		c.respondSprintError(ctx, err)
		return
	}
	util.Created(ctx, sprint)
}

// CreateManualRequest 手动建冲刺请求
type CreateManualRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	StartPage  int    `json:"startPage" binding:"required,min=1"`
	EndPage    int    `json:"endPage" binding:"required,min=1"`
}

// CreateManual godoc
// @Summary 手动创建冲刺
// @Description 按指定页区间建冲刺，区间越界时直接拒绝
// @Tags 冲刺
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateManualRequest true "页区间"
// @Success 201 {object} util.Response{data=model.Sprint}
// @Failure 400 {object} util.Response "页区间无效"
// @Router /api/sprints/manual [post]
func (c *SprintController) CreateManual(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req CreateManualRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sprint, err := c.SprintService.CreateManual(claims.UserID, req.DocumentID, req.StartPage, req.EndPage)
	if err != nil {
		c.respondSprintError(ctx, err)
		return
	}
	util.Created(ctx, sprint)
}

// Start godoc
// @Summary 开始冲刺
// @Tags 冲刺
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "冲刺 ID"
// @Success 200 {object} util.Response{data=model.Sprint}
// @Failure 409 {object} util.Response "冲刺状态不允许该操作"
// @Router /api/sprints/{id}/start [post]
func (c *SprintController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sprintID := c.parseSprintID(ctx)
	if sprintID == 0 {
		return
	}

	sprint, err := c.SprintService.Start(claims.UserID, sprintID)
	if err != nil {
		c.respondSprintError(ctx, err)
		return
	}
	util.Success(ctx, sprint)
}

// Complete godoc
// @Summary 完成冲刺
// @Description 提交实际用时与完成页数，返回表现评估和更新后的画像
// @Tags 冲刺
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "冲刺 ID"
// @Param   body body service.SprintOutcome true "完成情况"
// @Success 200 {object} util.Response{data=service.FeedbackResult}
// @Failure 409 {object} util.Response "冲刺未在进行中"
// @Router /api/sprints/{id}/complete [post]
func (c *SprintController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sprintID := c.parseSprintID(ctx)
	if sprintID == 0 {
		return
	}

	var outcome service.SprintOutcome
	if err := ctx.ShouldBindJSON(&outcome); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.FeedbackService.Complete(claims.UserID, sprintID, outcome)
	if err != nil {
		c.respondSprintError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Abandon godoc
// @Summary 放弃冲刺
// @Tags 冲刺
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "冲刺 ID"
// @Success 200 {object} util.Response{data=model.Sprint}
// @Router /api/sprints/{id}/abandon [post]
func (c *SprintController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	sprintID := c.parseSprintID(ctx)
	if sprintID == 0 {
		return
	}

	sprint, err := c.SprintService.Abandon(claims.UserID, sprintID)
	if err != nil {
		c.respondSprintError(ctx, err)
		return
	}
	util.Success(ctx, sprint)
}

// History godoc
// @Summary 冲刺历史
// @Tags 冲刺
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码，默认 1"
// @Param   limit query int false "每页条数，默认 20"
// @Success 200 {object} util.Response{data=object}
// @Router /api/sprints [get]
func (c *SprintController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	sprints, total, err := c.SprintService.History(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"sprints": sprints,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Active godoc
// @Summary 当前进行中的冲刺
// @Tags 冲刺
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Sprint}
// @Failure 404 {object} util.Response "没有进行中的冲刺"
// @Router /api/sprints/active [get]
func (c *SprintController) Active(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	sprint, err := c.SprintService.Active(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, sprint)
}

func (c *SprintController) parseSprintID(ctx *gin.Context) uint {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid sprint id")
		return 0
	}
	return uint(id)
}

func (c *SprintController) respondSprintError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrInvalidPageRange):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrInvalidQualityScore):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrSprintNotActive):
		util.Error(ctx, 409, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
