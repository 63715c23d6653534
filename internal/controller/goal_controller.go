package controller

import (
	"errors"
	"strconv"
	"time"

	"readsprint_backend/internal/service"
	"readsprint_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// CreateGoalRequest 建立考试目标请求
type CreateGoalRequest struct {
	DocumentID string `json:"documentId" binding:"required"`
	Title      string `json:"title" binding:"required"`
	ExamDate   string `json:"examDate" binding:"required"` // YYYY-MM-DD
}

// Create godoc
// @Summary 建立考试目标
// @Description 在考试日期前读完指定文档
// @Tags 目标
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateGoalRequest true "目标信息"
// @Success 201 {object} util.Response{data=model.ExamGoal}
// @Failure 400 {object} util.Response "日期无效"
// @Router /api/goals [post]
func (c *GoalController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	examDate, err := time.ParseInLocation(util.DateFormat, req.ExamDate, time.Local)
	if err != nil {
		util.BadRequest(ctx, "examDate must be in YYYY-MM-DD format")
		return
	}

	goal, err := c.GoalService.Create(claims.UserID, req.DocumentID, req.Title, examDate)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidExamDate):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, goal)
}

// List godoc
// @Summary 目标列表
// @Description 返回全部目标及其最新进度判定
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.GoalProgress}
// @Router /api/goals [get]
func (c *GoalController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	goals, err := c.GoalService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, goals)
}

// Get godoc
// @Summary 目标进度
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "目标 ID"
// @Success 200 {object} util.Response{data=service.GoalProgress}
// @Failure 404 {object} util.Response "目标不存在"
// @Router /api/goals/{id} [get]
func (c *GoalController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	goalID := c.parseGoalID(ctx)
	if goalID == 0 {
		return
	}

	progress, err := c.GoalService.Get(claims.UserID, goalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, progress)
}

// Delete godoc
// @Summary 删除目标
// @Tags 目标
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "目标 ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/goals/{id} [delete]
func (c *GoalController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	goalID := c.parseGoalID(ctx)
	if goalID == 0 {
		return
	}

	if err := c.GoalService.Delete(claims.UserID, goalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": goalID})
}

func (c *GoalController) parseGoalID(ctx *gin.Context) uint {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid goal id")
		return 0
	}
	return uint(id)
}
