package controller

import (
	"errors"

	"readsprint_backend/internal/service"
	"readsprint_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// MarkPagesRequest 标记已读页请求
type MarkPagesRequest struct {
	StartPage int `json:"startPage" binding:"required,min=1"`
	EndPage   int `json:"endPage" binding:"required,min=1"`
}

// MarkPages godoc
// @Summary 标记已读页
// @Description 冲刺之外的手动进度维护
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Param   body body MarkPagesRequest true "页区间"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "页区间无效"
// @Router /api/documents/{id}/progress [post]
func (c *ProgressController) MarkPages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req MarkPagesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.ProgressService.MarkPages(claims.UserID, ctx.Param("id"), req.StartPage, req.EndPage)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidPageRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"startPage": req.StartPage, "endPage": req.EndPage})
}

// GetProgress godoc
// @Summary 阅读进度
// @Description 返回已读页列表、完成百分比与下一个未读页
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=service.ReadingProgress}
// @Router /api/documents/{id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	progress, err := c.ProgressService.GetProgress(claims.UserID, ctx.Param("id"))
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
