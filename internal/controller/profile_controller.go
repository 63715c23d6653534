package controller

import (
	"readsprint_backend/internal/service"
	"readsprint_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// GetProfile godoc
// @Summary 读者画像
// @Description 返回阅读速度、连续天数、经验值与等级，首次访问自动创建
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.ReaderProfile}
// @Router /api/profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	profile, err := c.ProfileService.GetProfile(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UpdatePreferencesRequest 偏好设置请求
type UpdatePreferencesRequest struct {
	PreferredSessionMinutes int `json:"preferredSessionMinutes" binding:"required,min=5,max=240"`
}

// UpdatePreferences godoc
// @Summary 更新阅读偏好
// @Tags 画像
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body UpdatePreferencesRequest true "偏好会话时长"
// @Success 200 {object} util.Response{data=model.ReaderProfile}
// @Router /api/profile/preferences [put]
func (c *ProfileController) UpdatePreferences(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req UpdatePreferencesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpdatePreferences(claims.UserID, req.PreferredSessionMinutes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, profile)
}

// GetDashboard godoc
// @Summary 读者首页
// @Description 聚合画像、进行中冲刺、近期记录、文档列表与考试目标
// @Tags 画像
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *ProfileController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	dashboard, err := c.ProfileService.GetDashboard(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
