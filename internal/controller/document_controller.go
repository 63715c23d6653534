package controller

import (
	"errors"
	"io"

	"readsprint_backend/internal/service"
	"readsprint_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// 上传文件的大小上限（50MB）
const maxUploadSize = 50 << 20

type DocumentController struct {
	DocumentService *service.DocumentService
}

func NewDocumentController(documentService *service.DocumentService) *DocumentController {
	return &DocumentController{DocumentService: documentService}
}

// Upload godoc
// @Summary 上传 PDF 文档
// @Description 保存原始文件并逐页抽取文本，返回待分析状态的文档
// @Tags 文档
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "PDF 文件"
// @Param   title formData string true "文档标题"
// @Param   author formData string false "作者"
// @Success 201 {object} util.Response{data=model.Document} "上传成功"
// @Failure 400 {object} util.Response "文件无效"
// @Router /api/documents [post]
func (c *DocumentController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	title := ctx.PostForm("title")
	if title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
	author := ctx.PostForm("author")

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if fileHeader.Size > maxUploadSize {
		util.BadRequest(ctx, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	doc, err := c.DocumentService.Upload(ctx.Request.Context(), claims.UserID, title, author, fileHeader.Filename, data)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, doc)
}

// List godoc
// @Summary 文档列表
// @Description 按优先级与活跃度排序返回当前用户的文档
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Document}
// @Router /api/documents [get]
func (c *DocumentController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	docs, err := c.DocumentService.ListDocuments(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, docs)
}

// Get godoc
// @Summary 文档详情
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=model.Document}
// @Failure 404 {object} util.Response "文档不存在"
// @Router /api/documents/{id} [get]
func (c *DocumentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	doc, err := c.DocumentService.GetDocument(ctx.Param("id"), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, doc)
}

// Analyze godoc
// @Summary 触发文档分析
// @Description 运行完整分析流水线：逐页难度评分、结构识别与指标汇总
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=object} "分析完成"
// @Failure 404 {object} util.Response "文档不存在"
// @Router /api/documents/{id}/analyze [post]
func (c *DocumentController) Analyze(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	documentID := ctx.Param("id")

	if err := c.DocumentService.Analyze(ctx.Request.Context(), documentID, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"documentId": documentID, "status": "ready"})
}

// GetAnalysis godoc
// @Summary 页分析结果
// @Description 返回按页序排列的逐页难度分析
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=[]model.PageAnalysis}
// @Failure 409 {object} util.Response "文档尚未分析"
// @Router /api/documents/{id}/analysis [get]
func (c *DocumentController) GetAnalysis(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	analyses, err := c.DocumentService.GetAnalysis(ctx.Param("id"), claims.UserID)
	if err != nil {
		c.respondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, analyses)
}

// GetStructure godoc
// @Summary 文档结构
// @Description 返回章节轮廓与目录/附录/参考文献页
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=model.DocumentStructure}
// @Failure 409 {object} util.Response "文档尚未分析"
// @Router /api/documents/{id}/structure [get]
func (c *DocumentController) GetStructure(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	structure, err := c.DocumentService.GetStructure(ctx.Param("id"), claims.UserID)
	if err != nil {
		c.respondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, structure)
}

// GetMetrics godoc
// @Summary 文档级指标
// @Description 返回难度均值、直方图、内容分布与结构复杂度
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=model.DocumentMetricsView}
// @Failure 409 {object} util.Response "文档尚未分析"
// @Router /api/documents/{id}/metrics [get]
func (c *DocumentController) GetMetrics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	view, err := c.DocumentService.GetMetrics(ctx.Request.Context(), ctx.Param("id"), claims.UserID)
	if err != nil {
		c.respondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Estimate godoc
// @Summary 阅读时长估算
// @Description 按词数与难度估算逐页阅读秒数，必要时使用读者个性化均速
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=model.TimeEstimate}
// @Failure 409 {object} util.Response "文档尚未分析"
// @Router /api/documents/{id}/estimate [get]
func (c *DocumentController) Estimate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	estimate, err := c.DocumentService.EstimateReadingTime(ctx.Param("id"), claims.UserID)
	if err != nil {
		c.respondAnalysisError(ctx, err)
		return
	}
	util.Success(ctx, estimate)
}

// UpdatePriorityRequest 调整优先级请求
type UpdatePriorityRequest struct {
	PriorityRank int `json:"priorityRank" binding:"required,min=1,max=5"`
}

// UpdatePriority godoc
// @Summary 调整文档优先级
// @Tags 文档
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Param   body body UpdatePriorityRequest true "优先级（1 最高，5 最低）"
// @Success 200 {object} util.Response{data=object}
// @Router /api/documents/{id}/priority [put]
func (c *DocumentController) UpdatePriority(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req UpdatePriorityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.DocumentService.UpdatePriority(ctx.Param("id"), claims.UserID, req.PriorityRank); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, gin.H{"priorityRank": req.PriorityRank})
}

// Delete godoc
// @Summary 删除文档
// @Description 删除文档及其页文本、分析结果和原始文件
// @Tags 文档
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "文档 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response "文档不存在"
// @Router /api/documents/{id} [delete]
func (c *DocumentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	documentID := ctx.Param("id")

	if err := c.DocumentService.DeleteDocument(ctx.Request.Context(), documentID, claims.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": documentID})
}

func (c *DocumentController) respondAnalysisError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrDocumentNotReady):
		util.Error(ctx, 409, "文档尚未分析，请先触发分析")
	default:
		util.LogInternalError(ctx, err)
	}
}
