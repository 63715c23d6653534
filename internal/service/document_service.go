package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"readsprint_backend/internal/config"
	"readsprint_backend/internal/model"
	"readsprint_backend/internal/repository"
	"readsprint_backend/internal/util"
	"readsprint_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DocumentService 文档的导入、分析流水线与结果查询
type DocumentService struct {
	docRepo      *repository.DocumentRepository
	pageRepo     *repository.DocumentPageRepository
	analysisRepo *repository.AnalysisRepository
	profileRepo  *repository.ReaderProfileRepository
	readability  *ReadabilityService
	structure    *StructureService
	estimator    *TimeEstimatorService
	storage      StorageService
	events       *EventService
	redis        *redis.Client
	logger       *zap.Logger
	cfg          config.AnalysisConfig
}

func NewDocumentService(
	docRepo *repository.DocumentRepository,
	pageRepo *repository.DocumentPageRepository,
	analysisRepo *repository.AnalysisRepository,
	profileRepo *repository.ReaderProfileRepository,
	readability *ReadabilityService,
	structure *StructureService,
	estimator *TimeEstimatorService,
	storage StorageService,
	events *EventService,
	redisClient *redis.Client,
	logger *zap.Logger,
	cfg config.AnalysisConfig,
) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		pageRepo:     pageRepo,
		analysisRepo: analysisRepo,
		profileRepo:  profileRepo,
		readability:  readability,
		structure:    structure,
		estimator:    estimator,
		storage:      storage,
		events:       events,
		redis:        redisClient,
		logger:       logger,
		cfg:          cfg,
	}
}

// Upload 保存 PDF 原始文件、逐页抽取文本并落库，返回 pending 状态的文档
// 单页抽取失败不阻断导入，该页标记 ExtractFailed 留待分析阶段兜底
func (s *DocumentService) Upload(ctx context.Context, ownerID uint, title, author, fileName string, data []byte) (*model.Document, error) {
	mimeType, err := util.DetectMimeType(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if !util.IsPDF(mimeType) {
		return nil, fmt.Errorf("invalid file type: %s", mimeType)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w", err)
	}
	totalPages := reader.NumPage()
	if totalPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	doc := &model.Document{
		OwnerID:      ownerID,
		Title:        title,
		Author:       author,
		FileName:     fileName,
		FileSize:     int64(len(data)),
		TotalPages:   totalPages,
		Status:       model.DocumentPending,
		PriorityRank: 3,
		LastActivity: time.Now(),
	}
	doc.ID = model.GenerateUUID()

	objectName := fmt.Sprintf("%s/%s", doc.ID, fileName)
	storagePath, err := s.storage.Save(ctx, objectName, bytes.NewReader(data), int64(len(data)), util.MimePDF)
	if err != nil {
		return nil, fmt.Errorf("save file: %w", err)
	}
	doc.StoragePath = storagePath

	pages := make([]model.DocumentPage, 0, totalPages)
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= totalPages; i++ {
		page := model.DocumentPage{DocumentID: doc.ID, PageNumber: i}
		p := reader.Page(i)
		if p.V.IsNull() {
			page.ExtractFailed = true
		} else if text, err := p.GetPlainText(fonts); err != nil {
			s.logger.Warn("页面文本抽取失败",
				zap.String("document_id", doc.ID),
				zap.Int("page", i),
				zap.Error(err))
			page.ExtractFailed = true
		} else {
			page.Text = text
		}
		pages = append(pages, page)
	}

	if err := s.docRepo.Create(doc); err != nil {
		s.storage.Remove(ctx, storagePath)
		return nil, err
	}
	if err := s.pageRepo.CreateBatch(pages); err != nil {
		return nil, err
	}

	s.logger.Info("文档导入完成",
		zap.String("document_id", doc.ID),
		zap.Int("total_pages", totalPages))
	return doc, nil
}

// Analyze 运行完整分析流水线并持久化结果
// 分批执行，批内并行、批间让出；ctx 取消时不再开启下一批并恢复文档状态
func (s *DocumentService) Analyze(ctx context.Context, documentID string, ownerID uint) error {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, ownerID)
	if err != nil {
		return err
	}
	if err := s.docRepo.UpdateStatus(doc.ID, model.DocumentAnalyzing); err != nil {
		return err
	}

	start := time.Now()
	analyses, err := s.analyzePages(ctx, doc)
	if err != nil {
		s.docRepo.UpdateStatus(doc.ID, model.DocumentFailed)
		return err
	}

	chapters, sections, structure := s.structure.BuildStructure(doc.ID, analyses, doc.TotalPages)
	metrics, err := s.aggregate(doc.ID, analyses, structure)
	if err != nil {
		s.docRepo.UpdateStatus(doc.ID, model.DocumentFailed)
		return err
	}

	if err := s.analysisRepo.ReplaceForDocument(doc.ID, analyses, chapters, sections, metrics); err != nil {
		s.docRepo.UpdateStatus(doc.ID, model.DocumentFailed)
		return err
	}
	if err := s.docRepo.UpdateStatus(doc.ID, model.DocumentReady); err != nil {
		return err
	}
	s.invalidateMetricsCache(ctx, doc.ID)

	elapsed := time.Since(start)
	monitoring.DocumentAnalysisDuration.Observe(elapsed.Seconds())
	s.logger.Info("文档分析完成",
		zap.String("document_id", doc.ID),
		zap.Int("pages", len(analyses)),
		zap.Duration("elapsed", elapsed))

	s.events.Publish("document.analyzed", map[string]interface{}{
		"documentId": doc.ID,
		"ownerId":    doc.OwnerID,
		"pages":      len(analyses),
		"analyzedAt": time.Now().Format(time.RFC3339),
	})
	return nil
}

// analyzePages 按页序返回全部页分析；空文本或抽取失败的页使用兜底分析
func (s *DocumentService) analyzePages(ctx context.Context, doc *model.Document) ([]model.PageAnalysis, error) {
	analyses := make([]model.PageAnalysis, doc.TotalPages)

	for batchStart := 1; batchStart <= doc.TotalPages; batchStart += s.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batchEnd := batchStart + s.cfg.BatchSize - 1
		if batchEnd > doc.TotalPages {
			batchEnd = doc.TotalPages
		}

		pageCh := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < s.cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pageNum := range pageCh {
					analyses[pageNum-1] = s.analyzeOne(doc.ID, pageNum)
				}
			}()
		}
		for pageNum := batchStart; pageNum <= batchEnd; pageNum++ {
			pageCh <- pageNum
		}
		close(pageCh)
		wg.Wait()

		if batchEnd < doc.TotalPages && s.cfg.BatchPause > 0 {
			select {
			case <-time.After(s.cfg.BatchPause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return analyses, nil
}

func (s *DocumentService) analyzeOne(documentID string, pageNumber int) model.PageAnalysis {
	text, err := s.pageRepo.GetPageText(documentID, pageNumber)
	if err != nil {
		if err != repository.ErrPageExtractFailed {
			s.logger.Warn("读取页文本失败，使用兜底分析",
				zap.String("document_id", documentID),
				zap.Int("page", pageNumber),
				zap.Error(err))
		}
		monitoring.PagesAnalyzed.WithLabelValues("fallback").Inc()
		return FallbackAnalysis(documentID, pageNumber)
	}

	analysis := s.readability.AnalyzePage(documentID, pageNumber, text)
	if analysis.Fallback {
		monitoring.PagesAnalyzed.WithLabelValues("fallback").Inc()
		return analysis
	}

	s.structure.DetectPage(&analysis, text)
	monitoring.PagesAnalyzed.WithLabelValues("analyzed").Inc()
	return analysis
}

// aggregate 把页分析序列折叠为文档级指标
// 均值只统计字数非零的页，直方图与内容分布的计数和等于有效页数
func (s *DocumentService) aggregate(documentID string, analyses []model.PageAnalysis, structure model.DocumentStructure) (*model.DocumentMetrics, error) {
	var (
		totalWords    int
		difficultySum float64
		validPages    int
		histogram     [5]int
		contentDist   = make(map[model.ContentType]int)
	)

	for _, a := range analyses {
		if a.WordCount == 0 {
			continue
		}
		validPages++
		totalWords += a.WordCount
		difficultySum += a.DifficultyScore
		if a.DifficultyLevel >= 1 && a.DifficultyLevel <= 5 {
			histogram[a.DifficultyLevel-1]++
		}
		contentDist[a.ContentType]++
	}

	metrics := &model.DocumentMetrics{
		DocumentID:     documentID,
		TotalWordCount: totalWords,
		ValidPageCount: validPages,
		ChapterCount:   len(structure.Chapters),
		SectionCount:   len(structure.Sections),
	}
	if validPages > 0 {
		metrics.AvgDifficulty = difficultySum / float64(validPages)
		metrics.AvgWordsPerPage = float64(totalWords) / float64(validPages)
	}
	metrics.StructuralComplexity = structuralComplexity(len(structure.Chapters), len(structure.Sections), len(analyses), structure)

	if err := encodeJSONColumns(metrics, histogram, contentDist, structure); err != nil {
		return nil, err
	}
	return metrics, nil
}

func encodeJSONColumns(metrics *model.DocumentMetrics, histogram [5]int, contentDist map[model.ContentType]int, structure model.DocumentStructure) error {
	cols := []struct {
		target *string
		value  interface{}
	}{
		{&metrics.DifficultyHistogram, histogram},
		{&metrics.ContentTypeDist, contentDist},
		{&metrics.TOCPages, structure.TOCPages},
		{&metrics.AppendixPages, structure.AppendixPages},
		{&metrics.BibliographyPages, structure.BibliographyPages},
	}
	for _, c := range cols {
		encoded, err := json.Marshal(c.value)
		if err != nil {
			return err
		}
		*c.target = string(encoded)
	}
	return nil
}

// structuralComplexity 章数、节密度与参考材料的加权得分，分五档
func structuralComplexity(chapterCount, sectionCount, totalPages int, structure model.DocumentStructure) model.StructuralComplexity {
	var sectionDensity float64
	if totalPages > 0 {
		sectionDensity = float64(sectionCount) / float64(totalPages)
	}

	refKinds := 0
	if len(structure.TOCPages) > 0 {
		refKinds++
	}
	if len(structure.AppendixPages) > 0 {
		refKinds++
	}
	if len(structure.BibliographyPages) > 0 {
		refKinds++
	}

	score := float64(chapterCount)*0.5 + sectionDensity*20 + float64(refKinds)*1.5

	switch {
	case score < 1:
		return model.ComplexityMinimal
	case score < 3:
		return model.ComplexitySimple
	case score < 6:
		return model.ComplexityModerate
	case score < 10:
		return model.ComplexityComplex
	default:
		return model.ComplexityVeryComplex
	}
}

// GetDocument 查询属于某用户的文档
func (s *DocumentService) GetDocument(documentID string, ownerID uint) (*model.Document, error) {
	return s.docRepo.FindByIDAndOwner(documentID, ownerID)
}

// ListDocuments 按优先级与活跃度排序返回用户的文档
func (s *DocumentService) ListDocuments(ownerID uint) ([]model.Document, error) {
	return s.docRepo.FindByOwner(ownerID)
}

// GetAnalysis 返回按页序排列的页分析，文档未就绪时报错
func (s *DocumentService) GetAnalysis(documentID string, ownerID uint) ([]model.PageAnalysis, error) {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentReady {
		return nil, util.ErrDocumentNotReady
	}
	return s.analysisRepo.FindByDocument(documentID)
}

// GetStructure 返回章节轮廓与特殊页列表
func (s *DocumentService) GetStructure(documentID string, ownerID uint) (*model.DocumentStructure, error) {
	view, err := s.GetMetrics(context.Background(), documentID, ownerID)
	if err != nil {
		return nil, err
	}
	chapters, err := s.analysisRepo.FindChapters(documentID)
	if err != nil {
		return nil, err
	}
	sections, err := s.analysisRepo.FindSections(documentID)
	if err != nil {
		return nil, err
	}
	return &model.DocumentStructure{
		Chapters:          chapters,
		Sections:          sections,
		TOCPages:          view.TOCPages,
		AppendixPages:     view.AppendixPages,
		BibliographyPages: view.BibliographyPages,
	}, nil
}

// GetMetrics 返回文档级指标，带 Redis 读穿缓存
func (s *DocumentService) GetMetrics(ctx context.Context, documentID string, ownerID uint) (*model.DocumentMetricsView, error) {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentReady {
		return nil, util.ErrDocumentNotReady
	}

	cacheKey := metricsCacheKey(documentID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var view model.DocumentMetricsView
			if err := json.Unmarshal([]byte(cached), &view); err == nil {
				return &view, nil
			}
		}
	}

	metrics, err := s.analysisRepo.FindMetrics(documentID)
	if err != nil {
		return nil, err
	}
	view, err := decodeMetricsView(metrics)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(view); err == nil {
			s.redis.Set(ctx, cacheKey, encoded, s.cfg.MetricsCacheTTL)
		}
	}
	return view, nil
}

// EstimateReadingTime 返回文档的阅读时长估算
// 读者历史阅读量足够时采用个性化均速并附带置信度
func (s *DocumentService) EstimateReadingTime(documentID string, ownerID uint) (*model.TimeEstimate, error) {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, ownerID)
	if err != nil {
		return nil, err
	}
	if doc.Status != model.DocumentReady {
		return nil, util.ErrDocumentNotReady
	}

	analyses, err := s.analysisRepo.FindByDocument(documentID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetOrCreate(ownerID)
	if err != nil {
		return nil, err
	}
	return s.estimator.EstimateDocument(documentID, analyses, profile), nil
}

// UpdatePriority 调整文档优先级（1 最高，5 最低）
func (s *DocumentService) UpdatePriority(documentID string, ownerID uint, rank int) error {
	if rank < 1 || rank > 5 {
		return fmt.Errorf("priority rank must be between 1 and 5")
	}
	doc, err := s.docRepo.FindByIDAndOwner(documentID, ownerID)
	if err != nil {
		return err
	}
	doc.PriorityRank = rank
	return s.docRepo.Update(doc)
}

// DeleteDocument 删除文档及其页文本、分析结果和原始文件
func (s *DocumentService) DeleteDocument(ctx context.Context, documentID string, ownerID uint) error {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, ownerID)
	if err != nil {
		return err
	}
	if err := s.analysisRepo.ReplaceForDocument(documentID, nil, nil, nil, nil); err != nil {
		return err
	}
	if err := s.pageRepo.DeleteByDocument(documentID); err != nil {
		return err
	}
	if err := s.docRepo.Delete(documentID); err != nil {
		return err
	}
	if doc.StoragePath != "" {
		if err := s.storage.Remove(ctx, doc.StoragePath); err != nil {
			s.logger.Warn("删除原始文件失败", zap.String("document_id", documentID), zap.Error(err))
		}
	}
	s.invalidateMetricsCache(ctx, documentID)
	return nil
}

func (s *DocumentService) invalidateMetricsCache(ctx context.Context, documentID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, metricsCacheKey(documentID)).Err(); err != nil && err != redis.Nil {
		s.logger.Warn("指标缓存失效失败", zap.String("document_id", documentID), zap.Error(err))
	}
}

func metricsCacheKey(documentID string) string {
	return "readsprint:metrics:" + documentID
}

func decodeMetricsView(m *model.DocumentMetrics) (*model.DocumentMetricsView, error) {
	view := &model.DocumentMetricsView{
		DocumentID:           m.DocumentID,
		TotalWordCount:       m.TotalWordCount,
		ValidPageCount:       m.ValidPageCount,
		AvgDifficulty:        roundTo(m.AvgDifficulty, 2),
		AvgWordsPerPage:      roundTo(m.AvgWordsPerPage, 2),
		ChapterCount:         m.ChapterCount,
		SectionCount:         m.SectionCount,
		StructuralComplexity: m.StructuralComplexity,
		ContentTypeDist:      map[model.ContentType]int{},
		TOCPages:             []int{},
		AppendixPages:        []int{},
		BibliographyPages:    []int{},
	}

	cols := []struct {
		raw    string
		target interface{}
	}{
		{m.DifficultyHistogram, &view.DifficultyHistogram},
		{m.ContentTypeDist, &view.ContentTypeDist},
		{m.TOCPages, &view.TOCPages},
		{m.AppendixPages, &view.AppendixPages},
		{m.BibliographyPages, &view.BibliographyPages},
	}
	for _, c := range cols {
		if c.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c.raw), c.target); err != nil {
			return nil, err
		}
	}
	sort.Ints(view.TOCPages)
	sort.Ints(view.AppendixPages)
	sort.Ints(view.BibliographyPages)
	return view, nil
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
