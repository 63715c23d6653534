package repository

import (
	"readsprint_backend/internal/model"

	"gorm.io/gorm"
)

type AnalysisRepository struct {
	DB *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{DB: db}
}

// ReplaceForDocument 原子地替换某文档的全部页分析、章节结构与汇总指标
// 重新分析时旧结果整体作废，避免半新半旧
func (r *AnalysisRepository) ReplaceForDocument(
	documentID string,
	analyses []model.PageAnalysis,
	chapters []model.Chapter,
	sections []model.Section,
	metrics *model.DocumentMetrics,
) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", documentID).Delete(&model.PageAnalysis{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", documentID).Delete(&model.Section{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", documentID).Delete(&model.Chapter{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", documentID).Delete(&model.DocumentMetrics{}).Error; err != nil {
			return err
		}

		if len(analyses) > 0 {
			if err := tx.CreateInBatches(analyses, 100).Error; err != nil {
				return err
			}
		}
		for i := range chapters {
			ch := &chapters[i]
			secs := ch.Sections
			ch.Sections = nil
			if err := tx.Create(ch).Error; err != nil {
				return err
			}
			ch.Sections = secs
		}
		// 章拿到主键后再给节回填外键，章前的孤立节保持 0
		for i := range sections {
			sections[i].ChapterID = parentChapterID(chapters, sections[i].StartPage)
			if err := tx.Create(&sections[i]).Error; err != nil {
				return err
			}
		}
		if metrics != nil {
			if err := tx.Create(metrics).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// parentChapterID 返回跨度覆盖该起始页的章的主键，没有则为 0
func parentChapterID(chapters []model.Chapter, startPage int) uint {
	for i := range chapters {
		if startPage >= chapters[i].StartPage && startPage <= chapters[i].EndPage {
			return chapters[i].ID
		}
	}
	return 0
}

// FindByDocument 按页码顺序返回全部页分析
func (r *AnalysisRepository) FindByDocument(documentID string) ([]model.PageAnalysis, error) {
	var analyses []model.PageAnalysis
	err := r.DB.Where("document_id = ?", documentID).
		Order("page_number ASC").
		Find(&analyses).Error
	return analyses, err
}

// FindByDocumentAndRange 按页码顺序返回指定页码区间的页分析
func (r *AnalysisRepository) FindByDocumentAndRange(documentID string, startPage, endPage int) ([]model.PageAnalysis, error) {
	var analyses []model.PageAnalysis
	err := r.DB.Where("document_id = ? AND page_number BETWEEN ? AND ?", documentID, startPage, endPage).
		Order("page_number ASC").
		Find(&analyses).Error
	return analyses, err
}

func (r *AnalysisRepository) FindChapters(documentID string) ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Where("document_id = ?", documentID).
		Order("start_page ASC").
		Preload("Sections").
		Find(&chapters).Error
	return chapters, err
}

func (r *AnalysisRepository) FindSections(documentID string) ([]model.Section, error) {
	var sections []model.Section
	err := r.DB.Where("document_id = ?", documentID).
		Order("start_page ASC").
		Find(&sections).Error
	return sections, err
}

func (r *AnalysisRepository) FindMetrics(documentID string) (*model.DocumentMetrics, error) {
	var metrics model.DocumentMetrics
	err := r.DB.Where("document_id = ?", documentID).First(&metrics).Error
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}
