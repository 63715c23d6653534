package repository

import (
	"errors"
	"readsprint_backend/internal/model"

	"gorm.io/gorm"
)

// ErrPageExtractFailed 该页在导入时未能抽取出文本
var ErrPageExtractFailed = errors.New("page text extraction failed")

type DocumentPageRepository struct {
	DB *gorm.DB
}

func NewDocumentPageRepository(db *gorm.DB) *DocumentPageRepository {
	return &DocumentPageRepository{DB: db}
}

// CreateBatch 批量写入抽取出的页文本
func (r *DocumentPageRepository) CreateBatch(pages []model.DocumentPage) error {
	if len(pages) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(pages, 100).Error
}

// GetPageText 返回单页文本；抽取失败的页返回空文本和 ErrPageExtractFailed
func (r *DocumentPageRepository) GetPageText(documentID string, pageNumber int) (string, error) {
	var page model.DocumentPage
	err := r.DB.Where("document_id = ? AND page_number = ?", documentID, pageNumber).First(&page).Error
	if err != nil {
		return "", err
	}
	if page.ExtractFailed {
		return "", ErrPageExtractFailed
	}
	return page.Text, nil
}

func (r *DocumentPageRepository) CountByDocument(documentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.DocumentPage{}).Where("document_id = ?", documentID).Count(&count).Error
	return count, err
}

// FindRange 按页码顺序返回 [startPage, endPage] 的页
func (r *DocumentPageRepository) FindRange(documentID string, startPage, endPage int) ([]model.DocumentPage, error) {
	var pages []model.DocumentPage
	err := r.DB.Where("document_id = ? AND page_number BETWEEN ? AND ?", documentID, startPage, endPage).
		Order("page_number ASC").
		Find(&pages).Error
	return pages, err
}

func (r *DocumentPageRepository) DeleteByDocument(documentID string) error {
	return r.DB.Where("document_id = ?", documentID).Delete(&model.DocumentPage{}).Error
}
