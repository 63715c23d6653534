package repository

import (
	"readsprint_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

// NewDocumentRepository 创建文档仓库实例
func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByID(id string) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) FindByIDAndOwner(id string, ownerID uint) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Where("id = ? AND owner_id = ?", id, ownerID).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindByOwner 按优先级（高在前）和更新时间排序返回用户的文档
func (r *DocumentRepository) FindByOwner(ownerID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Where("owner_id = ?", ownerID).
		Order("priority_rank ASC, updated_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) Update(doc *model.Document) error {
	return r.DB.Save(doc).Error
}

func (r *DocumentRepository) UpdateStatus(id string, status model.DocumentStatus) error {
	return r.DB.Model(&model.Document{}).Where("id = ?", id).Update("status", status).Error
}

func (r *DocumentRepository) TouchActivity(id string) error {
	return r.DB.Model(&model.Document{}).Where("id = ?", id).Update("last_activity", time.Now()).Error
}

func (r *DocumentRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Document{}).Error
}
