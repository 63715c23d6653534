package repository

import (
	"readsprint_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// MarkRange 将 [startPage, endPage] 标记为已完成（幂等）
func (r *ProgressRepository) MarkRange(userID uint, documentID string, startPage, endPage int) error {
	now := time.Now()
	records := make([]model.PageProgress, 0, endPage-startPage+1)
	for p := startPage; p <= endPage; p++ {
		records = append(records, model.PageProgress{
			UserID:      userID,
			DocumentID:  documentID,
			PageNumber:  p,
			Completed:   true,
			CompletedAt: &now,
			LastReadAt:  now,
		})
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "document_id"}, {Name: "page_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "last_read_at"}),
	}).Create(&records).Error
}

// TouchRange 只更新最近阅读时间，不改变完成状态
func (r *ProgressRepository) TouchRange(userID uint, documentID string, startPage, endPage int) error {
	return r.DB.Model(&model.PageProgress{}).
		Where("user_id = ? AND document_id = ? AND page_number BETWEEN ? AND ?", userID, documentID, startPage, endPage).
		Update("last_read_at", time.Now()).Error
}

// FindCompleted 返回用户在文档中已完成的页码集合
func (r *ProgressRepository) FindCompleted(userID uint, documentID string) (map[int]bool, error) {
	var records []model.PageProgress
	err := r.DB.Where("user_id = ? AND document_id = ? AND completed = ?", userID, documentID, true).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	completed := make(map[int]bool, len(records))
	for _, rec := range records {
		completed[rec.PageNumber] = true
	}
	return completed, nil
}

// FindRecentlyCompleted 按最近阅读时间倒序返回已完成的页（复习策略用）
func (r *ProgressRepository) FindRecentlyCompleted(userID uint, documentID string, limit int) ([]model.PageProgress, error) {
	var records []model.PageProgress
	err := r.DB.Where("user_id = ? AND document_id = ? AND completed = ?", userID, documentID, true).
		Order("last_read_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// CountCompleted 已完成页数（考试目标的完成率用）
func (r *ProgressRepository) CountCompleted(userID uint, documentID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PageProgress{}).
		Where("user_id = ? AND document_id = ? AND completed = ?", userID, documentID, true).
		Count(&count).Error
	return count, err
}
