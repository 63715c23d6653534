package repository

import (
	"readsprint_backend/internal/model"

	"gorm.io/gorm"
)

type SprintRepository struct {
	DB *gorm.DB
}

func NewSprintRepository(db *gorm.DB) *SprintRepository {
	return &SprintRepository{DB: db}
}

func (r *SprintRepository) Create(sprint *model.Sprint) error {
	return r.DB.Create(sprint).Error
}

func (r *SprintRepository) FindByIDAndUserID(id, userID uint) (*model.Sprint, error) {
	var sprint model.Sprint
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&sprint).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

func (r *SprintRepository) Update(sprint *model.Sprint) error {
	return r.DB.Save(sprint).Error
}

// FindByUser 按创建时间倒序分页返回用户的冲刺记录
func (r *SprintRepository) FindByUser(userID uint, page, limit int) ([]model.Sprint, int64, error) {
	var sprints []model.Sprint
	var total int64

	query := r.DB.Model(&model.Sprint{}).Where("user_id = ?", userID)
	query.Count(&total)

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&sprints).Error
	return sprints, total, err
}

func (r *SprintRepository) FindActiveByUser(userID uint) (*model.Sprint, error) {
	var sprint model.Sprint
	err := r.DB.Where("user_id = ? AND status = ?", userID, model.SprintActive).
		Order("started_at DESC").
		First(&sprint).Error
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}
