package repository

import (
	"readsprint_backend/internal/model"

	"gorm.io/gorm"
)

type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) Create(goal *model.ExamGoal) error {
	return r.DB.Create(goal).Error
}

func (r *GoalRepository) FindByUserID(userID uint) ([]model.ExamGoal, error) {
	var goals []model.ExamGoal
	err := r.DB.Where("user_id = ?", userID).Order("exam_date ASC").Find(&goals).Error
	return goals, err
}

func (r *GoalRepository) FindByIDAndUserID(id, userID uint) (*model.ExamGoal, error) {
	var goal model.ExamGoal
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *GoalRepository) Update(goal *model.ExamGoal) error {
	return r.DB.Save(goal).Error
}

func (r *GoalRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ExamGoal{}, id).Error
}
