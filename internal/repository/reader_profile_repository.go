package repository

import (
	"errors"
	"readsprint_backend/internal/model"

	"gorm.io/gorm"
)

type ReaderProfileRepository struct {
	DB *gorm.DB
}

func NewReaderProfileRepository(db *gorm.DB) *ReaderProfileRepository {
	return &ReaderProfileRepository{DB: db}
}

// GetOrCreate 获取读者画像；不存在时以中性默认值创建
func (r *ReaderProfileRepository) GetOrCreate(userID uint) (*model.ReaderProfile, error) {
	var profile model.ReaderProfile
	err := r.DB.Where("user_id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := model.NewReaderProfile(userID)
	if err := r.DB.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ReaderProfileRepository) Update(profile *model.ReaderProfile) error {
	return r.DB.Save(profile).Error
}
