package service

import (
	"errors"

	"readsprint_backend/internal/model"
	"readsprint_backend/internal/repository"

	"gorm.io/gorm"
)

// Dashboard 读者首页聚合视图
type Dashboard struct {
	Profile       *model.ReaderProfile `json:"profile"`
	ActiveSprint  *model.Sprint        `json:"activeSprint,omitempty"`
	RecentSprints []model.Sprint       `json:"recentSprints"`
	Documents     []model.Document     `json:"documents"`
	Goals         []GoalProgress       `json:"goals"`
}

// ProfileService 读者画像查询与偏好设置
type ProfileService struct {
	profileRepo *repository.ReaderProfileRepository
	sprintRepo  *repository.SprintRepository
	docRepo     *repository.DocumentRepository
	goalService *GoalService
}

func NewProfileService(
	profileRepo *repository.ReaderProfileRepository,
	sprintRepo *repository.SprintRepository,
	docRepo *repository.DocumentRepository,
	goalService *GoalService,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		sprintRepo:  sprintRepo,
		docRepo:     docRepo,
		goalService: goalService,
	}
}

// GetProfile 返回画像，首次访问时自动创建
func (s *ProfileService) GetProfile(userID uint) (*model.ReaderProfile, error) {
	return s.profileRepo.GetOrCreate(userID)
}

// UpdatePreferences 更新偏好会话时长（分钟）
func (s *ProfileService) UpdatePreferences(userID uint, preferredMinutes int) (*model.ReaderProfile, error) {
	if preferredMinutes < 5 || preferredMinutes > 240 {
		return nil, errors.New("preferred session minutes must be between 5 and 240")
	}
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	profile.PreferredSessionMinutes = preferredMinutes
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// GetDashboard 聚合画像、进行中冲刺、近期记录、文档与目标
func (s *ProfileService) GetDashboard(userID uint) (*Dashboard, error) {
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{Profile: profile}

	active, err := s.sprintRepo.FindActiveByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	dashboard.ActiveSprint = active

	recent, _, err := s.sprintRepo.FindByUser(userID, 1, 5)
	if err != nil {
		return nil, err
	}
	dashboard.RecentSprints = recent

	docs, err := s.docRepo.FindByOwner(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Documents = docs

	goals, err := s.goalService.List(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Goals = goals

	return dashboard, nil
}
