package service

import (
	"math"
	"time"

	"readsprint_backend/internal/model"
	"readsprint_backend/internal/repository"
	"readsprint_backend/internal/util"
)

// GoalProgress 目标进度视图：目标本体加进度对比
type GoalProgress struct {
	Goal          model.ExamGoal `json:"goal"`
	TotalPages    int            `json:"totalPages"`
	PagesRead     int            `json:"pagesRead"`
	CurrentPct    float64        `json:"currentPct"`
	ExpectedPct   float64        `json:"expectedPct"`
	DaysRemaining int            `json:"daysRemaining"`
}

// GoalService 考试目标的管理与进度判定
type GoalService struct {
	goalRepo     *repository.GoalRepository
	docRepo      *repository.DocumentRepository
	progressRepo *repository.ProgressRepository
	now          func() time.Time
}

func NewGoalService(goalRepo *repository.GoalRepository, docRepo *repository.DocumentRepository, progressRepo *repository.ProgressRepository) *GoalService {
	return &GoalService{
		goalRepo:     goalRepo,
		docRepo:      docRepo,
		progressRepo: progressRepo,
		now:          time.Now,
	}
}

// Create 建立目标，考试日期早于今天的直接拒绝
func (s *GoalService) Create(userID uint, documentID, title string, examDate time.Time) (*model.ExamGoal, error) {
	if _, err := s.docRepo.FindByIDAndOwner(documentID, userID); err != nil {
		return nil, err
	}
	if examDate.Before(startOfDay(s.now())) {
		return nil, util.ErrInvalidExamDate
	}

	goal := &model.ExamGoal{
		UserID:     userID,
		DocumentID: documentID,
		Title:      title,
		ExamDate:   examDate,
		Status:     model.GoalOnTrack,
	}
	if err := s.goalRepo.Create(goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// List 返回用户的全部目标及其最新进度判定
func (s *GoalService) List(userID uint) ([]GoalProgress, error) {
	goals, err := s.goalRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	result := make([]GoalProgress, 0, len(goals))
	for _, goal := range goals {
		progress, err := s.evaluate(userID, &goal)
		if err != nil {
			return nil, err
		}
		result = append(result, *progress)
	}
	return result, nil
}

// Get 返回单个目标的进度
func (s *GoalService) Get(userID, goalID uint) (*GoalProgress, error) {
	goal, err := s.goalRepo.FindByIDAndUserID(goalID, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluate(userID, goal)
}

// Delete 删除目标
func (s *GoalService) Delete(userID, goalID uint) error {
	goal, err := s.goalRepo.FindByIDAndUserID(goalID, userID)
	if err != nil {
		return err
	}
	return s.goalRepo.Delete(goal.ID)
}

// evaluate 进度判定并回写状态
// 期望进度 = 100 × 已经过天数 / 总天数；总天数 ≤0（当天建当天考）时按 100 处理
// 该公式对延迟建立的目标会给出偏紧的期望值，行为以边界日期的测试锁定
func (s *GoalService) evaluate(userID uint, goal *model.ExamGoal) (*GoalProgress, error) {
	doc, err := s.docRepo.FindByID(goal.DocumentID)
	if err != nil {
		return nil, err
	}
	readCount, err := s.progressRepo.CountCompleted(userID, goal.DocumentID)
	if err != nil {
		return nil, err
	}

	progress := &GoalProgress{
		Goal:       *goal,
		TotalPages: doc.TotalPages,
		PagesRead:  int(readCount),
	}
	if doc.TotalPages > 0 {
		progress.CurrentPct = roundTo(100*float64(readCount)/float64(doc.TotalPages), 1)
	}

	now := s.now()
	examDay := startOfDay(goal.ExamDate)
	today := startOfDay(now)
	progress.DaysRemaining = int(examDay.Sub(today).Hours() / 24)
	progress.ExpectedPct = expectedProgressPct(goal.CreatedAt, goal.ExamDate, now)

	status := goal.Status
	switch {
	case progress.CurrentPct >= 100:
		status = model.GoalComplete
	case today.After(examDay):
		status = model.GoalExpired
	case progress.CurrentPct >= progress.ExpectedPct:
		status = model.GoalOnTrack
	default:
		status = model.GoalBehind
	}

	if status != goal.Status {
		goal.Status = status
		if err := s.goalRepo.Update(goal); err != nil {
			return nil, err
		}
		progress.Goal = *goal
	}
	return progress, nil
}

// expectedProgressPct 期望进度 = 100 × 已经过天数 / 总天数，裁剪到 [0,100]
// 创建日即考试日时总天数为 0，按 100 处理
func expectedProgressPct(created, exam, now time.Time) float64 {
	examDay := startOfDay(exam)
	createdDay := startOfDay(created)
	today := startOfDay(now)

	totalDays := int(examDay.Sub(createdDay).Hours() / 24)
	elapsedDays := int(today.Sub(createdDay).Hours() / 24)

	if totalDays <= 0 {
		return 100
	}
	pct := roundTo(100*float64(elapsedDays)/float64(totalDays), 1)
	return math.Min(100, math.Max(0, pct))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
