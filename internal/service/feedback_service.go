package service

import (
	"fmt"
	"math"
	"sync"
	"time"

	"readsprint_backend/internal/model"
	"readsprint_backend/internal/repository"
	"readsprint_backend/internal/util"
	"readsprint_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SprintOutcome 读者提交的冲刺完成情况
// ActualSeconds 为 0 表示时长缺失，是合法输入，效率按 100% 记
type SprintOutcome struct {
	ActualSeconds  int `json:"actualSeconds" binding:"min=0"`
	PagesCompleted int `json:"pagesCompleted" binding:"min=0"`
	QualityRating  int `json:"qualityRating" binding:"required,min=1,max=5"`
}

// FeedbackResult 反馈引擎的产出：更新后的冲刺、画像与反馈消息
type FeedbackResult struct {
	Sprint   *model.Sprint        `json:"sprint"`
	Profile  *model.ReaderProfile `json:"profile"`
	XPEarned int                  `json:"xpEarned"`
	Tag      string               `json:"tag"` // 与 PerformanceLevel 同值的分类标签
	Message  string               `json:"message"`
}

// FeedbackService 冲刺完成后的表现评估与画像更新
// 画像更新是读-改-写，同一读者的并发提交按 userID 串行化，避免 XP/连续天数丢更新
type FeedbackService struct {
	sprintRepo   *repository.SprintRepository
	profileRepo  *repository.ReaderProfileRepository
	progressRepo *repository.ProgressRepository
	docRepo      *repository.DocumentRepository
	events       *EventService
	logger       *zap.Logger
	now          func() time.Time

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewFeedbackService(
	sprintRepo *repository.SprintRepository,
	profileRepo *repository.ReaderProfileRepository,
	progressRepo *repository.ProgressRepository,
	docRepo *repository.DocumentRepository,
	events *EventService,
	logger *zap.Logger,
) *FeedbackService {
	return &FeedbackService{
		sprintRepo:   sprintRepo,
		profileRepo:  profileRepo,
		progressRepo: progressRepo,
		docRepo:      docRepo,
		events:       events,
		logger:       logger,
		now:          time.Now,
		locks:        make(map[uint]*sync.Mutex),
	}
}

func (s *FeedbackService) readerLock(userID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Complete 结算一次冲刺：效率/完成度指标、阅读进度、连续天数与 XP
func (s *FeedbackService) Complete(userID, sprintID uint, outcome SprintOutcome) (*FeedbackResult, error) {
	lock := s.readerLock(userID)
	lock.Lock()
	defer lock.Unlock()

	sprint, err := s.sprintRepo.FindByIDAndUserID(sprintID, userID)
	if err != nil {
		return nil, err
	}
	if sprint.Status != model.SprintActive {
		return nil, util.ErrSprintNotActive
	}
	if outcome.QualityRating < 1 || outcome.QualityRating > 5 {
		return nil, util.ErrInvalidQualityScore
	}
	if outcome.PagesCompleted > sprint.PlannedPages() {
		outcome.PagesCompleted = sprint.PlannedPages()
	}

	efficiency := efficiencyPct(sprint.EstimatedSeconds, outcome.ActualSeconds)
	completion := 0
	if planned := sprint.PlannedPages(); planned > 0 {
		completion = int(math.Round(100 * float64(outcome.PagesCompleted) / float64(planned)))
	}
	performance := classifyPerformance(efficiency, completion)

	now := s.now()
	sprint.Status = model.SprintCompleted
	sprint.CompletedAt = &now
	sprint.ActualSeconds = outcome.ActualSeconds
	sprint.PagesCompleted = outcome.PagesCompleted
	sprint.QualityRating = outcome.QualityRating
	sprint.EfficiencyPct = efficiency
	sprint.CompletionPct = completion
	sprint.PerformanceLevel = performance
	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, err
	}

	// 完成的页写入阅读进度
	if outcome.PagesCompleted > 0 {
		endPage := sprint.StartPage + outcome.PagesCompleted - 1
		if err := s.progressRepo.MarkRange(userID, sprint.DocumentID, sprint.StartPage, endPage); err != nil {
			return nil, err
		}
	}
	if err := s.docRepo.TouchActivity(sprint.DocumentID); err != nil {
		s.logger.Warn("更新文档活跃时间失败", zap.String("document_id", sprint.DocumentID), zap.Error(err))
	}

	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	xpEarned := s.applyOutcome(profile, sprint, outcome, performance, now)
	if err := s.profileRepo.Update(profile); err != nil {
		return nil, err
	}

	monitoring.SprintsCompleted.WithLabelValues(string(performance)).Inc()
	s.events.Publish("sprint.completed", map[string]interface{}{
		"userId":      userID,
		"sprintId":    sprint.ID,
		"documentId":  sprint.DocumentID,
		"performance": string(performance),
		"xpEarned":    xpEarned,
		"completedAt": now.Format(time.RFC3339),
	})

	s.logger.Info("冲刺结算完成",
		zap.Uint("user_id", userID),
		zap.Uint("sprint_id", sprint.ID),
		zap.String("performance", string(performance)),
		zap.Int("xp_earned", xpEarned))

	return &FeedbackResult{
		Sprint:   sprint,
		Profile:  profile,
		XPEarned: xpEarned,
		Tag:      string(performance),
		Message:  feedbackMessage(performance, profile.CurrentStreak),
	}, nil
}

// efficiencyPct 预计/实际时长比；实际时长为零或缺失时记 100%
func efficiencyPct(estimatedSeconds, actualSeconds int) int {
	if actualSeconds <= 0 {
		return 100
	}
	return int(math.Round(100 * float64(estimatedSeconds) / float64(actualSeconds)))
}

// classifyPerformance 效率或完成度任一 ≥120 即 excellent，之后按双指标下探
func classifyPerformance(efficiency, completion int) model.PerformanceLevel {
	switch {
	case efficiency >= 120 || completion >= 120:
		return model.PerformanceExcellent
	case efficiency >= 90 && completion >= 90:
		return model.PerformanceGood
	case efficiency >= 70 && completion >= 70:
		return model.PerformanceFair
	default:
		return model.PerformanceNeedsWork
	}
}

// applyOutcome 把本次结果折入画像：寿命累计、均速、连续天数、XP、专注度
func (s *FeedbackService) applyOutcome(profile *model.ReaderProfile, sprint *model.Sprint, outcome SprintOutcome, performance model.PerformanceLevel, now time.Time) int {
	// 寿命累计与均速重算
	profile.TotalPagesRead += outcome.PagesCompleted
	profile.TotalReadingSeconds += outcome.ActualSeconds
	if profile.TotalPagesRead > 0 {
		profile.AvgSecondsPerPage = float64(profile.TotalReadingSeconds) / float64(profile.TotalPagesRead)
	}
	profile.SessionCount++
	profile.AvgSessionSeconds = float64(profile.TotalReadingSeconds) / float64(profile.SessionCount)

	// 连续天数：同日不变，昨日 +1，其余重置为 1
	today := now.Format(util.DateFormat)
	yesterday := now.AddDate(0, 0, -1).Format(util.DateFormat)
	switch profile.LastActivityDate.Format(util.DateFormat) {
	case today:
		// unchanged
	case yesterday:
		profile.CurrentStreak++
	default:
		profile.CurrentStreak = 1
	}
	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}
	profile.LastActivityDate = now

	// XP：基础 10，good 15，excellent 25；连续 ≥7 天 +5，≥30 天再 +10
	xp := 10
	switch performance {
	case model.PerformanceGood:
		xp = 15
	case model.PerformanceExcellent:
		xp = 25
	}
	if profile.CurrentStreak >= 7 {
		xp += 5
	}
	if profile.CurrentStreak >= 30 {
		xp += 10
	}
	profile.TotalXP += xp
	profile.Level = levelForXP(profile.TotalXP)

	// 专注度的滚动更新：完成度越高视为专注越好
	sample := math.Min(1, float64(sprint.CompletionPct)/100)
	profile.FocusScore = clamp01(0.7*profile.FocusScore + 0.3*sample)

	// 表现优异时记下当前小时作为高峰时段
	if performance == model.PerformanceExcellent {
		hour := now.Hour()
		profile.PeakHour = &hour
	}

	return xp
}

// levelForXP 等级 = floor(sqrt(xp/100)) + 1，对 XP 单调不减且不低于 1
func levelForXP(totalXP int) int {
	if totalXP <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(totalXP)/100))) + 1
}

func feedbackMessage(performance model.PerformanceLevel, streak int) string {
	var msg string
	switch performance {
	case model.PerformanceExcellent:
		msg = "表现出色！阅读效率远超预期"
	case model.PerformanceGood:
		msg = "完成得很好，保持这个节奏"
	case model.PerformanceFair:
		msg = "基本达标，下次试试缩短会话或降低难度"
	default:
		msg = "这次有些吃力，建议选择更短的阅读计划"
	}
	if streak >= 7 {
		msg += fmt.Sprintf("（已连续阅读 %d 天）", streak)
	}
	return msg
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
