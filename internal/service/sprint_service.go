package service

import (
	"fmt"
	"sort"
	"time"

	"readsprint_backend/internal/model"
	"readsprint_backend/internal/repository"
	"readsprint_backend/internal/util"

	"go.uber.org/zap"
)

// PlanRequest 一次冲刺规划请求
type PlanRequest struct {
	DocumentIDs          []string `json:"documentIds"`          // 为空时取用户全部就绪文档
	PreferredMinutes     int      `json:"preferredMinutes"`     // 0 时退回画像偏好
	DifficultyPreference string   `json:"difficultyPreference"` // easy / medium / hard / adaptive / 空
	SessionType          string   `json:"sessionType"`          // reading / review
}

// PlanResult 规划结果：候选列表加单个最优推荐，候选可以为空
type PlanResult struct {
	Candidates []model.SprintCandidate `json:"candidates"`
	Best       *model.SprintCandidate  `json:"best,omitempty"` // nil 表示当前没有可调度的内容
}

// SprintService 冲刺方案的生成、选优与生命周期
type SprintService struct {
	sprintRepo   *repository.SprintRepository
	docRepo      *repository.DocumentRepository
	analysisRepo *repository.AnalysisRepository
	progressRepo *repository.ProgressRepository
	profileRepo  *repository.ReaderProfileRepository
	estimator    *TimeEstimatorService
	logger       *zap.Logger
	now          func() time.Time
}

func NewSprintService(
	sprintRepo *repository.SprintRepository,
	docRepo *repository.DocumentRepository,
	analysisRepo *repository.AnalysisRepository,
	progressRepo *repository.ProgressRepository,
	profileRepo *repository.ReaderProfileRepository,
	estimator *TimeEstimatorService,
	logger *zap.Logger,
) *SprintService {
	return &SprintService{
		sprintRepo:   sprintRepo,
		docRepo:      docRepo,
		analysisRepo: analysisRepo,
		progressRepo: progressRepo,
		profileRepo:  profileRepo,
		estimator:    estimator,
		logger:       logger,
		now:          time.Now,
	}
}

// Plan 生成候选并选出最优推荐；没有可读内容时 Best 为 nil，不是错误
func (s *SprintService) Plan(userID uint, req PlanRequest) (*PlanResult, error) {
	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	docs, err := s.resolveDocuments(userID, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	preferredSeconds := req.PreferredMinutes * 60
	if preferredSeconds <= 0 {
		preferredSeconds = profile.PreferredSessionMinutes * 60
	}

	var candidates []model.SprintCandidate
	for _, doc := range docs {
		docCandidates, err := s.candidatesForDocument(userID, &doc, profile, preferredSeconds, req)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, docCandidates...)
	}

	// 按优先级保留前五个
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PriorityScore > candidates[j].PriorityScore
	})
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}

	result := &PlanResult{Candidates: candidates}
	result.Best = s.selectBest(candidates, profile)
	return result, nil
}

func (s *SprintService) resolveDocuments(userID uint, documentIDs []string) ([]model.Document, error) {
	all, err := s.docRepo.FindByOwner(userID)
	if err != nil {
		return nil, err
	}

	ready := make([]model.Document, 0, len(all))
	for _, d := range all {
		if d.Status != model.DocumentReady {
			continue
		}
		if len(documentIDs) > 0 && !containsString(documentIDs, d.ID) {
			continue
		}
		ready = append(ready, d)
	}
	return ready, nil
}

// candidatesForDocument 对单个文档套用三种策略，无未读页时整体跳过
func (s *SprintService) candidatesForDocument(userID uint, doc *model.Document, profile *model.ReaderProfile, preferredSeconds int, req PlanRequest) ([]model.SprintCandidate, error) {
	completed, err := s.progressRepo.FindCompleted(userID, doc.ID)
	if err != nil {
		return nil, err
	}

	unread := make([]int, 0, doc.TotalPages)
	for p := 1; p <= doc.TotalPages; p++ {
		if !completed[p] {
			unread = append(unread, p)
		}
	}
	if len(unread) == 0 {
		return nil, nil
	}

	analyses, err := s.analysisRepo.FindByDocument(doc.ID)
	if err != nil {
		return nil, err
	}
	analysisByPage := make(map[int]model.PageAnalysis, len(analyses))
	for _, a := range analyses {
		analysisByPage[a.PageNumber] = a
	}

	targetPages := targetPageCount(preferredSeconds, profile.AvgSecondsPerPage)

	basePriority := s.basePriority(doc)
	var candidates []model.SprintCandidate

	// 顺序策略：从第一个未读页起连续读
	start := unread[0]
	end := start + targetPages - 1
	if end > doc.TotalPages {
		end = doc.TotalPages
	}
	candidates = append(candidates, model.SprintCandidate{
		DocumentID:       doc.ID,
		DocumentTitle:    doc.Title,
		Strategy:         model.StrategySequential,
		StartPage:        start,
		EndPage:          end,
		EstimatedSeconds: s.estimator.EstimateRange(analyses, start, end, profile),
		DifficultyScore:  avgDifficulty(analysisByPage, start, end),
		PriorityScore:    basePriority,
		Description:      fmt.Sprintf("顺序阅读《%s》第 %d-%d 页", doc.Title, start, end),
	})

	// 难度策略：仅在明确指定了难度偏好时启用
	if req.DifficultyPreference != "" && req.DifficultyPreference != "adaptive" {
		if c := s.difficultyCandidate(doc, profile, analyses, analysisByPage, unread, targetPages, req.DifficultyPreference, basePriority); c != nil {
			candidates = append(candidates, *c)
		}
	}

	// 复习策略：仅在复习型会话中启用
	if req.SessionType == "review" {
		if c, err := s.reviewCandidate(userID, doc, profile, analyses, analysisByPage, targetPages, basePriority); err != nil {
			return nil, err
		} else if c != nil {
			candidates = append(candidates, *c)
		}
	}

	return candidates, nil
}

// targetPageCount 目标页数 = floor(偏好时长秒 / 读者每页均速)，至少 1 页
func targetPageCount(preferredSeconds int, avgSecPerPage float64) int {
	if avgSecPerPage <= 0 {
		return 1
	}
	target := int(float64(preferredSeconds) / avgSecPerPage)
	if target < 1 {
		target = 1
	}
	return target
}

// basePriority 优先级 =（6 − 文档优先档）+ 活跃度加成
func (s *SprintService) basePriority(doc *model.Document) float64 {
	score := float64(6 - doc.PriorityRank)
	since := s.now().Sub(doc.LastActivity)
	if since <= 24*time.Hour {
		score += 2
	} else if since <= 7*24*time.Hour {
		score += 1
	}
	return score
}

// difficultyBand 难度偏好对应的档位区间与时长乘数
func difficultyBand(preference string) (minLevel, maxLevel int, multiplier float64, ok bool) {
	switch preference {
	case "easy":
		return 1, 2, 0.8, true
	case "medium":
		return 3, 3, 1.0, true
	case "hard":
		return 4, 5, 1.3, true
	default:
		return 0, 0, 0, false
	}
}

func (s *SprintService) difficultyCandidate(
	doc *model.Document,
	profile *model.ReaderProfile,
	analyses []model.PageAnalysis,
	analysisByPage map[int]model.PageAnalysis,
	unread []int,
	targetPages int,
	preference string,
	basePriority float64,
) *model.SprintCandidate {
	minLevel, maxLevel, multiplier, ok := difficultyBand(preference)
	if !ok {
		return nil
	}

	matching := make([]int, 0, len(unread))
	for _, p := range unread {
		a, found := analysisByPage[p]
		if found && a.DifficultyLevel >= minLevel && a.DifficultyLevel <= maxLevel {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		return nil
	}
	if len(matching) > targetPages {
		matching = matching[:targetPages]
	}

	start, end := matching[0], matching[len(matching)-1]
	estimated := int(float64(s.estimator.EstimateRange(analyses, start, end, profile)) * multiplier)
	return &model.SprintCandidate{
		DocumentID:       doc.ID,
		DocumentTitle:    doc.Title,
		Strategy:         model.StrategyDifficultyFocused,
		StartPage:        start,
		EndPage:          end,
		EstimatedSeconds: estimated,
		DifficultyScore:  avgDifficulty(analysisByPage, start, end),
		PriorityScore:    basePriority,
		Description:      fmt.Sprintf("按 %s 难度专项阅读《%s》第 %d-%d 页", preference, doc.Title, start, end),
	}
}

// reviewCandidate 取最近完成的页做复习，时长 ×0.7，优先级 +1
func (s *SprintService) reviewCandidate(
	userID uint,
	doc *model.Document,
	profile *model.ReaderProfile,
	analyses []model.PageAnalysis,
	analysisByPage map[int]model.PageAnalysis,
	targetPages int,
	basePriority float64,
) (*model.SprintCandidate, error) {
	recent, err := s.progressRepo.FindRecentlyCompleted(userID, doc.ID, targetPages)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}

	pages := make([]int, 0, len(recent))
	for _, p := range recent {
		pages = append(pages, p.PageNumber)
	}
	sort.Ints(pages)

	start, end := pages[0], pages[len(pages)-1]
	estimated := int(float64(s.estimator.EstimateRange(analyses, start, end, profile)) * 0.7)
	return &model.SprintCandidate{
		DocumentID:       doc.ID,
		DocumentTitle:    doc.Title,
		Strategy:         model.StrategyReview,
		StartPage:        start,
		EndPage:          end,
		EstimatedSeconds: estimated,
		DifficultyScore:  avgDifficulty(analysisByPage, start, end),
		PriorityScore:    basePriority + 1,
		Description:      fmt.Sprintf("复习《%s》近期读过的第 %d-%d 页", doc.Title, start, end),
	}, nil
}

// selectBest 在优先级基础上叠加读者上下文调整，返回得分最高的候选
// 候选为空返回 nil，表示当前确实没有可调度的内容
func (s *SprintService) selectBest(candidates []model.SprintCandidate, profile *model.ReaderProfile) *model.SprintCandidate {
	if len(candidates) == 0 {
		return nil
	}

	hour := s.now().Hour()
	var best *model.SprintCandidate
	bestScore := 0.0
	for i := range candidates {
		c := &candidates[i]
		score := adjustedScore(c, profile, hour)
		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}

// adjustedScore 在候选优先级上叠加读者水平、专注度与高峰时段的调整
func adjustedScore(c *model.SprintCandidate, profile *model.ReaderProfile, hour int) float64 {
	score := c.PriorityScore

	// 新手避开过难内容，高手避开过浅内容
	if profile.Level < 3 && c.DifficultyScore > 3 {
		score -= 2
	}
	if profile.Level > 5 && c.DifficultyScore < 2 {
		score -= 1
	}
	// 近期专注度偏低时倾向短会话
	if profile.FocusScore < 0.7 && c.EstimatedSeconds > 1800 {
		score -= 1
	}
	// 处于表现高峰时段附近时加成，小时差按环形 24 小时计算
	if profile.PeakHour != nil {
		diff := hour - *profile.PeakHour
		if diff < 0 {
			diff = -diff
		}
		if diff > 12 {
			diff = 24 - diff
		}
		if diff <= 2 {
			score += 1
		}
	}
	return score
}

// Commit 把候选提交为 planned 状态的冲刺
func (s *SprintService) Commit(userID uint, candidate model.SprintCandidate) (*model.Sprint, error) {
	doc, err := s.docRepo.FindByIDAndOwner(candidate.DocumentID, userID)
	if err != nil {
		return nil, err
	}
	if err := validatePageRange(candidate.StartPage, candidate.EndPage, doc.TotalPages); err != nil {
		return nil, err
	}

	sprint := &model.Sprint{
		UserID:           userID,
		DocumentID:       candidate.DocumentID,
		Strategy:         candidate.Strategy,
		StartPage:        candidate.StartPage,
		EndPage:          candidate.EndPage,
		EstimatedSeconds: candidate.EstimatedSeconds,
		DifficultyScore:  candidate.DifficultyScore,
		Description:      candidate.Description,
		Status:           model.SprintPlanned,
	}
	if err := s.sprintRepo.Create(sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// CreateManual 手动按页区间建冲刺，区间在任何评分前先做校验
func (s *SprintService) CreateManual(userID uint, documentID string, startPage, endPage int) (*model.Sprint, error) {
	doc, err := s.docRepo.FindByIDAndOwner(documentID, userID)
	if err != nil {
		return nil, err
	}
	if err := validatePageRange(startPage, endPage, doc.TotalPages); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	analyses, err := s.analysisRepo.FindByDocumentAndRange(documentID, startPage, endPage)
	if err != nil {
		return nil, err
	}
	analysisByPage := make(map[int]model.PageAnalysis, len(analyses))
	for _, a := range analyses {
		analysisByPage[a.PageNumber] = a
	}

	sprint := &model.Sprint{
		UserID:           userID,
		DocumentID:       documentID,
		Strategy:         model.StrategySequential,
		StartPage:        startPage,
		EndPage:          endPage,
		EstimatedSeconds: s.estimator.EstimateRange(analyses, startPage, endPage, profile),
		DifficultyScore:  avgDifficulty(analysisByPage, startPage, endPage),
		Description:      fmt.Sprintf("自定义阅读《%s》第 %d-%d 页", doc.Title, startPage, endPage),
		Status:           model.SprintPlanned,
	}
	if err := s.sprintRepo.Create(sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// Start 把 planned 冲刺置为 active 并记录开始时间，同时刷新文档活跃度
func (s *SprintService) Start(userID, sprintID uint) (*model.Sprint, error) {
	sprint, err := s.sprintRepo.FindByIDAndUserID(sprintID, userID)
	if err != nil {
		return nil, err
	}
	if sprint.Status != model.SprintPlanned {
		return nil, util.ErrSprintNotActive
	}

	now := s.now()
	sprint.Status = model.SprintActive
	sprint.StartedAt = &now
	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, err
	}
	if err := s.docRepo.TouchActivity(sprint.DocumentID); err != nil {
		s.logger.Warn("更新文档活跃时间失败", zap.String("document_id", sprint.DocumentID), zap.Error(err))
	}
	return sprint, nil
}

// Abandon 放弃未完成的冲刺
func (s *SprintService) Abandon(userID, sprintID uint) (*model.Sprint, error) {
	sprint, err := s.sprintRepo.FindByIDAndUserID(sprintID, userID)
	if err != nil {
		return nil, err
	}
	if sprint.Status != model.SprintPlanned && sprint.Status != model.SprintActive {
		return nil, util.ErrSprintNotActive
	}
	sprint.Status = model.SprintAbandoned
	if err := s.sprintRepo.Update(sprint); err != nil {
		return nil, err
	}
	return sprint, nil
}

// History 分页返回用户的冲刺记录
func (s *SprintService) History(userID uint, page, limit int) ([]model.Sprint, int64, error) {
	return s.sprintRepo.FindByUser(userID, page, limit)
}

// Active 返回正在进行的冲刺，不存在时返回 gorm.ErrRecordNotFound
func (s *SprintService) Active(userID uint) (*model.Sprint, error) {
	return s.sprintRepo.FindActiveByUser(userID)
}

func validatePageRange(startPage, endPage, totalPages int) error {
	if startPage < 1 || endPage < startPage || endPage > totalPages {
		return util.ErrInvalidPageRange
	}
	return nil
}

func avgDifficulty(analysisByPage map[int]model.PageAnalysis, startPage, endPage int) float64 {
	var sum float64
	count := 0
	for p := startPage; p <= endPage; p++ {
		if a, ok := analysisByPage[p]; ok {
			sum += a.DifficultyScore
			count++
		}
	}
	if count == 0 {
		return 3
	}
	return sum / float64(count)
}

func containsString(list []string, target string) bool {
	for _, s := range list {
		if s == target {
			return true
		}
	}
	return false
}
