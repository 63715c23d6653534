package model

import "time"

type SprintStrategy string

const (
	StrategySequential        SprintStrategy = "sequential"
	StrategyDifficultyFocused SprintStrategy = "difficulty_focused"
	StrategyReview            SprintStrategy = "review"
)

type SprintStatus string

const (
	SprintPlanned   SprintStatus = "planned"
	SprintActive    SprintStatus = "active"
	SprintCompleted SprintStatus = "completed"
	SprintAbandoned SprintStatus = "abandoned"
)

type PerformanceLevel string

const (
	PerformanceExcellent PerformanceLevel = "excellent"
	PerformanceGood      PerformanceLevel = "good"
	PerformanceFair      PerformanceLevel = "fair"
	PerformanceNeedsWork PerformanceLevel = "needs_improvement"
)

// SprintCandidate 候选冲刺方案，只在一次规划请求内产生和消费，不入库
// swagger:model SprintCandidate
type SprintCandidate struct {
	DocumentID       string         `json:"documentId"`
	DocumentTitle    string         `json:"documentTitle"`
	Strategy         SprintStrategy `json:"strategy"`
	StartPage        int            `json:"startPage"`
	EndPage          int            `json:"endPage"`
	EstimatedSeconds int            `json:"estimatedSeconds"`
	DifficultyScore  float64        `json:"difficultyScore"`
	PriorityScore    float64        `json:"priorityScore"`
	Description      string         `json:"description"`
}

// Sprint 已提交的冲刺及其完成情况
// swagger:model Sprint
type Sprint struct {
	BaseModel
	UserID           uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	DocumentID       string           `gorm:"index;type:varchar(36);not null" json:"documentId"`
	Strategy         SprintStrategy   `gorm:"size:32;not null" json:"strategy"`
	StartPage        int              `gorm:"not null" json:"startPage"`
	EndPage          int              `gorm:"not null" json:"endPage"`
	EstimatedSeconds int              `gorm:"default:0" json:"estimatedSeconds"`
	DifficultyScore  float64          `gorm:"default:0" json:"difficultyScore"`
	Description      string           `gorm:"size:512" json:"description"`
	Status           SprintStatus     `gorm:"type:enum('planned','active','completed','abandoned');default:'planned'" json:"status"`
	StartedAt        *time.Time       `json:"startedAt,omitempty"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	ActualSeconds    int              `gorm:"default:0" json:"actualSeconds"`
	PagesCompleted   int              `gorm:"default:0" json:"pagesCompleted"`
	QualityRating    int              `gorm:"default:0" json:"qualityRating"` // 读者自评 1-5
	EfficiencyPct    int              `gorm:"default:0" json:"efficiencyPct"`
	CompletionPct    int              `gorm:"default:0" json:"completionPct"`
	PerformanceLevel PerformanceLevel `gorm:"size:32" json:"performanceLevel,omitempty"`
}

func (Sprint) TableName() string {
	return "sprints"
}

// PlannedPages 冲刺计划覆盖的页数
func (s *Sprint) PlannedPages() int {
	return s.EndPage - s.StartPage + 1
}
