package model

type StructuralComplexity string

const (
	ComplexityMinimal     StructuralComplexity = "minimal"
	ComplexitySimple      StructuralComplexity = "simple"
	ComplexityModerate    StructuralComplexity = "moderate"
	ComplexityComplex     StructuralComplexity = "complex"
	ComplexityVeryComplex StructuralComplexity = "very_complex"
)

// DocumentMetrics 文档级汇总指标
// 均值只统计字数非零的有效页，直方图与分布的计数和等于有效页数
// swagger:model DocumentMetrics
type DocumentMetrics struct {
	BaseModel
	DocumentID           string               `gorm:"uniqueIndex;type:varchar(36);not null" json:"documentId"`
	TotalWordCount       int                  `gorm:"default:0" json:"totalWordCount"`
	ValidPageCount       int                  `gorm:"default:0" json:"validPageCount"`
	AvgDifficulty        float64              `gorm:"default:0" json:"avgDifficulty"`
	AvgWordsPerPage      float64              `gorm:"default:0" json:"avgWordsPerPage"`
	DifficultyHistogram  string               `gorm:"type:text" json:"-"` // JSON: [5]int，按 1-5 档
	ContentTypeDist      string               `gorm:"type:text" json:"-"` // JSON: map[ContentType]int
	TOCPages             string               `gorm:"type:text" json:"-"` // JSON: []int
	AppendixPages        string               `gorm:"type:text" json:"-"` // JSON: []int
	BibliographyPages    string               `gorm:"type:text" json:"-"` // JSON: []int
	ChapterCount         int                  `gorm:"default:0" json:"chapterCount"`
	SectionCount         int                  `gorm:"default:0" json:"sectionCount"`
	StructuralComplexity StructuralComplexity `gorm:"size:16;default:'minimal'" json:"structuralComplexity"`
}

func (DocumentMetrics) TableName() string {
	return "document_metrics"
}

// DocumentMetricsView 把 JSON 文本列解码之后的指标视图，用于 API 响应与缓存
// swagger:model DocumentMetricsView
type DocumentMetricsView struct {
	DocumentID           string               `json:"documentId"`
	TotalWordCount       int                  `json:"totalWordCount"`
	ValidPageCount       int                  `json:"validPageCount"`
	AvgDifficulty        float64              `json:"avgDifficulty"`
	AvgWordsPerPage      float64              `json:"avgWordsPerPage"`
	DifficultyHistogram  [5]int               `json:"difficultyHistogram"`
	ContentTypeDist      map[ContentType]int  `json:"contentTypeDistribution"`
	TOCPages             []int                `json:"tocPages"`
	AppendixPages        []int                `json:"appendixPages"`
	BibliographyPages    []int                `json:"bibliographyPages"`
	ChapterCount         int                  `json:"chapterCount"`
	SectionCount         int                  `json:"sectionCount"`
	StructuralComplexity StructuralComplexity `json:"structuralComplexity"`
}

// TimeEstimate 文档阅读时长估算（即算即用，不入库）
// swagger:model TimeEstimate
type TimeEstimate struct {
	DocumentID     string             `json:"documentId"`
	PageSeconds    map[int]int        `json:"pageSeconds"`            // 页码 -> 秒，每页钳制在 [30,1800]
	TotalSeconds   int                `json:"totalSeconds"`
	LevelBreakdown map[int]int        `json:"levelBreakdown"`         // 难度档 -> 累计秒
	Personalized   bool               `json:"personalized"`           // 是否采用了读者历史均速
	Confidence     float64            `json:"confidence,omitempty"`   // 个性化估算的置信度，0-1
}
