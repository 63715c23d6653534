package model

type ContentType string

const (
	ContentTypeCode         ContentType = "code"
	ContentTypeMathematical ContentType = "mathematical"
	ContentTypeTechnicalRef ContentType = "technical_reference"
	ContentTypeAcademicText ContentType = "academic_text"
	ContentTypeSummaryNotes ContentType = "summary_notes"
	ContentTypeMinimal      ContentType = "minimal_content"
	ContentTypeDenseText    ContentType = "dense_text"
	ContentTypeStandardText ContentType = "standard_text"
)

type SpecialPage string

const (
	SpecialNone         SpecialPage = ""
	SpecialTOC          SpecialPage = "toc"
	SpecialAppendix     SpecialPage = "appendix"
	SpecialBibliography SpecialPage = "bibliography"
)

// PageAnalysis 单页的词法指标与难度评分
// 抽取失败或空白页也会产生一条兜底记录（难度 3、计数为 0），不会缺行
// swagger:model PageAnalysis
type PageAnalysis struct {
	BaseModel
	DocumentID          string      `gorm:"index:idx_doc_analysis,unique;type:varchar(36);not null" json:"documentId"`
	PageNumber          int         `gorm:"index:idx_doc_analysis,unique;not null" json:"pageNumber"`
	WordCount           int         `gorm:"default:0" json:"wordCount"`
	SentenceCount       int         `gorm:"default:0" json:"sentenceCount"`
	ParagraphCount      int         `gorm:"default:0" json:"paragraphCount"`
	AvgWordsPerSentence float64     `gorm:"default:0" json:"avgWordsPerSentence"`
	AvgSyllablesPerWord float64     `gorm:"default:0" json:"avgSyllablesPerWord"`
	ComplexWordCount    int         `gorm:"default:0" json:"complexWordCount"`
	TechnicalTermCount  int         `gorm:"default:0" json:"technicalTermCount"`
	DifficultyScore     float64     `gorm:"default:3" json:"difficultyScore"` // 连续值，[1,5]
	DifficultyLevel     int         `gorm:"default:3" json:"difficultyLevel"` // 取整后的 1-5 档
	ContentType         ContentType `gorm:"size:32;default:'standard_text'" json:"contentType"`
	IsHeadingPage       bool        `gorm:"default:false" json:"isHeadingPage"`
	HasBullets          bool        `gorm:"default:false" json:"hasBullets"`
	HasImages           bool        `gorm:"default:false" json:"hasImages"`
	HasEquations        bool        `gorm:"default:false" json:"hasEquations"`
	HasCode             bool        `gorm:"default:false" json:"hasCode"`
	ChapterTitle        string      `gorm:"size:255" json:"chapterTitle,omitempty"`
	SectionTitle        string      `gorm:"size:255" json:"sectionTitle,omitempty"`
	SpecialPage         SpecialPage `gorm:"size:16" json:"specialPage,omitempty"` // toc / appendix / bibliography
	Fallback            bool        `gorm:"default:false" json:"fallback"` // 文本为空或抽取失败时的兜底分析
}

func (PageAnalysis) TableName() string {
	return "page_analyses"
}
