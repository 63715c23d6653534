package model

// Chapter 章的页码跨度，由按页顺序的标题识别顺序推导
type Chapter struct {
	BaseModel
	DocumentID string    `gorm:"index;type:varchar(36);not null" json:"documentId"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	StartPage  int       `gorm:"not null" json:"startPage"`
	EndPage    int       `gorm:"not null" json:"endPage"`
	Sections   []Section `gorm:"foreignKey:ChapterID" json:"sections,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// Section 节的页码跨度，归属于某一章（文档前言中的节 ChapterID 为 0）
type Section struct {
	BaseModel
	DocumentID string `gorm:"index;type:varchar(36);not null" json:"documentId"`
	ChapterID  uint   `gorm:"index" json:"chapterId"`
	Title      string `gorm:"size:255;not null" json:"title"`
	StartPage  int    `gorm:"not null" json:"startPage"`
	EndPage    int    `gorm:"not null" json:"endPage"`
}

func (Section) TableName() string {
	return "sections"
}

// DocumentStructure 文档级结构轮廓（控制器响应用，不直接入库）
// swagger:model DocumentStructure
type DocumentStructure struct {
	Chapters          []Chapter `json:"chapters"`
	Sections          []Section `json:"sections"`
	TOCPages          []int     `json:"tocPages"`
	AppendixPages     []int     `json:"appendixPages"`
	BibliographyPages []int     `json:"bibliographyPages"`
}
