package model

import "time"

type DocumentStatus string

const (
	DocumentPending   DocumentStatus = "pending"
	DocumentAnalyzing DocumentStatus = "analyzing"
	DocumentReady     DocumentStatus = "ready"
	DocumentFailed    DocumentStatus = "failed"
)

// Document 用户上传的阅读材料（PDF）
// swagger:model Document
type Document struct {
	UUIDBase
	OwnerID      uint           `gorm:"index;type:bigint unsigned;not null" json:"ownerId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Author       string         `gorm:"size:255" json:"author"`
	FileName     string         `gorm:"size:255" json:"fileName"`
	StoragePath  string         `gorm:"size:512" json:"-"`
	FileSize     int64          `gorm:"default:0" json:"fileSize"`
	TotalPages   int            `gorm:"default:0" json:"totalPages"`
	Status       DocumentStatus `gorm:"type:enum('pending','analyzing','ready','failed');default:'pending'" json:"status"`
	PriorityRank int            `gorm:"default:3" json:"priorityRank"` // 1（最高）到 5（最低）
	LastActivity time.Time      `json:"lastActivity"`
}

func (Document) TableName() string {
	return "documents"
}

// DocumentPage 按页存储的抽取文本；抽取失败时 Text 为空且 ExtractFailed 置位
type DocumentPage struct {
	BaseModel
	DocumentID    string `gorm:"index:idx_doc_page,unique;type:varchar(36);not null"`
	PageNumber    int    `gorm:"index:idx_doc_page,unique;not null"`
	Text          string `gorm:"type:longtext"`
	ExtractFailed bool   `gorm:"default:false"`
}

func (DocumentPage) TableName() string {
	return "document_pages"
}
