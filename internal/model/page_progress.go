package model

import "time"

// PageProgress 读者在某文档某页上的完成记录
type PageProgress struct {
	BaseModel
	UserID      uint       `gorm:"index:idx_user_doc_page,unique;type:bigint unsigned;not null" json:"userId"`
	DocumentID  string     `gorm:"index:idx_user_doc_page,unique;type:varchar(36);not null" json:"documentId"`
	PageNumber  int        `gorm:"index:idx_user_doc_page,unique;not null" json:"pageNumber"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	LastReadAt  time.Time  `json:"lastReadAt"`
}

func (PageProgress) TableName() string {
	return "page_progress"
}
