package model

import "time"

type GoalStatus string

const (
	GoalOnTrack  GoalStatus = "on_track"
	GoalBehind   GoalStatus = "behind"
	GoalComplete GoalStatus = "completed"
	GoalExpired  GoalStatus = "expired"
)

// ExamGoal 考试目标：在考试日期前读完某文档
type ExamGoal struct {
	BaseModel
	UserID     uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	DocumentID string     `gorm:"index;type:varchar(36);not null" json:"documentId"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	ExamDate   time.Time  `gorm:"type:datetime;not null" json:"examDate"`
	Status     GoalStatus `gorm:"size:16;default:'on_track'" json:"status"`
}

func (ExamGoal) TableName() string {
	return "exam_goals"
}
