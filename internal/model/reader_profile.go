package model

import "time"

// ReaderProfile 读者画像：阅读速度、连续天数、经验值与等级
// 首次活动时以中性默认值创建，之后只由反馈引擎更新，本引擎不会删除
// swagger:model ReaderProfile
type ReaderProfile struct {
	BaseModel
	UserID                  uint      `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	AvgSecondsPerPage       float64   `gorm:"default:120" json:"avgSecondsPerPage"`
	PreferredSessionMinutes int       `gorm:"default:30" json:"preferredSessionMinutes"`
	CurrentStreak           int       `gorm:"default:0" json:"currentStreak"`
	LongestStreak           int       `gorm:"default:0" json:"longestStreak"`
	LastActivityDate        time.Time `json:"lastActivityDate"`
	TotalXP                 int       `gorm:"default:0" json:"totalXp"`
	Level                   int       `gorm:"default:1" json:"level"`
	FocusScore              float64   `gorm:"default:0.8" json:"focusScore"` // 近期专注度的滚动均值，0-1
	PeakHour                *int      `json:"peakHour,omitempty"`            // 表现最佳的小时（0-23），未知为 nil
	TotalPagesRead          int       `gorm:"default:0" json:"totalPagesRead"`
	TotalReadingSeconds     int       `gorm:"default:0" json:"totalReadingSeconds"`
	SessionCount            int       `gorm:"default:0" json:"sessionCount"`
	AvgSessionSeconds       float64   `gorm:"default:0" json:"avgSessionSeconds"`
}

func (ReaderProfile) TableName() string {
	return "reader_profiles"
}

// NewReaderProfile 以中性默认值创建画像（120 秒/页，30 分钟偏好时长）
func NewReaderProfile(userID uint) *ReaderProfile {
	return &ReaderProfile{
		UserID:                  userID,
		AvgSecondsPerPage:       120,
		PreferredSessionMinutes: 30,
		Level:                   1,
		FocusScore:              0.8,
	}
}
