package model

import "time"

// ProcessedEvent 已应用事件的去重记录，短期保留
type ProcessedEvent struct {
	EventID      string    `gorm:"primaryKey;type:varchar(64)" json:"eventId"`
	UserID       uint64    `gorm:"not null;index:idx_processed_user" json:"userId"`
	Topic        string    `gorm:"type:varchar(64);not null" json:"topic"`
	ActivityDate time.Time `gorm:"type:date;not null" json:"activityDate"`
	ProcessedAt  time.Time `gorm:"not null;index:idx_processed_at" json:"processedAt"`
}

func (ProcessedEvent) TableName() string {
	return "processed_events"
}
