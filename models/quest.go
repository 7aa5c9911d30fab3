package models

import (
	"time"

	"gorm.io/gorm"
)

// Quest types. Anything other than "daily" behaves as a one-off.
const (
	QuestTypeDaily = "daily"
	QuestTypeOnce  = "once"
)

// Quest is a task owned by exactly one user. Daily quests carry a
// LastResetDate ("YYYY-MM-DD") recording the last day the reset sweep
// flipped them back to incomplete; one-off quests keep it nil.
type Quest struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"index;not null" json:"user_id"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	XP            int        `gorm:"not null" json:"xp"`
	Type          string     `gorm:"size:16;not null" json:"type"`
	IsCompleted   bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at"`
	LastResetDate *string    `gorm:"size:10" json:"last_reset_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsDaily reports whether the quest participates in the daily reset sweep.
func (q *Quest) IsDaily() bool {
	return q.Type == QuestTypeDaily
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (q *Quest) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (q *Quest) BeforeUpdate(tx *gorm.DB) error {
	q.UpdatedAt = time.Now()
	return nil
}
