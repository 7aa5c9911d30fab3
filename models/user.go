package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a player account. Passwords are stored as bcrypt hashes only.
//
// Progression fields: XP is always kept below 100 after level normalization,
// Level only grows, and LastStreakUpdateDate holds the "YYYY-MM-DD" day on
// which a quest completion last advanced the streak (nil until the first one).
type User struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	Username               string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	DisplayName            string         `gorm:"size:64" json:"display_name"`
	PasswordHash           string         `gorm:"size:255" json:"-"`
	Bio                    string         `gorm:"size:255" json:"bio"`
	ProfilePicture         string         `gorm:"size:512" json:"profile_picture"`
	XP                     int            `gorm:"default:0" json:"xp"`
	Level                  int            `gorm:"default:1" json:"level"`
	DailyStreak            int            `gorm:"default:0" json:"daily_streak"`
	DaysCompletedThisCycle int            `gorm:"default:0" json:"days_completed_this_cycle"`
	LastStreakUpdateDate   *string        `gorm:"size:10" json:"last_streak_update_date"`
	CustomPlayerID         int            `gorm:"default:0" json:"custom_player_id"`
	RegisterIP             string         `gorm:"size:45" json:"-"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
	Quests                 []Quest        `json:"-"`
}

// BeforeCreate hook ensures defaults and timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
