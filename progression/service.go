package progression

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VeyTgo/todoquest/models"
)

var (
	// ErrQuestNotFound covers both a missing quest and an ownership mismatch.
	ErrQuestNotFound = errors.New("quest not found")
	// ErrUserNotFound is returned when the owning user record is missing.
	ErrUserNotFound = errors.New("user not found")
)

// Service owns the progression flows: completion toggles and the daily reset
// sweep. It holds no per-user state; the database and clock are injected once
// at boot.
type Service struct {
	db    *gorm.DB
	clock Clock
}

// NewService creates a Service around the given collaborators.
func NewService(db *gorm.DB, clock Clock) *Service {
	return &Service{db: db, clock: clock}
}

// ToggleCompletion flips a quest's completion state and applies the resulting
// XP/level/streak bookkeeping to its owner. The quest and user rows are
// updated in one transaction with the user row locked, so concurrent toggles
// by the same user serialize instead of double-applying XP.
//
// A clock failure is soft here: the toggle proceeds with streak fields left
// untouched.
func (s *Service) ToggleCompletion(ctx context.Context, userID, questID uint) (models.Quest, models.User, error) {
	// Fetch the date before opening the transaction to keep the lock window
	// free of network waits.
	today := todaySoft(ctx, s.clock)
	now := time.Now()

	var quest models.Quest
	var user models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Where("id = ? AND user_id = ?", questID, userID).First(&quest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuestNotFound
			}
			return err
		}

		quest, user = ApplyCompletionToggle(user, quest, !quest.IsCompleted, today, now)

		if err := tx.Model(&models.Quest{}).Where("id = ?", quest.ID).
			Select("is_completed", "completed_at").
			Updates(map[string]interface{}{
				"is_completed": quest.IsCompleted,
				"completed_at": quest.CompletedAt,
			}).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Select("xp", "level", "daily_streak", "days_completed_this_cycle", "last_streak_update_date").
			Updates(map[string]interface{}{
				"xp":                        user.XP,
				"level":                     user.Level,
				"daily_streak":              user.DailyStreak,
				"days_completed_this_cycle": user.DaysCompletedThisCycle,
				"last_streak_update_date":   user.LastStreakUpdateDate,
			}).Error
	})
	if err != nil {
		return models.Quest{}, models.User{}, err
	}

	return quest, user, nil
}

// CreationResetDate supplies the LastResetDate for a newly created daily
// quest, or nil when the clock is unavailable.
func (s *Service) CreationResetDate(ctx context.Context) *string {
	today := todaySoft(ctx, s.clock)
	if today == "" {
		return nil
	}
	return &today
}
