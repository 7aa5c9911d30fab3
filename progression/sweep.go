package progression

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VeyTgo/todoquest/models"
	"github.com/VeyTgo/todoquest/utils"
)

// ResetSummary reports what a daily reset run changed.
type ResetSummary struct {
	QuestsReset   int64 `json:"quests_reset"`
	StreaksBroken int64 `json:"streaks_broken"`
}

const sweepBatchSize = 200

// RunDailyReset resets stale daily quests and breaks lapsed streaks.
//
// The clock is mandatory here: without a trustworthy date nothing is mutated
// and ErrClockUnavailable is returned. Both passes key every decision off the
// stored per-record date against today, so the sweep is idempotent within a
// day and safe to re-run after a missed day.
func (s *Service) RunDailyReset(ctx context.Context) (ResetSummary, error) {
	today, err := s.clock.Today(ctx)
	if err != nil {
		return ResetSummary{}, err
	}

	runID := uuid.NewString()
	var summary ResetSummary

	// Quest pass: one conditional bulk update. Rows already stamped with
	// today's date are skipped, which makes the second run a no-op.
	res := s.db.WithContext(ctx).Model(&models.Quest{}).
		Where("type = ? AND (last_reset_date IS NULL OR last_reset_date <> ?)", models.QuestTypeDaily, today).
		Updates(map[string]interface{}{
			"is_completed":    false,
			"completed_at":    nil,
			"last_reset_date": today,
		})
	if res.Error != nil {
		return summary, res.Error
	}
	summary.QuestsReset = res.RowsAffected

	// Streak pass: users credited today or yesterday are still in grace,
	// users with no streak date never started one. Individual update failures
	// are logged and skipped so one bad row cannot stall the batch.
	var users []models.User
	err = s.db.WithContext(ctx).
		Where("last_streak_update_date IS NOT NULL AND last_streak_update_date <> ?", today).
		FindInBatches(&users, sweepBatchSize, func(tx *gorm.DB, batch int) error {
			for _, u := range users {
				if u.LastStreakUpdateDate == nil || !StreakLapsed(*u.LastStreakUpdateDate, today) {
					continue
				}
				err := s.db.Model(&models.User{}).Where("id = ?", u.ID).
					Updates(map[string]interface{}{
						"daily_streak":              0,
						"days_completed_this_cycle": 0,
					}).Error
				if err != nil {
					if utils.Sugar != nil {
						utils.Sugar.Errorf("daily reset run=%s: breaking streak for user %d failed: %v", runID, u.ID, err)
					}
					continue
				}
				summary.StreaksBroken++
			}
			return nil
		}).Error
	if err != nil {
		return summary, err
	}

	if utils.Sugar != nil {
		utils.Sugar.Infof("daily reset run=%s date=%s quests_reset=%d streaks_broken=%d",
			runID, today, summary.QuestsReset, summary.StreaksBroken)
	}
	return summary, nil
}
