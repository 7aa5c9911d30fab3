package progression

import (
	"context"
	"errors"
	"time"

	"github.com/VeyTgo/todoquest/utils"
)

// StartDailySweeper launches a background goroutine that runs the daily reset
// on a fixed interval. The endpoint stays available for cron-style callers;
// this loop just guarantees the reset happens even without one. Best-effort:
// failures are logged and retried on the next tick.
func StartDailySweeper(svc *Service, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing the database at startup.
			time.Sleep(interval)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			summary, err := svc.RunDailyReset(ctx)
			cancel()
			if err != nil {
				if errors.Is(err, ErrClockUnavailable) {
					utils.Sugar.Warnf("background daily reset skipped: %v", err)
				} else {
					utils.Sugar.Errorf("background daily reset failed: %v", err)
				}
				continue
			}
			if summary.QuestsReset > 0 || summary.StreaksBroken > 0 {
				utils.Sugar.Infof("background daily reset: quests_reset=%d streaks_broken=%d",
					summary.QuestsReset, summary.StreaksBroken)
			}
		}
	}()
}
