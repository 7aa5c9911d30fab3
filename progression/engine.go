package progression

import (
	"time"

	"github.com/VeyTgo/todoquest/models"
)

const (
	// XPPerLevel is the experience threshold carried over into a level-up.
	XPPerLevel = 100
	// CycleDays is the length of the rolling streak display cycle.
	CycleDays = 7
)

// DateLayout is the calendar date format used for streak and reset bookkeeping.
const DateLayout = "2006-01-02"

// ApplyCompletionToggle computes the new quest and user state for a completion
// toggle. It is pure: callers load both records, pass the target completion
// state plus the current date, and persist whatever comes back.
//
// today is the clock date ("YYYY-MM-DD") or empty when the clock fetch failed;
// an empty today skips streak bookkeeping but still applies the XP/level and
// quest field updates. now is used only for CompletedAt.
func ApplyCompletionToggle(user models.User, quest models.Quest, completed bool, today string, now time.Time) (models.Quest, models.User) {
	quest.IsCompleted = completed
	if completed {
		quest.CompletedAt = &now
	} else {
		quest.CompletedAt = nil
	}

	if completed {
		user.XP += quest.XP
	} else {
		user.XP -= quest.XP
		if user.XP < 0 {
			user.XP = 0
		}
	}

	// Carry overflow into level-ups. Levels are never revoked: un-completing
	// only lowers the XP remainder.
	for user.XP >= XPPerLevel {
		user.XP -= XPPerLevel
		user.Level++
	}

	if completed && today != "" {
		advanceStreak(&user, today)
	}

	return quest, user
}

// advanceStreak credits today's first completion to the streak. Later
// completions on the same day are no-ops, and un-completions never rewind
// streak fields.
func advanceStreak(user *models.User, today string) {
	if user.LastStreakUpdateDate != nil && *user.LastStreakUpdateDate == today {
		return
	}

	if user.LastStreakUpdateDate != nil && *user.LastStreakUpdateDate != PreviousDay(today) {
		user.DailyStreak = 0
		user.DaysCompletedThisCycle = 0
	}

	user.DailyStreak++
	user.DaysCompletedThisCycle = (user.DailyStreak-1)%CycleDays + 1
	user.LastStreakUpdateDate = &today
}

// StreakLapsed reports whether a streak last advanced on lastUpdate has
// expired by today: neither today itself nor the day before.
func StreakLapsed(lastUpdate, today string) bool {
	if lastUpdate == today {
		return false
	}
	return lastUpdate != PreviousDay(today)
}

// PreviousDay returns the calendar day before a "YYYY-MM-DD" date.
// Malformed input yields an empty string, which never matches a stored date.
func PreviousDay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}
