package progression

import (
	"testing"
	"time"

	"github.com/VeyTgo/todoquest/models"
)

func strptr(s string) *string { return &s }

var testNow = time.Date(2024, 1, 11, 15, 30, 0, 0, time.UTC)

func TestCompleteAwardsXP(t *testing.T) {
	user := models.User{ID: 1, XP: 10, Level: 1}
	quest := models.Quest{ID: 5, UserID: 1, Name: "Apply for a job", XP: 25, Type: models.QuestTypeOnce}

	q, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if !q.IsCompleted {
		t.Error("quest should be completed")
	}
	if q.CompletedAt == nil || !q.CompletedAt.Equal(testNow) {
		t.Errorf("completed_at = %v, want %v", q.CompletedAt, testNow)
	}
	if u.XP != 35 {
		t.Errorf("xp = %d, want 35", u.XP)
	}
	if u.Level != 1 {
		t.Errorf("level = %d, want 1", u.Level)
	}
}

func TestLevelUpCarriesOverflow(t *testing.T) {
	// xp=90, level=2, completing a 30-xp quest => xp=20, level=3.
	user := models.User{ID: 1, XP: 90, Level: 2}
	quest := models.Quest{ID: 5, UserID: 1, XP: 30}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if u.XP != 20 {
		t.Errorf("xp = %d, want 20", u.XP)
	}
	if u.Level != 3 {
		t.Errorf("level = %d, want 3", u.Level)
	}
}

func TestLevelUpMultipleLevels(t *testing.T) {
	user := models.User{ID: 1, XP: 50, Level: 1}
	quest := models.Quest{ID: 5, UserID: 1, XP: 260}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if u.XP != 10 {
		t.Errorf("xp = %d, want 10", u.XP)
	}
	if u.Level != 4 {
		t.Errorf("level = %d, want 4", u.Level)
	}
	if u.XP < 0 || u.XP >= XPPerLevel {
		t.Errorf("xp %d outside [0,%d)", u.XP, XPPerLevel)
	}
}

func TestUncompleteClawsBackXP(t *testing.T) {
	user := models.User{ID: 1, XP: 40, Level: 2}
	quest := models.Quest{ID: 5, UserID: 1, XP: 25, IsCompleted: true, CompletedAt: &testNow}

	q, u := ApplyCompletionToggle(user, quest, false, "2024-01-11", testNow)

	if q.IsCompleted {
		t.Error("quest should no longer be completed")
	}
	if q.CompletedAt != nil {
		t.Errorf("completed_at = %v, want nil", q.CompletedAt)
	}
	if u.XP != 15 {
		t.Errorf("xp = %d, want 15", u.XP)
	}
	if u.Level != 2 {
		t.Errorf("level should never drop, got %d", u.Level)
	}
}

func TestUncompleteFloorsAtZero(t *testing.T) {
	user := models.User{ID: 1, XP: 10, Level: 3}
	quest := models.Quest{ID: 5, UserID: 1, XP: 50, IsCompleted: true}

	_, u := ApplyCompletionToggle(user, quest, false, "2024-01-11", testNow)

	if u.XP != 0 {
		t.Errorf("xp = %d, want 0", u.XP)
	}
	if u.Level != 3 {
		t.Errorf("level = %d, want 3", u.Level)
	}
}

func TestCompleteUncompleteRoundTrip(t *testing.T) {
	user := models.User{ID: 1, XP: 70, Level: 2}
	quest := models.Quest{ID: 5, UserID: 1, XP: 45}

	q, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)
	if u.XP != 15 || u.Level != 3 {
		t.Fatalf("after complete: xp=%d level=%d, want 15/3", u.XP, u.Level)
	}

	_, u2 := ApplyCompletionToggle(u, q, false, "2024-01-11", testNow)

	// XP remainder comes back down but the earned level stays; streak fields
	// stay advanced as well (documented asymmetry).
	if u2.XP != 0 {
		t.Errorf("xp = %d, want 0 after claw-back", u2.XP)
	}
	if u2.Level != 3 {
		t.Errorf("level = %d, want 3 (never revoked)", u2.Level)
	}
	if u2.DailyStreak != 1 {
		t.Errorf("streak = %d, want 1 (never reverted by un-completion)", u2.DailyStreak)
	}
	if u2.LastStreakUpdateDate == nil || *u2.LastStreakUpdateDate != "2024-01-11" {
		t.Errorf("last streak date = %v, want 2024-01-11", u2.LastStreakUpdateDate)
	}
}

func TestStreakFirstEver(t *testing.T) {
	user := models.User{ID: 1}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if u.DailyStreak != 1 {
		t.Errorf("streak = %d, want 1", u.DailyStreak)
	}
	if u.DaysCompletedThisCycle != 1 {
		t.Errorf("cycle day = %d, want 1", u.DaysCompletedThisCycle)
	}
	if u.LastStreakUpdateDate == nil || *u.LastStreakUpdateDate != "2024-01-11" {
		t.Errorf("last streak date = %v, want 2024-01-11", u.LastStreakUpdateDate)
	}
}

func TestStreakContinuesNextDay(t *testing.T) {
	user := models.User{ID: 1, DailyStreak: 3, DaysCompletedThisCycle: 3, LastStreakUpdateDate: strptr("2024-01-10")}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if u.DailyStreak != 4 {
		t.Errorf("streak = %d, want 4", u.DailyStreak)
	}
	if u.DaysCompletedThisCycle != 4 {
		t.Errorf("cycle day = %d, want 4", u.DaysCompletedThisCycle)
	}
}

func TestStreakBrokenBySkippedDay(t *testing.T) {
	// Last credit on the 10th, next completion on the 13th: streak restarts.
	user := models.User{ID: 1, DailyStreak: 3, DaysCompletedThisCycle: 3, LastStreakUpdateDate: strptr("2024-01-10")}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-13", testNow)

	if u.DailyStreak != 1 {
		t.Errorf("streak = %d, want 1 after break", u.DailyStreak)
	}
	if u.DaysCompletedThisCycle != 1 {
		t.Errorf("cycle day = %d, want 1", u.DaysCompletedThisCycle)
	}
	if *u.LastStreakUpdateDate != "2024-01-13" {
		t.Errorf("last streak date = %s, want 2024-01-13", *u.LastStreakUpdateDate)
	}
}

func TestStreakSameDayNoOp(t *testing.T) {
	user := models.User{ID: 1, DailyStreak: 4, DaysCompletedThisCycle: 4, LastStreakUpdateDate: strptr("2024-01-11")}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if u.DailyStreak != 4 {
		t.Errorf("streak = %d, want 4 (already credited today)", u.DailyStreak)
	}
	if u.DaysCompletedThisCycle != 4 {
		t.Errorf("cycle day = %d, want 4", u.DaysCompletedThisCycle)
	}
}

func TestStreakCycleWrapsAtSeven(t *testing.T) {
	user := models.User{ID: 1, DailyStreak: 7, DaysCompletedThisCycle: 7, LastStreakUpdateDate: strptr("2024-01-10")}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10}

	_, u := ApplyCompletionToggle(user, quest, true, "2024-01-11", testNow)

	if u.DailyStreak != 8 {
		t.Errorf("streak = %d, want 8", u.DailyStreak)
	}
	if u.DaysCompletedThisCycle != 1 {
		t.Errorf("cycle day = %d, want 1 after wrap", u.DaysCompletedThisCycle)
	}
}

func TestStreakCycleInvariant(t *testing.T) {
	user := models.User{ID: 1}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10}

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		today := day.AddDate(0, 0, i).Format(DateLayout)
		_, user = ApplyCompletionToggle(user, quest, true, today, testNow)

		if user.DaysCompletedThisCycle < 1 || user.DaysCompletedThisCycle > CycleDays {
			t.Fatalf("day %d: cycle day %d outside [1,%d]", i, user.DaysCompletedThisCycle, CycleDays)
		}
		want := (user.DailyStreak-1)%CycleDays + 1
		if user.DaysCompletedThisCycle != want {
			t.Fatalf("day %d: cycle day = %d, want %d", i, user.DaysCompletedThisCycle, want)
		}
	}
	if user.DailyStreak != 20 {
		t.Errorf("streak = %d, want 20", user.DailyStreak)
	}
}

func TestClockFailureSkipsStreakOnly(t *testing.T) {
	user := models.User{ID: 1, XP: 90, Level: 1, DailyStreak: 2, LastStreakUpdateDate: strptr("2024-01-10")}
	quest := models.Quest{ID: 5, UserID: 1, XP: 20}

	q, u := ApplyCompletionToggle(user, quest, true, "", testNow)

	if !q.IsCompleted {
		t.Error("quest should be completed despite missing date")
	}
	if u.XP != 10 || u.Level != 2 {
		t.Errorf("xp/level = %d/%d, want 10/2", u.XP, u.Level)
	}
	if u.DailyStreak != 2 || *u.LastStreakUpdateDate != "2024-01-10" {
		t.Errorf("streak fields must be untouched, got streak=%d date=%v", u.DailyStreak, u.LastStreakUpdateDate)
	}
}

func TestUncompleteNeverTouchesStreak(t *testing.T) {
	user := models.User{ID: 1, XP: 50, DailyStreak: 5, DaysCompletedThisCycle: 5, LastStreakUpdateDate: strptr("2024-01-10")}
	quest := models.Quest{ID: 5, UserID: 1, XP: 10, IsCompleted: true}

	// Un-completing on a later day must not break or advance anything.
	_, u := ApplyCompletionToggle(user, quest, false, "2024-01-13", testNow)

	if u.DailyStreak != 5 || u.DaysCompletedThisCycle != 5 {
		t.Errorf("streak fields changed: streak=%d cycle=%d", u.DailyStreak, u.DaysCompletedThisCycle)
	}
	if *u.LastStreakUpdateDate != "2024-01-10" {
		t.Errorf("last streak date = %s, want 2024-01-10", *u.LastStreakUpdateDate)
	}
}

func TestPreviousDay(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2024-01-11", "2024-01-10"},
		{"2024-01-01", "2023-12-31"},
		{"2024-03-01", "2024-02-29"}, // leap year
		{"2023-03-01", "2023-02-28"},
		{"not-a-date", ""},
	}
	for _, c := range cases {
		if got := PreviousDay(c.in); got != c.want {
			t.Errorf("PreviousDay(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
