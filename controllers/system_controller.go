package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VeyTgo/todoquest/models"
	"github.com/VeyTgo/todoquest/progression"
	"github.com/VeyTgo/todoquest/utils"
)

const leaderboardCacheKey = "cache:leaderboard"

// SystemController hosts the daily reset trigger and public stats.
type SystemController struct {
	db  *gorm.DB
	svc *progression.Service
}

// NewSystemController creates a SystemController.
func NewSystemController(db *gorm.DB, svc *progression.Service) *SystemController {
	return &SystemController{db: db, svc: svc}
}

// DailyReset runs the daily reset sweep. Intended for cron-style callers; the
// sweep itself is idempotent per day so repeated calls are harmless.
func (s *SystemController) DailyReset(ctx *gin.Context) {
	summary, err := s.svc.RunDailyReset(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, progression.ErrClockUnavailable) {
			utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to obtain current date for reset")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "daily reset failed")
		return
	}

	if summary.StreaksBroken > 0 {
		utils.InvalidateByPrefix(leaderboardCacheKey)
	}

	utils.Success(ctx, gin.H{
		"message":        "daily reset complete",
		"quests_reset":   summary.QuestsReset,
		"streaks_broken": summary.StreaksBroken,
	})
}

// Leaderboard returns the top players ordered by level then XP, cached in
// Redis for a short window.
func (s *SystemController) Leaderboard(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(leaderboardCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var users []models.User
	if err := s.db.Order("level DESC, xp DESC, daily_streak DESC").Limit(10).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load leaderboard")
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i, u := range users {
		entries = append(entries, gin.H{
			"rank":             i + 1,
			"display_name":     u.DisplayName,
			"custom_player_id": u.CustomPlayerID,
			"level":            u.Level,
			"xp":               u.XP,
			"daily_streak":     u.DailyStreak,
		})
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"players": entries}}
	utils.CacheSetJSON(leaderboardCacheKey, wrapper, 5*time.Minute)
	utils.Success(ctx, gin.H{"players": entries})
}
