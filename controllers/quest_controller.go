package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VeyTgo/todoquest/models"
	"github.com/VeyTgo/todoquest/progression"
	"github.com/VeyTgo/todoquest/utils"
)

// QuestController handles quest CRUD and completion toggles.
type QuestController struct {
	db  *gorm.DB
	svc *progression.Service
}

// NewQuestController creates a QuestController.
func NewQuestController(db *gorm.DB, svc *progression.Service) *QuestController {
	return &QuestController{db: db, svc: svc}
}

// CreateQuest adds a quest for the authenticated user. Daily quests are
// stamped with today's date so the reset sweep skips them until tomorrow; if
// the clock is unreachable the stamp stays null and the next sweep fills it.
func (q *QuestController) CreateQuest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,max=255"`
		XP   int    `json:"xp" binding:"required"`
		Type string `json:"type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "name, xp and type are required")
		return
	}
	if req.XP <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "xp must be a positive number")
		return
	}
	questType := strings.ToLower(strings.TrimSpace(req.Type))
	if questType != models.QuestTypeDaily {
		questType = models.QuestTypeOnce
	}

	quest := models.Quest{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		XP:     req.XP,
		Type:   questType,
	}
	if quest.IsDaily() {
		quest.LastResetDate = q.svc.CreationResetDate(ctx.Request.Context())
	}

	if err := q.db.Create(&quest).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to create quest")
		return
	}

	utils.Created(ctx, "quest created", quest)
}

// ListQuests returns the authenticated user's quests, newest first.
func (q *QuestController) ListQuests(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var quests []models.Quest
	if err := q.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&quests).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to retrieve quests")
		return
	}

	utils.Success(ctx, quests)
}

// ToggleQuest flips a quest's completion state and returns the resulting
// quest and user records.
func (q *QuestController) ToggleQuest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	questID, err := parseIDParam(ctx, "id")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid quest id")
		return
	}

	quest, user, err := q.svc.ToggleCompletion(ctx.Request.Context(), userID, questID)
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrQuestNotFound):
			utils.Error(ctx, http.StatusNotFound, 40410, "quest not found or not yours")
		case errors.Is(err, progression.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to update quest status")
		}
		return
	}

	// Progression moved; any cached leaderboard is stale now.
	utils.InvalidateByPrefix(leaderboardCacheKey)

	utils.Success(ctx, gin.H{
		"updated_quest": quest,
		"updated_user":  userResponse(user),
	})
}

// DeleteQuest removes one of the authenticated user's quests.
func (q *QuestController) DeleteQuest(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	questID, err := parseIDParam(ctx, "id")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid quest id")
		return
	}

	res := q.db.Where("id = ? AND user_id = ?", questID, userID).Delete(&models.Quest{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to delete quest")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40410, "quest not found or not yours")
		return
	}

	utils.Success(ctx, gin.H{"message": "quest deleted"})
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
