package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VeyTgo/todoquest/middleware"
	"github.com/VeyTgo/todoquest/models"
	"github.com/VeyTgo/todoquest/utils"
)

const tokenLifetime = 24 * time.Hour

// AuthController handles registration, login and profile endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Register handles account creation with bcrypt hashing. New players start at
// level 1 with zero XP and no streak, and get a sequential player number.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Password string `json:"password" binding:"required,min=6"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "username and password are required; password must be at least 6 characters")
		return
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username must not be empty")
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		Username:     username,
		DisplayName:  strings.TrimSpace(req.Username),
		PasswordHash: hash,
		Bio:          "A brave adventurer!",
		Level:        1,
		RegisterIP:   ctx.ClientIP(),
	}

	// Player numbers come from a named counter row, bumped inside the same
	// transaction that creates the user.
	err = a.db.Transaction(func(tx *gorm.DB) error {
		counter := models.Counter{Name: models.CounterPlayer}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(models.Counter{Name: models.CounterPlayer}).
			FirstOrCreate(&counter).Error; err != nil {
			return err
		}
		counter.Count++
		if err := tx.Save(&counter).Error; err != nil {
			return err
		}
		user.CustomPlayerID = counter.Count
		return tx.Create(&user).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Created(ctx, "user created", gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", strings.ToLower(strings.TrimSpace(req.Username))).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// State returns the current user's full progression state.
func (a *AuthController) State(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	utils.Success(ctx, userResponse(user))
}

// UpdateProfile allows the authenticated user to update display name, bio and
// profile picture URL. Text fields are sanitized, and only provided fields
// change.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}

	var req struct {
		DisplayName    *string `json:"display_name"`
		Bio            *string `json:"bio"`
		ProfilePicture *string `json:"profile_picture"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	if req.DisplayName == nil && req.Bio == nil && req.ProfilePicture == nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "no fields to update")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	if req.DisplayName != nil {
		user.DisplayName = clampRunes(utils.SanitizeProfileText(strings.TrimSpace(*req.DisplayName)), 64)
	}
	if req.Bio != nil {
		user.Bio = clampRunes(utils.SanitizeProfileText(strings.TrimSpace(*req.Bio)), 255)
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = strings.TrimSpace(*req.ProfilePicture)
	}

	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to update profile")
		return
	}

	utils.Success(ctx, userResponse(user))
}

func clampRunes(s string, n int) string {
	rs := []rune(s)
	if len(rs) > n {
		return string(rs[:n])
	}
	return s
}

// userResponse strips credentials from the user record.
func userResponse(user models.User) gin.H {
	return gin.H{
		"id":                        user.ID,
		"username":                  user.Username,
		"display_name":              user.DisplayName,
		"bio":                       user.Bio,
		"profile_picture":           user.ProfilePicture,
		"custom_player_id":          user.CustomPlayerID,
		"xp":                        user.XP,
		"level":                     user.Level,
		"daily_streak":              user.DailyStreak,
		"days_completed_this_cycle": user.DaysCompletedThisCycle,
		"last_streak_update_date":   user.LastStreakUpdateDate,
		"created_at":                user.CreatedAt,
	}
}
