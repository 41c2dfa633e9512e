package api

import (
	"net/http"
	"time"

	"exion/models"
	"exion/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the self-service flows of the Mini App
type UserHandler struct {
	users        service.UserService
	rewards      service.RewardService
	achievements service.AchievementService
	tasks        service.TaskService
	forging      service.ForgingService
	airdrop      service.AirdropService
	stats        service.StatsService
}

// NewUserHandler creates the user-facing handler
func NewUserHandler(
	users service.UserService,
	rewards service.RewardService,
	achievements service.AchievementService,
	tasks service.TaskService,
	forging service.ForgingService,
	airdrop service.AirdropService,
	stats service.StatsService,
) *UserHandler {
	return &UserHandler{
		users:        users,
		rewards:      rewards,
		achievements: achievements,
		tasks:        tasks,
		forging:      forging,
		airdrop:      airdrop,
		stats:        stats,
	}
}

// RegisterRoutes mounts the user-facing routes
func (h *UserHandler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/v1")

	v1.POST("/users", h.GetOrCreate)
	v1.GET("/users/me", h.Me)
	v1.POST("/users/me/wallet", h.SetWallet)
	v1.POST("/users/me/verification", h.SetVerification)
	v1.GET("/users/me/history", h.History)

	v1.POST("/rewards/onboard", h.Onboard)
	v1.POST("/rewards/daily-login", h.DailyLogin)
	v1.POST("/rewards/boosts", h.PurchaseBoost)
	v1.POST("/rewards/contributions", h.Contribute)
	v1.POST("/rewards/achievements/claim", h.ClaimAchievements)

	v1.GET("/tasks", h.ListTasks)
	v1.POST("/tasks/welcome/:id/complete", h.CompleteWelcomeTask)
	v1.POST("/tasks/:id/complete", h.CompleteSocialTask)

	v1.POST("/forging/start", h.StartForging)
	v1.POST("/forging/claim", h.ClaimForging)

	v1.GET("/airdrop/allocation", h.Allocation)
	v1.POST("/airdrop/commit", h.Commit)

	v1.GET("/stats", h.GlobalStats)
	v1.GET("/leaderboard", h.Leaderboard)
}

// userView is the JSON shape of a user record returned to its owner
type userView struct {
	ID                    string     `json:"id"`
	DisplayName           string     `json:"displayName"`
	Balance               int64      `json:"balance"`
	Status                string     `json:"status"`
	HasOnboarded          bool       `json:"hasOnboarded"`
	StreakCount           int        `json:"streakCount"`
	ReferralCode          string     `json:"referralCode"`
	Referrals             int        `json:"referrals"`
	WalletAddress         *string    `json:"walletAddress"`
	VerificationStatus    string     `json:"verificationStatus"`
	ForgingEndTime        *time.Time `json:"forgingEndTime"`
	ForgeCount            int        `json:"forgeCount"`
	WelcomeTasks          []string   `json:"welcomeTasks"`
	CompletedSocialTasks  []string   `json:"completedSocialTasks"`
	ClaimedAchievements   []string   `json:"claimedAchievements"`
	PurchasedBoosts       []string   `json:"purchasedBoosts"`
	TotalContributedStars int64      `json:"totalContributedStars"`
	AirdropCommitted      bool       `json:"airdropCommitted"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:                    u.ID,
		DisplayName:           u.DisplayName,
		Balance:               u.Balance,
		Status:                string(u.Status),
		HasOnboarded:          u.HasOnboarded,
		StreakCount:           u.StreakCount,
		ReferralCode:          u.ReferralCode,
		Referrals:             u.Referrals,
		WalletAddress:         u.WalletAddress,
		VerificationStatus:    string(u.VerificationStatus),
		ForgingEndTime:        u.ForgingEndTime,
		ForgeCount:            u.ForgeCount,
		WelcomeTasks:          u.WelcomeTasks,
		CompletedSocialTasks:  u.CompletedSocialTasks,
		ClaimedAchievements:   u.ClaimedAchievements,
		PurchasedBoosts:       u.PurchasedBoosts,
		TotalContributedStars: u.TotalContributedStars,
		AirdropCommitted:      u.AirdropCommitted,
	}
}

func (h *UserHandler) GetOrCreate(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	user, err := h.users.GetOrCreateUser(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toUserView(user))
}

func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toUserView(user))
}

func (h *UserHandler) SetWallet(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "address is required")
		return
	}

	if err := h.users.SetWalletAddress(c.Request.Context(), identity, req.Address); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *UserHandler) SetVerification(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		Verified    bool   `json:"verified"`
		Fingerprint string `json:"fingerprint"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	status := models.VerificationFailed
	if req.Verified {
		status = models.VerificationVerified
	}

	if err := h.users.SetVerification(c.Request.Context(), identity, status, req.Fingerprint); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *UserHandler) History(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := parsePositiveInt(raw); err == nil {
			limit = parsed
		}
	}

	history, err := h.users.GetBalanceHistory(c.Request.Context(), identity, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, history)
}

func (h *UserHandler) Onboard(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		ReferralCode string `json:"referralCode"`
	}
	// Body is optional; onboarding without a referral code is the common case
	_ = c.ShouldBindJSON(&req)

	result, err := h.rewards.Onboard(c.Request.Context(), identity, req.ReferralCode)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) DailyLogin(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	result, err := h.rewards.DailyLogin(c.Request.Context(), identity, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) PurchaseBoost(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		BoostID string `json:"boostId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "boostId is required")
		return
	}

	result, err := h.rewards.PurchaseBoost(c.Request.Context(), identity, req.BoostID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) Contribute(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "amount is required")
		return
	}

	result, err := h.rewards.Contribute(c.Request.Context(), identity, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) ClaimAchievements(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	result, err := h.achievements.ClaimAchievements(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) ListTasks(c *gin.Context) {
	tasks, err := h.tasks.ListTasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tasks)
}

func (h *UserHandler) CompleteWelcomeTask(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		IsMember bool `json:"isMember"`
	}
	_ = c.ShouldBindJSON(&req)

	result, err := h.tasks.CompleteWelcomeTask(c.Request.Context(), identity, c.Param("id"), req.IsMember)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) CompleteSocialTask(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	result, err := h.tasks.CompleteSocialTask(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) StartForging(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	result, err := h.forging.StartForging(c.Request.Context(), identity, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) ClaimForging(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	result, err := h.forging.ClaimForging(c.Request.Context(), identity, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) Allocation(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	preview, err := h.airdrop.AllocationPreview(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, preview)
}

func (h *UserHandler) Commit(c *gin.Context) {
	identity, ok := identityFromRequest(c)
	if !ok {
		return
	}

	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "address is required")
		return
	}

	result, err := h.airdrop.Commit(c.Request.Context(), identity, req.Address, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

func (h *UserHandler) GlobalStats(c *gin.Context) {
	stats, err := h.stats.GetGlobalStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

func (h *UserHandler) Leaderboard(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := parsePositiveInt(raw); err == nil {
			limit = parsed
		}
	}

	entries, err := h.stats.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entries)
}
