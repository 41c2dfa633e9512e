package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"exion/models"
	"exion/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the operator surface
type AdminHandler struct {
	users   service.UserService
	tasks   service.TaskService
	airdrop service.AirdropService
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(users service.UserService, tasks service.TaskService, airdrop service.AirdropService) *AdminHandler {
	return &AdminHandler{users: users, tasks: tasks, airdrop: airdrop}
}

// RegisterRoutes mounts the admin routes onto an already-guarded group
func (h *AdminHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/users", h.ListUsers)
	r.POST("/users/:id/balance", h.SetBalance)
	r.POST("/users/:id/status", h.SetStatus)
	r.POST("/users/:id/wallet", h.SetWallet)
	r.DELETE("/users/:id", h.DeleteUser)

	r.POST("/tasks", h.SaveTask)
	r.DELETE("/tasks/:id", h.DeleteTask)

	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)

	r.GET("/exports/allocations.csv", h.ExportAllocations)
	r.GET("/exports/users.csv", h.ExportUsers)
	r.GET("/exports/latest", h.LatestExport)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	respondOK(c, views)
}

func (h *AdminHandler) SetBalance(c *gin.Context) {
	var req struct {
		Balance *int64 `json:"balance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "balance is required")
		return
	}
	if *req.Balance < 0 {
		respondFail(c, http.StatusBadRequest, "balance must not be negative")
		return
	}

	if err := h.users.AdminSetBalance(c.Request.Context(), c.Param("id"), *req.Balance); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "status is required")
		return
	}

	status := models.UserStatus(req.Status)
	if status != models.UserStatusActive && status != models.UserStatusBanned {
		respondFail(c, http.StatusBadRequest, "status must be active or banned")
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), c.Param("id"), status, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *AdminHandler) SetWallet(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "address is required")
		return
	}

	if err := h.users.AdminSetWalletAddress(c.Request.Context(), c.Param("id"), req.Address); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *AdminHandler) SaveTask(c *gin.Context) {
	var task models.SocialTask
	if err := c.ShouldBindJSON(&task); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid task definition")
		return
	}

	if err := h.tasks.SaveTask(c.Request.Context(), &task); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, task)
}

func (h *AdminHandler) DeleteTask(c *gin.Context) {
	if err := h.tasks.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.airdrop.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, settings)
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var settings models.AppSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		respondFail(c, http.StatusBadRequest, "invalid settings")
		return
	}

	if err := h.airdrop.UpdateSettings(c.Request.Context(), &settings); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, &settings)
}

// ExportAllocations streams the airdrop allocation as CSV, one row per
// active user with a valid wallet address, amounts rendered to 4 decimal
// places.
func (h *AdminHandler) ExportAllocations(c *gin.Context) {
	rows, err := h.airdrop.ExportAllocations(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="allocations.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"wallet", "amount"})
	for _, row := range rows {
		if err := w.Write([]string{row.WalletAddress, fmt.Sprintf("%.4f", row.AirdropAmount)}); err != nil {
			logrus.WithError(err).Error("Failed to write allocation export row")
			return
		}
	}
	w.Flush()
}

// LatestExport returns the most recent export run summary; data is null when
// no export has run yet
func (h *AdminHandler) LatestExport(c *gin.Context) {
	run, err := h.airdrop.LatestExport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, run)
}

// ExportUsers streams the full user table as CSV for operator reporting
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="users.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{
		"id", "display_name", "balance", "status", "streak_count",
		"referral_code", "referrals", "wallet_address", "verification_status",
		"forge_count", "total_contributed_stars", "airdrop_committed", "created_at",
	})
	for _, u := range users {
		wallet := ""
		if u.WalletAddress != nil {
			wallet = *u.WalletAddress
		}
		record := []string{
			u.ID,
			u.DisplayName,
			strconv.FormatInt(u.Balance, 10),
			string(u.Status),
			strconv.Itoa(u.StreakCount),
			u.ReferralCode,
			strconv.Itoa(u.Referrals),
			wallet,
			string(u.VerificationStatus),
			strconv.Itoa(u.ForgeCount),
			strconv.FormatInt(u.TotalContributedStars, 10),
			strconv.FormatBool(u.AirdropCommitted),
			u.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			logrus.WithError(err).Error("Failed to write user export row")
			return
		}
	}
	w.Flush()
}
