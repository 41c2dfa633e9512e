package api

import (
	"errors"
	"net/http"

	"exion/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Response is the envelope every JSON endpoint returns
type Response struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondFail(c *gin.Context, status int, reason string) {
	c.JSON(status, Response{Success: false, Reason: reason})
}

// sentinelStatus maps a service sentinel to its HTTP status and reason string
var sentinelStatus = []struct {
	err    error
	status int
	reason string
}{
	{service.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{service.ErrBoostAlreadyActive, http.StatusConflict, "boost already active"},
	{service.ErrContributionLimitReached, http.StatusConflict, "contribution limit reached"},
	{service.ErrWalletNotSet, http.StatusConflict, "wallet address not set"},
	{service.ErrWalletMismatch, http.StatusConflict, "wallet address mismatch"},
	{service.ErrWalletAlreadySet, http.StatusConflict, "wallet address already set"},
	{service.ErrInvalidWalletAddress, http.StatusBadRequest, "invalid wallet address"},
	{service.ErrDeadlinePassed, http.StatusConflict, "commit deadline passed"},
	{service.ErrAirdropEnded, http.StatusConflict, "airdrop has ended"},
	{service.ErrAlreadyCommitted, http.StatusConflict, "already committed"},
	{service.ErrAllocationCheckDisabled, http.StatusConflict, "allocation check is disabled"},
	{service.ErrForgingActive, http.StatusConflict, "forging session already active"},
	{service.ErrForgingNotReady, http.StatusConflict, "forging session not finished"},
	{service.ErrNoForgingSession, http.StatusConflict, "no forging session"},
	{service.ErrSelfReferral, http.StatusBadRequest, "cannot use your own referral code"},
	{service.ErrInvalidReferralCode, http.StatusBadRequest, "invalid referral code"},
	{service.ErrTaskNotFound, http.StatusNotFound, "task not found"},
}

// respondError translates a flow error into the {success, reason} envelope.
// Unknown errors become a generic 500; the detail goes to the log, not the
// client.
func respondError(c *gin.Context, err error) {
	for _, m := range sentinelStatus {
		if errors.Is(err, m.err) {
			respondFail(c, m.status, m.reason)
			return
		}
	}

	if errors.Is(err, service.ErrValidation) {
		respondFail(c, http.StatusBadRequest, err.Error())
		return
	}

	log.WithFields(log.Fields{
		"requestID": c.GetString(requestIDKey),
		"path":      c.FullPath(),
		"error":     err,
	}).Error("Request failed")
	respondFail(c, http.StatusInternalServerError, "internal error")
}
