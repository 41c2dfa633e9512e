package api

import (
	"fmt"
	"net/http"
	"strconv"

	"exion/models"

	"github.com/gin-gonic/gin"
)

// identityFromRequest resolves the caller's identity from request headers.
// Platform callers send X-Platform-Id (numeric) and optionally
// X-Display-Name; anonymous browser callers send X-Browser-Id. The ledger
// trusts these values; authenticating them is the gateway's job.
func identityFromRequest(c *gin.Context) (models.Identity, bool) {
	if raw := c.GetHeader("X-Platform-Id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondFail(c, http.StatusBadRequest, "invalid platform id")
			return models.Identity{}, false
		}
		return models.PlatformIdentity(id, c.GetHeader("X-Display-Name")), true
	}

	if browserID := c.GetHeader("X-Browser-Id"); browserID != "" {
		return models.AnonymousIdentity(browserID), true
	}

	respondFail(c, http.StatusBadRequest, "missing identity")
	return models.Identity{}, false
}

// parsePositiveInt parses query parameters such as ?limit=20
func parsePositiveInt(raw string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("value must be positive: %d", v)
	}
	return v, nil
}
