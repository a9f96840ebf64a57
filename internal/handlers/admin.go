package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"property-portal/internal/cleanup"
)

// AdminHandler serves maintenance endpoints.
type AdminHandler struct {
	cleanup   *cleanup.Service
	retention time.Duration
}

func NewAdminHandler(cleanupService *cleanup.Service, retention time.Duration) *AdminHandler {
	return &AdminHandler{cleanup: cleanupService, retention: retention}
}

// RunCleanup triggers an orphan image sweep on demand. dry_run=true
// reports what would be deleted without touching disk.
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	dryRun := c.Query("dry_run") == "true"

	result, err := h.cleanup.Sweep(h.retention, dryRun)
	if err != nil {
		respondError(c, err.Error())
		return
	}

	respondSuccess(c, http.StatusOK, "Cleanup complete.", result)
}
