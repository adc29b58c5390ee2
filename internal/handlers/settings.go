package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmap-backend/internal/config"
)

type SettingsHandler struct {
	cfg *config.Config
}

func NewSettingsHandler(cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{cfg: cfg}
}

// GetSettings exposes the presentation policy map clients need, such as the
// confidence cutoffs used for marker coloring.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"confidence_low_cutoff":  h.cfg.ConfidenceLowCutoff,
		"confidence_high_cutoff": h.cfg.ConfidenceHighCutoff,
		"max_upload_size":        h.cfg.MaxUploadSize,
	})
}
