package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmorrow7/inkfeed/blog/content"
	"github.com/rs/zerolog/log"
)

// AdminHandler exposes operational endpoints.
type AdminHandler struct {
	loader *content.Loader
}

// Refresh re-runs the content-directory sync. Partial failures still sync
// the healthy files but report the request as failed.
func (h *AdminHandler) Refresh(c *gin.Context) {
	if err := h.loader.Sync(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Content refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
