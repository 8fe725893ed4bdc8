package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kmorrow7/inkfeed/blog/application"
	"github.com/kmorrow7/inkfeed/blog/domain"
	"github.com/kmorrow7/inkfeed/internal/syndication"
	"github.com/rs/zerolog/log"
)

// FeedHandler serves the syndication endpoints.
type FeedHandler struct {
	feeds *application.FeedService
}

func (h *FeedHandler) GetRSS(c *gin.Context) {
	h.serveFeed(c, syndication.WriteRSS, syndication.ContentTypeRSS)
}

func (h *FeedHandler) GetAtom(c *gin.Context) {
	h.serveFeed(c, syndication.WriteAtom, syndication.ContentTypeAtom)
}

func (h *FeedHandler) serveFeed(c *gin.Context, write func(*domain.FeedDocument) ([]byte, error), contentType string) {
	if h.checkNotModified(c) {
		return
	}

	doc, err := h.feeds.CurrentFeed(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError

		var cfgErr *domain.ConfigurationError
		var dataErr *domain.DataError
		switch {
		case errors.As(err, &cfgErr):
			log.Error().Err(err).Msg("Feed configuration is invalid")
		case errors.As(err, &dataErr):
			log.Error().Err(err).Str("slug", dataErr.Slug).Msg("Post violates feed invariants")
		default:
			log.Error().Err(err).Msg("Failed to build feed")
		}

		c.JSON(status, gin.H{"error": "failed to build feed"})
		return
	}

	body, err := write(doc)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize feed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to serialize feed"})
		return
	}

	c.Data(http.StatusOK, contentType, body)
}

// checkNotModified sets the Last-Modified header from the newest post
// update time and short-circuits with 304 when the client's
// If-Modified-Since covers it. A repository error here is not fatal; the
// feed is simply served unconditionally.
func (h *FeedHandler) checkNotModified(c *gin.Context) bool {
	lastModified, err := h.feeds.LastModified(c.Request.Context())
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get last modified time")
		return false
	}
	if lastModified.IsZero() {
		return false
	}

	c.Header("Last-Modified", lastModified.UTC().Format(http.TimeFormat))

	ims := c.GetHeader("If-Modified-Since")
	if ims == "" {
		return false
	}
	since, err := http.ParseTime(ims)
	if err != nil {
		return false
	}

	// HTTP dates have second precision
	if lastModified.Truncate(time.Second).After(since) {
		return false
	}

	c.Status(http.StatusNotModified)
	return true
}
