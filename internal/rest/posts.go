package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kmorrow7/inkfeed/api"
	"github.com/kmorrow7/inkfeed/blog/domain"
	"github.com/rs/zerolog/log"
)

const defaultPageSize = 10

// PostsHandler serves the JSON read API over published posts.
type PostsHandler struct {
	repo domain.PostRepository
}

func (h *PostsHandler) GetPosts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be an integer"})
		return
	}

	posts, err := h.repo.ListPublishedPosts(c.Request.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list posts"})
		return
	}

	summaries := make([]api.PostSummary, 0, len(posts))
	for _, p := range posts {
		summaries = append(summaries, api.PostSummary{
			Slug:        p.Slug,
			Title:       p.Title,
			Description: p.Description,
			Tags:        p.Tags,
			PublishedAt: p.PublishedAt,
		})
	}

	c.JSON(http.StatusOK, summaries)
}

func (h *PostsHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.repo.GetPost(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("Failed to get post")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get post"})
		return
	}

	// Drafts exist in the store but are not served
	if post.Draft {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, api.Post{
		Slug:        post.Slug,
		Title:       post.Title,
		Description: post.Description,
		HTMLContent: string(post.HTMLContent),
		Tags:        post.Tags,
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
	})
}
