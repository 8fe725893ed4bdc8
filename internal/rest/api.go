package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/kmorrow7/inkfeed/blog/application"
	"github.com/kmorrow7/inkfeed/blog/content"
	"github.com/kmorrow7/inkfeed/blog/domain"
)

// NewApi wires all HTTP routes onto the engine.
func NewApi(router *gin.Engine, feeds *application.FeedService, repo domain.PostRepository, loader *content.Loader) {
	feedHandler := &FeedHandler{feeds: feeds}
	router.GET("/blog/rss.xml", feedHandler.GetRSS)
	router.GET("/blog/atom.xml", feedHandler.GetAtom)

	postsHandler := &PostsHandler{repo: repo}
	postsV1 := router.Group("posts/v1")
	{
		postsV1.GET("/", postsHandler.GetPosts)
		postsV1.GET("/:slug", postsHandler.GetPost)
	}

	adminHandler := &AdminHandler{loader: loader}
	adminV1 := router.Group("admin/v1")
	{
		adminV1.POST("/refresh", adminHandler.Refresh)
	}
}
