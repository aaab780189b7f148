package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chad0920kim/cheer-factory/blog/application"
	"github.com/chad0920kim/cheer-factory/blog/domain"
	"github.com/chad0920kim/cheer-factory/internal/middleware"
)

// guestbookWindow limits each visitor to one guestbook entry per
// minute.
const guestbookWindow = time.Minute

// Deps carries everything the route table needs.
type Deps struct {
	Posts         *application.PostService
	Index         *application.IndexStore
	Cache         *application.ListCache
	Renderer      application.BodyRenderer
	Guestbook     domain.GuestbookRepository
	Uploader      ImageUploader
	AdminToken    string
	WebhookSecret string
}

// NewApi registers all routes on the given engine.
func NewApi(router *gin.Engine, deps Deps) {
	posts := NewPostsHandler(deps.Posts, deps.Renderer)
	guestbook := NewGuestbookHandler(deps.Guestbook)
	admin := NewAdminHandler(deps.Posts, deps.Uploader)
	webhook := NewWebhookHandler(deps.WebhookSecret, deps.Cache, deps.Index)

	limiter := middleware.NewRateLimiter(1, guestbookWindow)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := router.Group("/api")
	{
		public.GET("/posts", posts.GetPosts)
		public.GET("/posts/:postId", posts.GetPost)
		public.POST("/posts/:postId/like", posts.ToggleLike)

		public.GET("/guestbook", guestbook.GetEntries)
		public.POST("/guestbook", limiter.Limit(), guestbook.PostEntry)
	}

	adminV1 := router.Group("/api/admin", middleware.RequireToken(deps.AdminToken))
	{
		adminV1.POST("/posts", admin.PublishPost)
		adminV1.PUT("/posts/:postId", admin.UpdatePost)
		adminV1.DELETE("/posts/:postId", admin.DeletePost)
		adminV1.POST("/images", admin.UploadImage)
		adminV1.DELETE("/guestbook/:entryId", guestbook.DeleteEntry)
	}

	router.POST("/webhook/git", webhook.HandleGitWebhook)
}
