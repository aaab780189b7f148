package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v68/github"
	"github.com/rs/zerolog/log"

	"github.com/chad0920kim/cheer-factory/blog/application"
)

// WebhookHandler reacts to pushes made to the content repository
// outside of this server. Out-of-band commits can leave the stored
// index stale, so a push triggers a rebuild as well as a cache drop.
type WebhookHandler struct {
	secret []byte
	cache  *application.ListCache
	index  *application.IndexStore
}

func NewWebhookHandler(secret string, cache *application.ListCache, index *application.IndexStore) *WebhookHandler {
	return &WebhookHandler{
		secret: []byte(secret),
		cache:  cache,
		index:  index,
	}
}

// HandleGitWebhook validates and handles a push notification. Events
// other than pushes are acknowledged but ignored.
func (h *WebhookHandler) HandleGitWebhook(c *gin.Context) {
	payload, err := github.ValidatePayload(c.Request, h.secret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(c.Request), payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	if push, ok := event.(*github.PushEvent); ok {
		log.Info().Str("ref", push.GetRef()).Msg("Push received, rebuilding post index")
		if _, err := h.index.Rebuild(c.Request.Context()); err != nil {
			log.Error().Err(err).Msg("Failed to rebuild index after push")
		}
		h.cache.Invalidate()
	}

	c.Status(http.StatusNoContent)
}
