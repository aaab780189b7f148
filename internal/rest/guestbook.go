package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chad0920kim/cheer-factory/api"
	"github.com/chad0920kim/cheer-factory/blog/domain"
)

const guestbookPageSize = 50

// GuestbookHandler serves visitor messages.
type GuestbookHandler struct {
	repo domain.GuestbookRepository
}

func NewGuestbookHandler(repo domain.GuestbookRepository) *GuestbookHandler {
	return &GuestbookHandler{repo: repo}
}

// GetEntries lists the most recent guestbook entries.
func (h *GuestbookHandler) GetEntries(c *gin.Context) {
	entries, err := h.repo.ListEntries(c.Request.Context(), guestbookPageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	out := make([]api.GuestbookEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, api.GuestbookEntry{
			ID:        e.ID,
			Author:    e.Author,
			Message:   e.Message,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, out)
}

// PostEntry stores a visitor message. Submissions that fill the hidden
// website field are dropped without feedback so bots see a success.
func (h *GuestbookHandler) PostEntry(c *gin.Context) {
	proto := &api.GuestbookProto{}
	if err := c.ShouldBindJSON(proto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if proto.Website != "" {
		c.Status(http.StatusCreated)
		return
	}

	entry := &domain.GuestbookEntry{
		Author:  proto.Author,
		Message: proto.Message,
	}
	if err := h.repo.CreateEntry(c.Request.Context(), entry); err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.GuestbookEntry{
		ID:        entry.ID,
		Author:    entry.Author,
		Message:   entry.Message,
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	})
}

// DeleteEntry removes an entry. Admin only.
func (h *GuestbookHandler) DeleteEntry(c *gin.Context) {
	if err := h.repo.DeleteEntry(c.Request.Context(), c.Param("entryId")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
