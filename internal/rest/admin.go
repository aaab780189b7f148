package rest

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chad0920kim/cheer-factory/api"
	"github.com/chad0920kim/cheer-factory/blog/application"
)

// maxImageBytes caps admin image uploads at 10 MiB.
const maxImageBytes = 10 << 20

// ImageUploader pushes image bytes to the external host and returns
// the public URL. Implemented by shared/imghost.
type ImageUploader interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// AdminHandler serves the token-guarded write surface.
type AdminHandler struct {
	service  *application.PostService
	uploader ImageUploader
}

func NewAdminHandler(service *application.PostService, uploader ImageUploader) *AdminHandler {
	return &AdminHandler{service: service, uploader: uploader}
}

// PublishPost creates a new Korean/English pair, generating the draft
// when no explicit title and content are supplied.
func (h *AdminHandler) PublishPost(c *gin.Context) {
	proto := &api.PublishProto{}
	if err := c.ShouldBindJSON(proto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Publish(c.Request.Context(), application.PublishRequest{
		Persona:  proto.Persona,
		Topic:    proto.Topic,
		Title:    proto.Title,
		Content:  proto.Content,
		Tags:     proto.Tags,
		ImageURL: proto.ImageURL,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"korean_id":  result.KoreanID,
		"english_id": result.EnglishID,
		"title":      result.Title,
	})
}

// UpdatePost rewrites an existing pair from new Korean text.
func (h *AdminHandler) UpdatePost(c *gin.Context) {
	proto := &api.UpdateProto{}
	if err := c.ShouldBindJSON(proto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Update(c.Request.Context(), c.Param("postId"), application.UpdateRequest{
		Title:    proto.Title,
		Content:  proto.Content,
		Tags:     proto.Tags,
		ImageURL: proto.ImageURL,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeletePost removes both halves of a pair. Missing halves are
// skipped, so the call is idempotent.
func (h *AdminHandler) DeletePost(c *gin.Context) {
	result, err := h.service.Delete(c.Request.Context(), c.Param("postId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed_ids": result.RemovedIDs})
}

// UploadImage forwards a multipart image to the external image host.
func (h *AdminHandler) UploadImage(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image host is not configured"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), file.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "image host rejected upload"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
