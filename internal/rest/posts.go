package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/chad0920kim/cheer-factory/api"
	"github.com/chad0920kim/cheer-factory/blog/application"
	"github.com/chad0920kim/cheer-factory/blog/domain"
)

const (
	postsPerPage   = 5
	likedCookie    = "liked_posts"
	likedCookieAge = 365 * 24 * 60 * 60
)

// PostsHandler serves the public post surface.
type PostsHandler struct {
	service  *application.PostService
	renderer application.BodyRenderer
}

func NewPostsHandler(service *application.PostService, renderer application.BodyRenderer) *PostsHandler {
	return &PostsHandler{service: service, renderer: renderer}
}

// GetPosts lists posts newest first with optional lang/q filters and
// fixed-size pagination.
func (h *PostsHandler) GetPosts(c *gin.Context) {
	lang := c.Query("lang")
	if lang != "" && lang != domain.LangKorean && lang != domain.LangEnglish {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lang must be ko or en"})
		return
	}

	posts, err := h.service.List(c.Request.Context(), lang, c.Query("q"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, totalPages := clampPage(c.Query("page"), len(posts))
	start := (page - 1) * postsPerPage
	end := start + postsPerPage
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}

	summaries := make([]api.PostSummary, 0, end-start)
	for _, p := range posts[start:end] {
		summaries = append(summaries, api.PostSummary{
			ID:       p.ID,
			Title:    p.Title,
			Date:     p.Date,
			Snippet:  application.Snippet(p.Content),
			Tags:     p.Tags,
			ImageURL: p.ImageURL,
			Lang:     p.Lang,
			Likes:    p.Likes,
		})
	}

	c.JSON(http.StatusOK, api.PostPage{
		Posts:      summaries,
		Page:       page,
		TotalPages: totalPages,
		Total:      len(posts),
	})
}

// GetPost returns one post with its body rendered to HTML.
func (h *PostsHandler) GetPost(c *gin.Context) {
	id := c.Param("postId")

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	html, err := h.renderer.Render(post.Content)
	if err != nil {
		log.Error().Err(err).Str("postId", id).Msg("Failed to render post body")
		html = ""
	}

	pairLang := domain.LangEnglish
	if post.Lang == domain.LangEnglish {
		pairLang = domain.LangKorean
	}

	c.JSON(http.StatusOK, api.PostDetail{
		ID:       post.ID,
		Title:    post.Title,
		Date:     post.Date,
		Content:  post.Content,
		HTML:     html,
		Tags:     post.Tags,
		ImageURL: post.ImageURL,
		Lang:     post.Lang,
		Likes:    post.Likes,
		PairID:   domain.BaseID(post.ID) + "-" + pairLang,
	})
}

// ToggleLike flips this client's like on a post. Prior likes are
// tracked in a cookie so a repeat request unlikes instead of stacking.
func (h *PostsHandler) ToggleLike(c *gin.Context) {
	id := c.Param("postId")

	liked := likedFromCookie(c)
	_, already := liked[id]

	count, err := h.service.Like(c.Request.Context(), id, already)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if already {
		delete(liked, id)
	} else {
		liked[id] = struct{}{}
	}
	writeLikedCookie(c, liked)

	c.JSON(http.StatusOK, api.LikeResponse{Likes: count, Liked: !already})
}

// clampPage parses the page query parameter and clamps it to the valid
// range for the result size. Anything unparseable becomes page 1.
func clampPage(raw string, total int) (page, totalPages int) {
	totalPages = (total + postsPerPage - 1) / postsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

func likedFromCookie(c *gin.Context) map[string]struct{} {
	liked := make(map[string]struct{})
	raw, err := c.Cookie(likedCookie)
	if err != nil {
		return liked
	}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			liked[id] = struct{}{}
		}
	}
	return liked
}

func writeLikedCookie(c *gin.Context, liked map[string]struct{}) {
	ids := make([]string, 0, len(liked))
	for id := range liked {
		ids = append(ids, id)
	}
	c.SetCookie(likedCookie, strings.Join(ids, ","), likedCookieAge, "/", "", false, true)
}

// writeServiceError maps domain sentinels onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	case errors.Is(err, domain.ErrTransient):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
