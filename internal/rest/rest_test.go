package rest

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chad0920kim/cheer-factory/blog/application"
	"github.com/chad0920kim/cheer-factory/blog/domain"
	"github.com/chad0920kim/cheer-factory/blog/format"
	"github.com/chad0920kim/cheer-factory/blog/persistence"
)

const testAdminToken = "test-admin-token"

func fixedNow() time.Time {
	return time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
}

type echoWriter struct{}

func (echoWriter) GeneratePost(ctx context.Context, persona, topic string) (*application.Draft, error) {
	return &application.Draft{Title: "generated: " + topic, Content: "generated body"}, nil
}

func (echoWriter) Translate(ctx context.Context, d application.Draft, targetLang string) (*application.Draft, error) {
	return &application.Draft{Title: "[" + targetLang + "] " + d.Title, Content: d.Content}, nil
}

type memGuestbook struct {
	entries []*domain.GuestbookEntry
	nextID  int
}

func (g *memGuestbook) CreateEntry(ctx context.Context, e *domain.GuestbookEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	g.nextID++
	e.ID = fmt.Sprintf("entry-%d", g.nextID)
	if e.CreatedAt.IsZero() {
		e.CreatedAt = fixedNow()
	}
	g.entries = append([]*domain.GuestbookEntry{e}, g.entries...)
	return nil
}

func (g *memGuestbook) ListEntries(ctx context.Context, limit int) ([]*domain.GuestbookEntry, error) {
	if limit > len(g.entries) {
		limit = len(g.entries)
	}
	return g.entries[:limit], nil
}

func (g *memGuestbook) DeleteEntry(ctx context.Context, id string) error {
	for i, e := range g.entries {
		if e.ID == id {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type testEnv struct {
	router    *gin.Engine
	repo      *persistence.MemoryRepository
	cache     *application.ListCache
	guestbook *memGuestbook
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	return setupRouterWith(t, nil)
}

func setupRouterWith(t *testing.T, uploader ImageUploader) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := persistence.NewMemoryRepository()
	index := application.NewIndexStore(repo, fixedNow)
	cache := application.NewListCache(time.Minute, fixedNow)
	service := application.NewPostService(repo, index, cache, echoWriter{}, fixedNow)
	guestbook := &memGuestbook{}

	router := gin.New()
	NewApi(router, Deps{
		Posts:         service,
		Index:         index,
		Cache:         cache,
		Renderer:      application.NewBodyRenderer(),
		Guestbook:     guestbook,
		Uploader:      uploader,
		AdminToken:    testAdminToken,
		WebhookSecret: "hook-secret",
	})

	return &testEnv{router: router, repo: repo, cache: cache, guestbook: guestbook}
}

func (env *testEnv) seedPost(t *testing.T, id, title, content string, likes int) {
	t.Helper()
	text := format.Encode(domain.Post{Title: title, Content: content, Likes: likes})
	if _, err := env.repo.Put(context.Background(), domain.PostPath(id), text, "", "seed "+id); err != nil {
		t.Fatalf("failed to seed %s: %v", id, err)
	}
}

func doJSON(router *gin.Engine, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
