package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chad0920kim/cheer-factory/api"
)

func signPayload(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(env *testEnv, payload, signature, event string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/git", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", event)
	req.Header.Set("X-Hub-Signature-256", signature)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_InvalidSignature(t *testing.T) {
	env := setupRouter(t)

	rec := postWebhook(env, `{"ref":"refs/heads/master"}`, "sha256=deadbeef", "push")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("forged signature status = %d, want 400", rec.Code)
	}
}

func TestWebhook_PushInvalidatesCache(t *testing.T) {
	env := setupRouter(t)
	env.seedPost(t, "2026-01-09-001-ko", "첫 글", "본문", 0)

	rec := doJSON(env.router, http.MethodGet, "/api/posts", "", nil)
	var page api.PostPage
	json.Unmarshal(rec.Body.Bytes(), &page)
	if page.Total != 1 {
		t.Fatalf("initial total = %d", page.Total)
	}

	// New content lands out of band; the cached listing hides it.
	env.seedPost(t, "2026-01-09-002-ko", "둘째 글", "본문", 0)
	rec = doJSON(env.router, http.MethodGet, "/api/posts", "", nil)
	json.Unmarshal(rec.Body.Bytes(), &page)
	if page.Total != 1 {
		t.Fatalf("listing reloaded without invalidation, total = %d", page.Total)
	}

	payload := `{"ref":"refs/heads/master"}`
	rec2 := postWebhook(env, payload, signPayload("hook-secret", payload), "push")
	if rec2.Code != http.StatusNoContent {
		t.Fatalf("webhook status = %d", rec2.Code)
	}

	rec = doJSON(env.router, http.MethodGet, "/api/posts", "", nil)
	json.Unmarshal(rec.Body.Bytes(), &page)
	if page.Total != 2 {
		t.Errorf("total after invalidation = %d, want 2", page.Total)
	}
}

func TestWebhook_NonPushEventIgnored(t *testing.T) {
	env := setupRouter(t)

	payload := `{"zen":"Keep it logically awesome."}`
	rec := postWebhook(env, payload, signPayload("hook-secret", payload), "ping")
	if rec.Code != http.StatusNoContent {
		t.Errorf("ping status = %d, want 204", rec.Code)
	}
}
