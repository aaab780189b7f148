package rest

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/chad0920kim/cheer-factory/api"
)

func TestPostGuestbookEntry(t *testing.T) {
	env := setupRouter(t)

	rec := doJSON(env.router, http.MethodPost, "/api/guestbook",
		`{"author":"민지","message":"오늘도 화이팅!"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST guestbook status = %d, body %s", rec.Code, rec.Body.String())
	}

	var entry api.GuestbookEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if entry.ID == "" || entry.Author != "민지" {
		t.Errorf("entry = %+v", entry)
	}
	if len(env.guestbook.entries) != 1 {
		t.Errorf("stored %d entries, want 1", len(env.guestbook.entries))
	}
}

func TestPostGuestbookEntry_HoneypotDropped(t *testing.T) {
	env := setupRouter(t)

	rec := doJSON(env.router, http.MethodPost, "/api/guestbook",
		`{"author":"bot","message":"spam","website":"http://spam.example"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("honeypot submission status = %d, want a decoy 201", rec.Code)
	}
	if len(env.guestbook.entries) != 0 {
		t.Errorf("honeypot submission was stored")
	}
}

func TestPostGuestbookEntry_Validation(t *testing.T) {
	env := setupRouter(t)

	rec := doJSON(env.router, http.MethodPost, "/api/guestbook",
		`{"author":"","message":"hi"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty author status = %d, want 400", rec.Code)
	}

	long := strings.Repeat("m", 501)
	rec = doJSON(env.router, http.MethodPost, "/api/guestbook",
		`{"author":"a","message":"`+long+`"}`, map[string]string{"X-Forwarded-For": "10.0.0.2"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("oversized message status = %d, want 400", rec.Code)
	}
}

func TestPostGuestbookEntry_RateLimited(t *testing.T) {
	env := setupRouter(t)

	first := doJSON(env.router, http.MethodPost, "/api/guestbook",
		`{"author":"a","message":"one"}`, nil)
	if first.Code != http.StatusCreated {
		t.Fatalf("first post status = %d", first.Code)
	}

	second := doJSON(env.router, http.MethodPost, "/api/guestbook",
		`{"author":"a","message":"two"}`, nil)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second post inside window status = %d, want 429", second.Code)
	}
}

func TestGetGuestbookEntries(t *testing.T) {
	env := setupRouter(t)
	doJSON(env.router, http.MethodPost, "/api/guestbook", `{"author":"a","message":"first"}`, nil)

	rec := doJSON(env.router, http.MethodGet, "/api/guestbook", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET guestbook status = %d", rec.Code)
	}

	var entries []api.GuestbookEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "first" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestDeleteGuestbookEntry_AdminOnly(t *testing.T) {
	env := setupRouter(t)
	doJSON(env.router, http.MethodPost, "/api/guestbook", `{"author":"a","message":"m"}`, nil)
	id := env.guestbook.entries[0].ID

	rec := doJSON(env.router, http.MethodDelete, "/api/admin/guestbook/"+id, "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated delete status = %d, want 401", rec.Code)
	}

	rec = doJSON(env.router, http.MethodDelete, "/api/admin/guestbook/"+id, "",
		map[string]string{"Authorization": "Bearer " + testAdminToken})
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}

	rec = doJSON(env.router, http.MethodDelete, "/api/admin/guestbook/"+id, "",
		map[string]string{"Authorization": "Bearer " + testAdminToken})
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}
}
