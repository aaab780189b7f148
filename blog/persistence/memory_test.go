package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/chad0920kim/cheer-factory/blog/domain"
)

func TestMemoryRepository_GetNotFound(t *testing.T) {
	repo := NewMemoryRepository()

	_, err := repo.Get(context.Background(), "posts/nope.txt")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	rev, err := repo.Put(ctx, "posts/a.txt", "hello", "", "add a")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if rev == "" {
		t.Fatal("Put() returned empty revision")
	}

	f, err := repo.Get(ctx, "posts/a.txt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if f.Content != "hello" {
		t.Errorf("content = %q, want %q", f.Content, "hello")
	}
	if f.Revision != rev {
		t.Errorf("revision = %q, want %q", f.Revision, rev)
	}
}

func TestMemoryRepository_CreateExistingConflicts(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Put(ctx, "posts/a.txt", "one", "", "add"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	_, err := repo.Put(ctx, "posts/a.txt", "two", "", "add again")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Put() error = %v, want ErrConflict", err)
	}
}

func TestMemoryRepository_UpdateStaleRevisionConflicts(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	rev, _ := repo.Put(ctx, "posts/a.txt", "one", "", "add")
	if _, err := repo.Put(ctx, "posts/a.txt", "two", rev, "edit"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	_, err := repo.Put(ctx, "posts/a.txt", "three", rev, "stale edit")
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Put() error = %v, want ErrConflict", err)
	}
}

func TestMemoryRepository_DeleteMissing(t *testing.T) {
	repo := NewMemoryRepository()

	err := repo.Delete(context.Background(), "posts/a.txt", "rev-1", "rm")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepository_List(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	repo.Put(ctx, "posts/2026-01-10-001-ko.txt", "a", "", "add")
	repo.Put(ctx, "posts/2026-01-10-001-en.txt", "b", "", "add")
	repo.Put(ctx, "posts/index.json", "{}", "", "index")
	repo.Put(ctx, "images/x.png", "img", "", "img")

	entries, err := repo.List(ctx, "posts")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(entries))
	}
	if entries[0].Name != "2026-01-10-001-en.txt" {
		t.Errorf("first entry = %q, want sorted order", entries[0].Name)
	}
	for _, e := range entries {
		if e.Path != "posts/"+e.Name {
			t.Errorf("entry path = %q, want posts/%s", e.Path, e.Name)
		}
	}
}
