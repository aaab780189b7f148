package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/chad0920kim/cheer-factory/blog/domain"
)

// MemoryRepository is an in-memory domain.ContentRepository used by
// tests and local development. Revisions are monotonic per process.
type MemoryRepository struct {
	mu    sync.RWMutex
	files map[string]memoryFile
	rev   int
}

type memoryFile struct {
	content  string
	revision string
}

var _ domain.ContentRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		files: make(map[string]memoryFile),
	}
}

func (m *MemoryRepository) Get(ctx context.Context, path string) (*domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return &domain.File{Content: f.content, Revision: f.revision}, nil
}

func (m *MemoryRepository) Put(ctx context.Context, path, content, revision, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.files[path]
	if revision == "" && exists {
		return "", fmt.Errorf("%w: %s already exists", domain.ErrConflict, path)
	}
	if revision != "" {
		if !exists {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		if existing.revision != revision {
			return "", fmt.Errorf("%w: %s is at %s, not %s", domain.ErrConflict, path, existing.revision, revision)
		}
	}

	m.rev++
	next := fmt.Sprintf("rev-%d", m.rev)
	m.files[path] = memoryFile{content: content, revision: next}
	return next, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, path, revision, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.files[path]
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if revision != "" && existing.revision != revision {
		return fmt.Errorf("%w: %s is at %s, not %s", domain.ErrConflict, path, existing.revision, revision)
	}
	delete(m.files, path)
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, dir string) ([]domain.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := strings.TrimSuffix(dir, "/") + "/"
	entries := make([]domain.Entry, 0)
	for path := range m.files {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		name := strings.TrimPrefix(path, prefix)
		if strings.Contains(name, "/") {
			continue
		}
		entries = append(entries, domain.Entry{Name: name, Path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
