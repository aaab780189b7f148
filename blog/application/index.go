package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chad0920kim/cheer-factory/blog/domain"
	"github.com/chad0920kim/cheer-factory/blog/format"
)

const saveRetries = 3

// IndexStore reads and writes the aggregate index document through the
// content repository. The index lists every post newest first and may
// legitimately be absent; Rebuild reconstructs it from the per-post
// files when that happens.
type IndexStore struct {
	repo domain.ContentRepository
	now  func() time.Time
}

func NewIndexStore(repo domain.ContentRepository, now func() time.Time) *IndexStore {
	if now == nil {
		now = time.Now
	}
	return &IndexStore{repo: repo, now: now}
}

// Load fetches the index document. Returns nil (no error) when the
// index does not exist yet.
func (s *IndexStore) Load(ctx context.Context) (*domain.Index, error) {
	f, err := s.repo.Get(ctx, domain.IndexPath)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading index: %w", err)
	}

	var idx domain.Index
	if err := json.Unmarshal([]byte(f.Content), &idx); err != nil {
		// A corrupt index is recoverable the same way a missing one is.
		log.Warn().Err(err).Msg("Index document is malformed, treating as absent")
		return nil, nil
	}
	return &idx, nil
}

// Save writes the index with optimistic concurrency. On a revision
// conflict it refetches the current revision and writes again,
// last writer wins, up to a bounded number of attempts.
func (s *IndexStore) Save(ctx context.Context, idx *domain.Index) error {
	idx.Updated = s.now().UTC()
	payload, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		revision := ""
		if f, err := s.repo.Get(ctx, domain.IndexPath); err == nil {
			revision = f.Revision
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("fetching index revision: %w", err)
		}

		_, err := s.repo.Put(ctx, domain.IndexPath, string(payload), revision, "Update post index")
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("saving index: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("saving index after %d attempts: %w", saveRetries, lastErr)
}

// Rebuild lists every post file in the store, decodes each one, and
// persists the result as the new index. This is the self-healing path
// used when Load finds no index.
func (s *IndexStore) Rebuild(ctx context.Context) (*domain.Index, error) {
	entries, err := s.repo.List(ctx, domain.PostsDir)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			entries = nil
		} else {
			return nil, fmt.Errorf("listing posts: %w", err)
		}
	}

	idx := &domain.Index{Posts: make([]domain.Post, 0, len(entries))}
	for _, e := range entries {
		pid, ok := domain.ParsePostFile(e.Name)
		if !ok {
			continue
		}
		f, err := s.repo.Get(ctx, e.Path)
		if err != nil {
			log.Error().Err(err).Str("path", e.Path).Msg("Failed to read post file during rebuild")
			continue
		}
		d := format.Decode(f.Content)
		idx.Posts = append(idx.Posts, domain.Post{
			ID:       strings.TrimSuffix(e.Name, ".txt"),
			Title:    d.Title,
			Date:     pid.Date,
			Content:  d.Content,
			Tags:     d.Tags,
			ImageURL: d.ImageURL,
			Lang:     pid.Lang,
			Likes:    d.Likes,
		})
	}

	// Newest first; ids sort chronologically by construction.
	sort.Slice(idx.Posts, func(i, j int) bool { return idx.Posts[i].ID > idx.Posts[j].ID })

	if err := s.Save(ctx, idx); err != nil {
		return nil, fmt.Errorf("persisting rebuilt index: %w", err)
	}
	return idx, nil
}

// LoadOrRebuild returns the current index, rebuilding it when absent.
func (s *IndexStore) LoadOrRebuild(ctx context.Context) (*domain.Index, error) {
	idx, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		log.Info().Msg("Index missing, rebuilding from post files")
		return s.Rebuild(ctx)
	}
	return idx, nil
}
