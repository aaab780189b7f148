package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chad0920kim/cheer-factory/blog/domain"
	"github.com/chad0920kim/cheer-factory/blog/format"
)

// sequenceRetries bounds how many times Publish bumps the sequence
// number when a concurrent publish already took the candidate filename.
const sequenceRetries = 5

// Draft is a title/content pair produced by the AI writer or supplied
// explicitly by the admin.
type Draft struct {
	Title   string
	Content string
}

// Writer produces persona-voiced drafts and translations. Implemented
// by shared/genai; failures carry domain.ErrGeneration.
type Writer interface {
	GeneratePost(ctx context.Context, persona, topic string) (*Draft, error)
	Translate(ctx context.Context, d Draft, targetLang string) (*Draft, error)
}

// PublishRequest describes a new post. Title/Content empty means the
// writer generates them from Topic in the given persona's voice.
type PublishRequest struct {
	Persona  string
	Topic    string
	Title    string
	Content  string
	Tags     []string
	ImageURL string
}

// UpdateRequest edits an existing post pair. The Korean text is
// authoritative; the English half is always re-translated.
type UpdateRequest struct {
	Title    string
	Content  string
	Tags     []string
	ImageURL string
}

// PublishResult reports the ids of the created pair.
type PublishResult struct {
	KoreanID  string
	EnglishID string
	Title     string
}

// DeleteResult reports which halves of the pair were actually removed.
type DeleteResult struct {
	RemovedIDs []string
}

// PostService is the public-facing API over the content repository,
// index and cache. All blocking I/O is synchronous; publish and update
// chain AI calls with two file writes and an index write.
type PostService struct {
	repo   domain.ContentRepository
	index  *IndexStore
	cache  *ListCache
	writer Writer
	now    func() time.Time
}

func NewPostService(repo domain.ContentRepository, index *IndexStore, cache *ListCache, writer Writer, now func() time.Time) *PostService {
	if now == nil {
		now = time.Now
	}
	return &PostService{
		repo:   repo,
		index:  index,
		cache:  cache,
		writer: writer,
		now:    now,
	}
}

// List returns posts newest first, optionally filtered by language and
// by a case-insensitive substring query over title and content. Pure.
func (s *PostService) List(ctx context.Context, lang, query string) ([]domain.Post, error) {
	posts, err := s.cache.GetOrLoad(ctx, func(ctx context.Context) ([]domain.Post, error) {
		idx, err := s.index.LoadOrRebuild(ctx)
		if err != nil {
			return nil, err
		}
		return idx.Posts, nil
	})
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Post, 0, len(posts))
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range posts {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Content), q) {
			continue
		}
		if lang != "" && p.Lang != lang {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// Get reads a single post file; the per-file store is the source of
// truth for content.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	f, err := s.repo.Get(ctx, domain.PostPath(id))
	if err != nil {
		return nil, fmt.Errorf("getting post %s: %w", id, err)
	}
	p := decodedToPost(id, format.Decode(f.Content))
	return &p, nil
}

// Publish creates a new bilingual post pair: generate or accept the
// Korean draft, translate it, write both files, append both index rows,
// invalidate the cache.
func (s *PostService) Publish(ctx context.Context, req PublishRequest) (*PublishResult, error) {
	ko := Draft{Title: strings.TrimSpace(req.Title), Content: strings.TrimSpace(req.Content)}
	if ko.Title == "" || ko.Content == "" {
		generated, err := s.writer.GeneratePost(ctx, req.Persona, req.Topic)
		if err != nil {
			return nil, err
		}
		ko = *generated
	}
	if ko.Title == "" || ko.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}

	// Translation happens before any write so a failure leaves the
	// store untouched.
	en, err := s.writer.Translate(ctx, ko, domain.LangEnglish)
	if err != nil {
		return nil, err
	}

	date := s.now().Format("2006-01-02")
	seq, koID, err := s.createKoreanFile(ctx, date, ko, req)
	if err != nil {
		return nil, err
	}

	// From here the store has changed; the cache must not outlive this
	// call regardless of how the rest goes.
	defer s.cache.Invalidate()

	enID := domain.PairID(date, seq, domain.LangEnglish)
	enPost := domain.Post{
		ID:       enID,
		Title:    en.Title,
		Date:     date,
		Content:  en.Content,
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		Lang:     domain.LangEnglish,
	}
	if _, err := s.repo.Put(ctx, domain.PostPath(enID), format.Encode(enPost), "", "Add post: "+en.Title); err != nil {
		// The Korean half stays behind; Rebuild will still pick it up.
		return nil, fmt.Errorf("writing english half (korean file %s kept): %w", koID, err)
	}

	koPost := domain.Post{
		ID:       koID,
		Title:    ko.Title,
		Date:     date,
		Content:  ko.Content,
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		Lang:     domain.LangKorean,
	}
	if err := s.patchIndex(ctx, nil, koPost, enPost); err != nil {
		return nil, err
	}

	log.Info().Str("id", koID).Str("title", ko.Title).Msg("Published post pair")
	return &PublishResult{KoreanID: koID, EnglishID: enID, Title: ko.Title}, nil
}

// createKoreanFile allocates the next sequence number for date and
// writes the Korean file. Listing and counting alone races with
// concurrent publishes, so the create-without-revision write is the
// arbiter: a conflict means the name was taken and we bump the
// sequence and try again.
func (s *PostService) createKoreanFile(ctx context.Context, date string, ko Draft, req PublishRequest) (int, string, error) {
	seq, err := s.nextSequence(ctx, date)
	if err != nil {
		return 0, "", err
	}

	for attempt := 0; attempt < sequenceRetries; attempt++ {
		koID := domain.PairID(date, seq, domain.LangKorean)
		post := domain.Post{
			ID:       koID,
			Title:    ko.Title,
			Date:     date,
			Content:  ko.Content,
			Tags:     req.Tags,
			ImageURL: req.ImageURL,
			Lang:     domain.LangKorean,
		}
		_, err := s.repo.Put(ctx, domain.PostPath(koID), format.Encode(post), "", "Add post: "+ko.Title)
		if err == nil {
			return seq, koID, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return 0, "", fmt.Errorf("writing korean half: %w", err)
		}
		seq++
	}
	return 0, "", fmt.Errorf("%w: could not allocate a sequence number for %s", domain.ErrConflict, date)
}

// nextSequence scans existing filenames for the date and returns the
// highest sequence seen plus one.
func (s *PostService) nextSequence(ctx context.Context, date string) (int, error) {
	entries, err := s.repo.List(ctx, domain.PostsDir)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 1, nil
		}
		return 0, fmt.Errorf("listing posts for sequence allocation: %w", err)
	}

	max := 0
	for _, e := range entries {
		pid, ok := domain.ParsePostFile(e.Name)
		if !ok || pid.Date != date {
			continue
		}
		if pid.Sequence > max {
			max = pid.Sequence
		}
	}
	return max + 1, nil
}

// Update edits both halves of a post pair. Re-translation happens
// unconditionally and before any file is touched: the Korean half is
// never left updated with stale English.
func (s *PostService) Update(ctx context.Context, id string, req UpdateRequest) error {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}

	en, err := s.writer.Translate(ctx, Draft{Title: title, Content: content}, domain.LangEnglish)
	if err != nil {
		return err
	}

	base := domain.BaseID(id)
	date := domain.DateOf(base)
	koID := base + "-" + domain.LangKorean
	enID := base + "-" + domain.LangEnglish

	koFile, err := s.repo.Get(ctx, domain.PostPath(koID))
	if err != nil {
		return fmt.Errorf("updating post %s: %w", koID, err)
	}
	koLikes := format.Decode(koFile.Content).Likes

	defer s.cache.Invalidate()

	koPost := domain.Post{
		ID:       koID,
		Title:    title,
		Date:     date,
		Content:  content,
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		Lang:     domain.LangKorean,
		Likes:    koLikes,
	}
	if _, err := s.repo.Put(ctx, domain.PostPath(koID), format.Encode(koPost), koFile.Revision, "Update post: "+title); err != nil {
		return fmt.Errorf("updating korean half: %w", err)
	}

	// The English half may be unexpectedly missing; the create path
	// heals the orphaned pair.
	enRevision := ""
	enLikes := 0
	if enFile, err := s.repo.Get(ctx, domain.PostPath(enID)); err == nil {
		enRevision = enFile.Revision
		enLikes = format.Decode(enFile.Content).Likes
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("reading english half: %w", err)
	}

	enPost := domain.Post{
		ID:       enID,
		Title:    en.Title,
		Date:     date,
		Content:  en.Content,
		Tags:     req.Tags,
		ImageURL: req.ImageURL,
		Lang:     domain.LangEnglish,
		Likes:    enLikes,
	}
	if _, err := s.repo.Put(ctx, domain.PostPath(enID), format.Encode(enPost), enRevision, "Update post: "+en.Title); err != nil {
		return fmt.Errorf("updating english half: %w", err)
	}

	if err := s.patchIndex(ctx, nil, koPost, enPost); err != nil {
		return err
	}

	log.Info().Str("id", koID).Msg("Updated post pair")
	return nil
}

// Delete removes both halves of a post pair independently. A half that
// is already absent is skipped; the operation succeeds as long as
// nothing fails for a reason other than absence.
func (s *PostService) Delete(ctx context.Context, id string) (*DeleteResult, error) {
	base := domain.BaseID(id)
	result := &DeleteResult{RemovedIDs: make([]string, 0, 2)}

	var firstErr error
	for _, lang := range []string{domain.LangKorean, domain.LangEnglish} {
		pairID := base + "-" + lang
		path := domain.PostPath(pairID)

		f, err := s.repo.Get(ctx, path)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err == nil {
			err = s.repo.Delete(ctx, path, f.Revision, "Delete post: "+pairID)
		}
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("id", pairID).Msg("Failed to delete post file")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result.RemovedIDs = append(result.RemovedIDs, pairID)
	}

	if firstErr != nil && len(result.RemovedIDs) == 0 {
		return nil, fmt.Errorf("deleting post %s: %w", base, firstErr)
	}

	if len(result.RemovedIDs) > 0 {
		defer s.cache.Invalidate()
		if err := s.patchIndex(ctx, result.RemovedIDs); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Like adjusts the like counter of one language half. The liked state
// itself lives in the caller's cookie; this just moves the counter and
// keeps the index row in step.
func (s *PostService) Like(ctx context.Context, id string, unlike bool) (int, error) {
	path := domain.PostPath(id)
	f, err := s.repo.Get(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("liking post %s: %w", id, err)
	}

	p := decodedToPost(id, format.Decode(f.Content))
	if unlike {
		if p.Likes > 0 {
			p.Likes--
		}
	} else {
		p.Likes++
	}

	if _, err := s.repo.Put(ctx, path, format.Encode(p), f.Revision, fmt.Sprintf("Like post: %s (%d)", id, p.Likes)); err != nil {
		return 0, fmt.Errorf("saving like for %s: %w", id, err)
	}

	defer s.cache.Invalidate()
	if err := s.patchIndex(ctx, nil, p); err != nil {
		return 0, err
	}
	return p.Likes, nil
}

// patchIndex loads the index, drops removeIDs, upserts the given posts
// (new rows go to the front, newest first), and saves.
func (s *PostService) patchIndex(ctx context.Context, removeIDs []string, upserts ...domain.Post) error {
	idx, err := s.index.LoadOrRebuild(ctx)
	if err != nil {
		return fmt.Errorf("patching index: %w", err)
	}

	removed := make(map[string]bool, len(removeIDs))
	for _, id := range removeIDs {
		removed[id] = true
	}

	kept := make([]domain.Post, 0, len(idx.Posts)+len(upserts))
	patched := make(map[string]bool, len(upserts))
	for _, existing := range idx.Posts {
		if removed[existing.ID] {
			continue
		}
		replaced := false
		for _, u := range upserts {
			if u.ID == existing.ID {
				kept = append(kept, u)
				patched[u.ID] = true
				replaced = true
				break
			}
		}
		if !replaced {
			kept = append(kept, existing)
		}
	}

	// Unmatched upserts are new posts; they go to the front.
	fresh := make([]domain.Post, 0, len(upserts))
	for _, u := range upserts {
		if !patched[u.ID] {
			fresh = append(fresh, u)
		}
	}
	idx.Posts = append(fresh, kept...)

	if err := s.index.Save(ctx, idx); err != nil {
		return fmt.Errorf("patching index: %w", err)
	}
	return nil
}

func decodedToPost(id string, d format.Decoded) domain.Post {
	return domain.Post{
		ID:       id,
		Title:    d.Title,
		Date:     domain.DateOf(id),
		Content:  d.Content,
		Tags:     d.Tags,
		ImageURL: d.ImageURL,
		Lang:     domain.LangOf(id),
		Likes:    d.Likes,
	}
}
