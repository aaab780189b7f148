// Package github adapts the GitHub contents API to the
// domain.ContentRepository interface, treating a git repository as a
// flat path-keyed file store with commit SHAs as revision tokens.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"

	"github.com/chad0920kim/cheer-factory/blog/domain"
)

// ContentRepository implements domain.ContentRepository using the
// GitHub API. Writes become commits on the configured branch.
type ContentRepository struct {
	client  *github.Client
	owner   string
	gitRepo string
	branch  string
}

var _ domain.ContentRepository = (*ContentRepository)(nil)

// NewContentRepository creates a repository client for owner/gitRepo
// committing to branch.
func NewContentRepository(client *github.Client, owner, gitRepo, branch string) *ContentRepository {
	return &ContentRepository{
		client:  client,
		owner:   owner,
		gitRepo: gitRepo,
		branch:  branch,
	}
}

// Get fetches a file from the configured branch.
func (g *ContentRepository) Get(ctx context.Context, path string) (*domain.File, error) {
	op := fmt.Sprintf("getting file %s", path)
	fileContent, _, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, path, &github.RepositoryContentGetOptions{
		Ref: g.branch,
	})
	if err != nil {
		return nil, handleGithubError(op, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("github: %s returned a directory, not a file: %w", op, domain.ErrNotFound)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, fmt.Errorf("github: %s failed to decode content: %w", op, err)
	}

	return &domain.File{
		Content:  content,
		Revision: fileContent.GetSHA(),
	}, nil
}

// Put creates the file when revision is empty, otherwise updates it
// against the supplied revision.
func (g *ContentRepository) Put(ctx context.Context, path, content, revision, message string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: []byte(content),
		Branch:  github.Ptr(g.branch),
	}

	var resp *github.RepositoryContentResponse
	var err error
	if revision == "" {
		op := fmt.Sprintf("creating file %s", path)
		resp, _, err = g.client.Repositories.CreateFile(ctx, g.owner, g.gitRepo, path, opts)
		if err != nil {
			return "", handleGithubError(op, err)
		}
	} else {
		op := fmt.Sprintf("updating file %s", path)
		opts.SHA = github.Ptr(revision)
		resp, _, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.gitRepo, path, opts)
		if err != nil {
			return "", handleGithubError(op, err)
		}
	}

	return resp.GetContent().GetSHA(), nil
}

// Delete removes a file at a known revision.
func (g *ContentRepository) Delete(ctx context.Context, path, revision, message string) error {
	op := fmt.Sprintf("deleting file %s", path)
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		SHA:     github.Ptr(revision),
		Branch:  github.Ptr(g.branch),
	}
	_, _, err := g.client.Repositories.DeleteFile(ctx, g.owner, g.gitRepo, path, opts)
	if err != nil {
		return handleGithubError(op, err)
	}
	return nil
}

// List enumerates the files directly under dir on the configured branch.
func (g *ContentRepository) List(ctx context.Context, dir string) ([]domain.Entry, error) {
	op := fmt.Sprintf("listing directory %s", dir)
	_, dirContent, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.gitRepo, dir, &github.RepositoryContentGetOptions{
		Ref: g.branch,
	})
	if err != nil {
		return nil, handleGithubError(op, err)
	}

	entries := make([]domain.Entry, 0, len(dirContent))
	for _, c := range dirContent {
		if c.GetType() != "file" {
			continue
		}
		entries = append(entries, domain.Entry{
			Name: c.GetName(),
			Path: c.GetPath(),
		})
	}
	return entries, nil
}

// handleGithubError inspects an error from the go-github client and maps
// it onto the domain error taxonomy with a structured message.
func handleGithubError(op string, err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		status := errResp.Response.StatusCode
		wrapped := fmt.Errorf("github: %s failed with status %d: %s", op, status, errResp.Message)
		switch {
		case status == http.StatusNotFound:
			return fmt.Errorf("%w: %w", domain.ErrNotFound, wrapped)
		case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
			// 409 for a stale SHA, 422 when creating a name that exists.
			return fmt.Errorf("%w: %w", domain.ErrConflict, wrapped)
		case status >= 500:
			return fmt.Errorf("%w: %w", domain.ErrTransient, wrapped)
		default:
			return wrapped
		}
	}

	return fmt.Errorf("%w: github: %s failed: %w", domain.ErrTransient, op, err)
}
