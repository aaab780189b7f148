package domain

import "context"

// File is the content of a stored file plus the revision token the
// store requires to accept a subsequent update or delete.
type File struct {
	Content  string
	Revision string
}

// Entry is one item of a directory listing.
type Entry struct {
	Name string
	Path string
}

// ContentRepository abstracts the remote version-controlled store as a
// flat path-keyed file database. Operations are blocking and never
// retried at this layer; retry policy belongs to the service above.
type ContentRepository interface {
	// Get fetches a file. ErrNotFound if absent.
	Get(ctx context.Context, path string) (*File, error)

	// Put writes a file and returns the new revision. An empty revision
	// creates the file and fails with ErrConflict if it already exists;
	// a non-empty revision updates and fails with ErrConflict when stale.
	Put(ctx context.Context, path, content, revision, message string) (string, error)

	// Delete removes a file at a known revision.
	Delete(ctx context.Context, path, revision, message string) error

	// List enumerates the files directly under dir.
	List(ctx context.Context, dir string) ([]Entry, error)
}
