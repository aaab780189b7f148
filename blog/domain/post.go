package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Languages a post can be stored in. Every published post exists as a
// ko/en pair sharing the same date and sequence number.
const (
	LangKorean  = "ko"
	LangEnglish = "en"
)

// PostsDir is the directory inside the content repository that holds
// the per-post text files and the index document.
const PostsDir = "posts"

// IndexPath is the fixed location of the aggregate index document.
const IndexPath = PostsDir + "/index.json"

var postFileRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(\d{3})-(ko|en)\.txt$`)

// Post is a single language variant of a published post.
// ID doubles as the storage path stem: {YYYY-MM-DD}-{seq:03d}-{ko|en}.
type Post struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Lang     string   `json:"lang,omitempty"`
	Likes    int      `json:"likes"`
}

// Index is the derived aggregate listing of all posts, newest first.
// The per-file store remains the source of truth for content; the index
// is the source of truth for ordering and enumeration.
type Index struct {
	Posts   []Post    `json:"posts"`
	Updated time.Time `json:"updated"`
}

// PostID carries the pieces encoded in a post's identifier.
type PostID struct {
	Date     string
	Sequence int
	Lang     string
}

// ParsePostFile splits a stored filename into its id parts.
// Returns false for anything that is not a post file (e.g. index.json).
func ParsePostFile(name string) (PostID, bool) {
	m := postFileRegex.FindStringSubmatch(name)
	if m == nil {
		return PostID{}, false
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return PostID{}, false
	}
	return PostID{Date: m[1], Sequence: seq, Lang: m[3]}, true
}

// BaseID strips a trailing -ko/-en language suffix from a post id,
// leaving the shared {date}-{seq} stem of the pair.
func BaseID(id string) string {
	if strings.HasSuffix(id, "-"+LangKorean) || strings.HasSuffix(id, "-"+LangEnglish) {
		return id[:len(id)-3]
	}
	return id
}

// LangOf returns the language suffix of a post id, or "" if absent.
func LangOf(id string) string {
	switch {
	case strings.HasSuffix(id, "-"+LangKorean):
		return LangKorean
	case strings.HasSuffix(id, "-"+LangEnglish):
		return LangEnglish
	default:
		return ""
	}
}

// DateOf derives the YYYY-MM-DD date from a post id's leading tokens.
func DateOf(id string) string {
	parts := strings.SplitN(id, "-", 4)
	if len(parts) < 3 {
		return ""
	}
	return strings.Join(parts[:3], "-")
}

// PairID builds the id for one half of a post pair.
func PairID(date string, seq int, lang string) string {
	return fmt.Sprintf("%s-%03d-%s", date, seq, lang)
}

// PostPath returns the repository path for a post id.
func PostPath(id string) string {
	return PostsDir + "/" + id + ".txt"
}
