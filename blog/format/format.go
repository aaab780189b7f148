// Package format implements the flat-text wire format for stored posts.
//
// A post file looks like:
//
//	title line
//	TAGS: a, b
//	IMAGE: https://example.com/x.jpg
//	LIKES: 3
//
//	body text
//
// Metadata lines are optional, may appear in any order, and the last
// occurrence of a prefix wins. The first line that matches no prefix
// begins the body; nothing after that point is treated as metadata.
package format

import (
	"strconv"
	"strings"

	"github.com/chad0920kim/cheer-factory/blog/domain"
)

const (
	tagsPrefix  = "TAGS:"
	imagePrefix = "IMAGE:"
	likesPrefix = "LIKES:"
)

// Decoded holds the fields parsed out of a post file.
type Decoded struct {
	Title    string
	Content  string
	Tags     []string
	ImageURL string
	Likes    int
}

// Encode serializes a post into the stored text form.
func Encode(p domain.Post) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	if len(p.Tags) > 0 {
		b.WriteString(tagsPrefix + " " + strings.Join(p.Tags, ", ") + "\n")
	}
	if p.ImageURL != "" {
		b.WriteString(imagePrefix + " " + p.ImageURL + "\n")
	}
	if p.Likes > 0 {
		b.WriteString(likesPrefix + " " + strconv.Itoa(p.Likes) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(p.Content)
	return b.String()
}

// Decode parses stored text. It never fails: the first line is always
// the title, unknown lines begin the body, and absent metadata falls
// back to zero values.
func Decode(text string) Decoded {
	var d Decoded
	lines := strings.Split(text, "\n")
	if len(lines) == 0 {
		return d
	}
	d.Title = strings.TrimSpace(lines[0])

	i := 1
	for ; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, tagsPrefix):
			d.Tags = splitTags(strings.TrimPrefix(line, tagsPrefix))
		case strings.HasPrefix(line, imagePrefix):
			d.ImageURL = strings.TrimSpace(strings.TrimPrefix(line, imagePrefix))
		case strings.HasPrefix(line, likesPrefix):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, likesPrefix))); err == nil {
				d.Likes = n
			}
		default:
			// First non-metadata line starts the body; stop scanning.
			d.Content = strings.TrimSpace(strings.Join(lines[i:], "\n"))
			return d
		}
	}
	return d
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
