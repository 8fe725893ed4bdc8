package domain

import (
	"context"
	"time"
)

// Post represents a blog post.
// A post is created from a Markdown file in the content directory. The slug
// is derived from the filename and uniquely identifies the post. Posts marked
// as drafts are stored but never syndicated.
type Post struct {
	Slug        string
	Title       string
	Description string
	Body        string
	HTMLContent []byte
	Tags        []string
	Draft       bool
	PublishedAt time.Time
	UpdatedAt   time.Time
	CreatedAt   time.Time
}

// PostFilter is a predicate over post metadata, applied by the repository
// during a list read. A nil filter matches every post.
type PostFilter func(p *Post) bool

// ExcludeDrafts matches only posts that are not drafts.
func ExcludeDrafts(p *Post) bool {
	return !p.Draft
}

type PostRepository interface {
	UpsertPost(ctx context.Context, p *Post) error
	GetPost(ctx context.Context, slug string) (*Post, error)
	GetLatestUpdatedTime(ctx context.Context) (time.Time, error)

	// ListPosts returns every post matching the filter, in insertion order.
	ListPosts(ctx context.Context, filter PostFilter) ([]*Post, error)

	// ListPublishedPosts returns non-draft posts ordered by publication
	// date descending.
	ListPublishedPosts(ctx context.Context, limit int, offset int) ([]*Post, error)
}
