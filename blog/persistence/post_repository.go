package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kmorrow7/inkfeed/blog/domain"
	"github.com/kmorrow7/inkfeed/shared/db"
)

var _ domain.PostRepository = (*SQLitePostRepository)(nil)

// SQLitePostRepository implements domain.PostRepository using SQLite
type SQLitePostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new SQLitePostRepository from a standard sql.DB
func NewPostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{
		db: db,
	}
}

const upsertPostQuery = `
	INSERT INTO posts (slug, title, description, body, html_content, tags, draft, published_at, updated_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(slug) DO UPDATE SET
		title = excluded.title,
		description = excluded.description,
		body = excluded.body,
		html_content = excluded.html_content,
		tags = excluded.tags,
		draft = excluded.draft,
		published_at = excluded.published_at,
		updated_at = excluded.updated_at,
		created_at = COALESCE(posts.created_at, excluded.created_at)
`

// UpsertPost inserts or updates a post keyed by slug. The original
// created_at is preserved across updates.
func (r *SQLitePostRepository) UpsertPost(ctx context.Context, p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("post cannot be nil")
	}

	if p.Slug == "" {
		return fmt.Errorf("post slug cannot be empty")
	}

	tags, err := json.Marshal(p.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	return db.RunInTransaction(ctx, r.db, func(txCtx context.Context) error {
		var publishedAt, updatedAt, createdAt any

		if !p.PublishedAt.IsZero() {
			publishedAt = p.PublishedAt
		}

		if !p.UpdatedAt.IsZero() {
			updatedAt = p.UpdatedAt
		}

		createdAt = p.CreatedAt
		if p.CreatedAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		executor := db.GetExecutor(txCtx, r.db)
		_, err := executor.ExecContext(txCtx, upsertPostQuery,
			p.Slug,
			p.Title,
			p.Description,
			p.Body,
			p.HTMLContent,
			string(tags),
			p.Draft,
			publishedAt,
			updatedAt,
			createdAt,
		)

		if err != nil {
			return fmt.Errorf("failed to upsert post: %w", err)
		}

		return nil
	})
}

const getPostQuery = `
	SELECT slug, title, description, body, html_content, tags, draft, published_at, updated_at, created_at
	FROM posts
	WHERE slug = ?
`

// GetPost retrieves a single post by slug
func (r *SQLitePostRepository) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	if slug == "" {
		return nil, fmt.Errorf("post slug cannot be empty")
	}

	var row postRow
	err := r.db.QueryRowContext(ctx, getPostQuery, slug).Scan(
		&row.Slug,
		&row.Title,
		&row.Description,
		&row.Body,
		&row.HTMLContent,
		&row.Tags,
		&row.Draft,
		&row.PublishedAt,
		&row.UpdatedAt,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", domain.ErrPostNotFound, slug)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return row.toDomain()
}

const getLatestUpdatedTimeQuery = `
	SELECT updated_at FROM posts WHERE updated_at IS NOT NULL ORDER BY updated_at DESC LIMIT 1
`

// GetLatestUpdatedTime returns the latest updated_at time across all posts
func (r *SQLitePostRepository) GetLatestUpdatedTime(ctx context.Context) (time.Time, error) {
	var latestUpdated sql.NullTime
	err := r.db.QueryRowContext(ctx, getLatestUpdatedTimeQuery).Scan(&latestUpdated)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get latest updated time: %w", err)
	}

	if !latestUpdated.Valid {
		return time.Time{}, nil
	}

	return latestUpdated.Time, nil
}

const listPostsQuery = `
	SELECT slug, title, description, body, html_content, tags, draft, published_at, updated_at, created_at
	FROM posts
	ORDER BY rowid
`

// ListPosts retrieves every post in insertion order, optionally filtered by
// a metadata predicate. A nil filter matches all posts.
func (r *SQLitePostRepository) ListPosts(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows, filter)
}

const listPublishedPostsQuery = `
	SELECT slug, title, description, body, html_content, tags, draft, published_at, updated_at, created_at
	FROM posts
	WHERE draft = 0 AND published_at IS NOT NULL
	ORDER BY published_at DESC
	LIMIT ? OFFSET ?
`

// ListPublishedPosts retrieves non-draft posts ordered by publication date
// descending.
func (r *SQLitePostRepository) ListPublishedPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	if limit <= 0 {
		limit = 10 // Default limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, listPublishedPostsQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows, nil)
}

func scanPosts(rows *sql.Rows, filter domain.PostFilter) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var row postRow
		err := rows.Scan(
			&row.Slug,
			&row.Title,
			&row.Description,
			&row.Body,
			&row.HTMLContent,
			&row.Tags,
			&row.Draft,
			&row.PublishedAt,
			&row.UpdatedAt,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}

		post, err := row.toDomain()
		if err != nil {
			return nil, err
		}

		if filter != nil && !filter(post) {
			continue
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// postRow is a private struct used to scan database rows.
// It uses sql.NullTime to handle nullable timestamp fields
// and provides a method to convert to the domain.Post model.
type postRow struct {
	Slug        string       `db:"slug"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Body        string       `db:"body"`
	HTMLContent []byte       `db:"html_content"`
	Tags        string       `db:"tags"`
	Draft       bool         `db:"draft"`
	PublishedAt sql.NullTime `db:"published_at"`
	UpdatedAt   sql.NullTime `db:"updated_at"`
	CreatedAt   sql.NullTime `db:"created_at"`
}

// toDomain converts a postRow to a domain.Post, handling nullable times
// and the JSON-encoded tag list.
func (pr *postRow) toDomain() (*domain.Post, error) {
	post := &domain.Post{
		Slug:        pr.Slug,
		Title:       pr.Title,
		Description: pr.Description,
		Body:        pr.Body,
		HTMLContent: pr.HTMLContent,
		Draft:       pr.Draft,
	}

	if pr.Tags != "" {
		if err := json.Unmarshal([]byte(pr.Tags), &post.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for post %q: %w", pr.Slug, err)
		}
	}

	if pr.PublishedAt.Valid {
		post.PublishedAt = pr.PublishedAt.Time
	}
	if pr.UpdatedAt.Valid {
		post.UpdatedAt = pr.UpdatedAt.Time
	}
	if pr.CreatedAt.Valid {
		post.CreatedAt = pr.CreatedAt.Time
	}

	return post, nil
}
