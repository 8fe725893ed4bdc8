package api

import "time"

// Post is the JSON representation of a published post returned by the
// read API. The markdown body is not exposed; clients consume the
// rendered HTML.
type Post struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HTMLContent string    `json:"html_content,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// PostSummary is the list-view projection of a Post, without the body.
type PostSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
