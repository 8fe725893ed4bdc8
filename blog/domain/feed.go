package domain

import "time"

// FeedEntry is the projection of a Post into syndication form.
// Entries are constructed fresh on every feed build and never persisted.
type FeedEntry struct {
	Title       string
	Description string
	Link        string
	Categories  []string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// FeedDocument is the feed-level descriptor handed to the serializer.
// Updated is derived from the newest entry rather than the wall clock so
// that rebuilding over an unchanged post set yields an identical document.
type FeedDocument struct {
	Title       string
	Description string
	SiteURL     string
	Language    string
	Updated     time.Time
	Items       []FeedEntry
}
