package application

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kmorrow7/inkfeed/blog/domain"
)

// FeedConfig holds the feed-level metadata fixed by site configuration.
type FeedConfig struct {
	Title       string
	Description string
	Language    string
}

const defaultLanguage = "en-us"

// FeedService builds syndication documents from the post repository.
type FeedService struct {
	repo    domain.PostRepository
	cfg     FeedConfig
	siteURL string
}

func NewFeedService(repo domain.PostRepository, cfg FeedConfig, siteURL string) *FeedService {
	return &FeedService{
		repo:    repo,
		cfg:     cfg,
		siteURL: siteURL,
	}
}

// CurrentFeed reads the post set from the repository and builds the feed
// document for it.
func (s *FeedService) CurrentFeed(ctx context.Context) (*domain.FeedDocument, error) {
	posts, err := s.repo.ListPosts(ctx, domain.ExcludeDrafts)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return BuildFeed(posts, s.siteURL, s.cfg)
}

// LastModified reports the newest update time across all stored posts,
// letting the HTTP layer answer conditional requests without building the
// feed. Zero when no post carries an update time.
func (s *FeedService) LastModified(ctx context.Context) (time.Time, error) {
	return s.repo.GetLatestUpdatedTime(ctx)
}

// BuildFeed transforms a snapshot of posts into an ordered feed document.
//
// Drafts are excluded unconditionally, even when the caller already filtered
// them at the repository. The remaining posts are ordered by publication date
// descending; posts sharing a date keep their source order, so repeated
// builds over an unchanged set never reshuffle the feed. Each retained post
// must carry a publication date; a missing one fails the whole build rather
// than silently shortening the feed.
//
// The transformation is pure: no I/O, no clock reads, and an identical
// document for identical input.
func BuildFeed(allPosts []*domain.Post, siteURL string, cfg FeedConfig) (*domain.FeedDocument, error) {
	base, err := validateSiteURL(siteURL)
	if err != nil {
		return nil, err
	}

	posts := make([]*domain.Post, 0, len(allPosts))
	for _, p := range allPosts {
		if p.Draft {
			continue
		}
		posts = append(posts, p)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})

	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}

	doc := &domain.FeedDocument{
		Title:       cfg.Title,
		Description: cfg.Description,
		SiteURL:     base,
		Language:    language,
		Items:       make([]domain.FeedEntry, 0, len(posts)),
	}

	for _, p := range posts {
		if p.PublishedAt.IsZero() {
			return nil, &domain.DataError{Slug: p.Slug, Reason: "missing publication date"}
		}

		entry := domain.FeedEntry{
			Title:       p.Title,
			Description: p.Description,
			Link:        base + "/blog/" + p.Slug + "/",
			Categories:  append([]string(nil), p.Tags...),
			PublishedAt: p.PublishedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		doc.Items = append(doc.Items, entry)

		if ts := entryTimestamp(entry); ts.After(doc.Updated) {
			doc.Updated = ts
		}
	}

	return doc, nil
}

// entryTimestamp picks the most recent timestamp an entry carries.
func entryTimestamp(e domain.FeedEntry) time.Time {
	if e.UpdatedAt.After(e.PublishedAt) {
		return e.UpdatedAt
	}
	return e.PublishedAt
}

// validateSiteURL enforces the non-empty absolute-URL constraint on the
// feed's base URL and normalizes away a trailing slash.
func validateSiteURL(siteURL string) (string, error) {
	if siteURL == "" {
		return "", &domain.ConfigurationError{Field: "siteURL", Reason: "must not be empty"}
	}

	u, err := url.Parse(siteURL)
	if err != nil {
		return "", &domain.ConfigurationError{Field: "siteURL", Reason: fmt.Sprintf("invalid URL: %v", err)}
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &domain.ConfigurationError{Field: "siteURL", Reason: "must be an absolute http or https URL"}
	}

	return strings.TrimSuffix(u.String(), "/"), nil
}
