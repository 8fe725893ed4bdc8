package syndication

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/kmorrow7/inkfeed/blog/domain"
)

// ContentTypeAtom is the media type served with an Atom document.
const ContentTypeAtom = "application/atom+xml; charset=utf-8"

const atomNamespace = "http://www.w3.org/2005/Atom"

type atomFeed struct {
	XMLName  xml.Name    `xml:"feed"`
	Xmlns    string      `xml:"xmlns,attr"`
	ID       string      `xml:"id"`
	Title    string      `xml:"title"`
	Subtitle string      `xml:"subtitle,omitempty"`
	Updated  string      `xml:"updated"`
	Links    []atomLink  `xml:"link"`
	Entries  []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Updated    string         `xml:"updated"`
	Published  string         `xml:"published"`
	Link       atomLink       `xml:"link"`
	Summary    string         `xml:"summary,omitempty"`
	Categories []atomCategory `xml:"category,omitempty"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr,omitempty"`
	Href string `xml:"href,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// WriteAtom serializes the document as an Atom feed.
func WriteAtom(doc *domain.FeedDocument) ([]byte, error) {
	feed := atomFeed{
		Xmlns:    atomNamespace,
		ID:       doc.SiteURL + "/",
		Title:    doc.Title,
		Subtitle: doc.Description,
		Updated:  atomTime(doc.Updated),
		Links: []atomLink{
			{Rel: "alternate", Href: doc.SiteURL + "/"},
		},
		Entries: make([]atomEntry, 0, len(doc.Items)),
	}

	for _, entry := range doc.Items {
		updated := entry.UpdatedAt
		if updated.IsZero() {
			updated = entry.PublishedAt
		}

		categories := make([]atomCategory, 0, len(entry.Categories))
		for _, c := range entry.Categories {
			categories = append(categories, atomCategory{Term: c})
		}

		feed.Entries = append(feed.Entries, atomEntry{
			ID:         entry.Link,
			Title:      entry.Title,
			Updated:    atomTime(updated),
			Published:  atomTime(entry.PublishedAt),
			Link:       atomLink{Rel: "alternate", Href: entry.Link},
			Summary:    entry.Description,
			Categories: categories,
		})
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal Atom document: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}

// atomTime renders a timestamp in the RFC3339 form Atom requires. Atom has
// no way to say "never updated", so a zero time becomes the Unix epoch.
func atomTime(t time.Time) string {
	if t.IsZero() {
		t = time.Unix(0, 0)
	}
	return t.UTC().Format(time.RFC3339)
}
