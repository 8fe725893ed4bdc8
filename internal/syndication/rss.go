// Package syndication turns a feed document into literal RSS 2.0 or Atom
// XML. Serialization is deterministic for a given document: timestamps come
// from the document, never from the clock.
package syndication

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/kmorrow7/inkfeed/blog/domain"
)

// ContentTypeRSS is the media type served with an RSS document.
const ContentTypeRSS = "application/rss+xml; charset=utf-8"

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	Description string   `xml:"description,omitempty"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// WriteRSS serializes the document as RSS 2.0.
func WriteRSS(doc *domain.FeedDocument) ([]byte, error) {
	channel := rssChannel{
		Title:       doc.Title,
		Link:        doc.SiteURL,
		Description: doc.Description,
		Language:    doc.Language,
		Items:       make([]rssItem, 0, len(doc.Items)),
	}

	if !doc.Updated.IsZero() {
		channel.LastBuildDate = doc.Updated.UTC().Format(time.RFC1123Z)
	}

	for _, entry := range doc.Items {
		channel.Items = append(channel.Items, rssItem{
			Title:       entry.Title,
			Link:        entry.Link,
			GUID:        rssGUID{IsPermaLink: true, Value: entry.Link},
			Description: entry.Description,
			PubDate:     entry.PublishedAt.UTC().Format(time.RFC1123Z),
			Categories:  entry.Categories,
		})
	}

	out, err := xml.MarshalIndent(rssDocument{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RSS document: %w", err)
	}

	return append([]byte(xml.Header), out...), nil
}
