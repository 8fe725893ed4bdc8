package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kmorrow7/inkfeed/blog/application"
	"github.com/kmorrow7/inkfeed/blog/domain"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// frontmatter is the YAML metadata block at the top of a content file.
type frontmatter struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	PubDate     time.Time `yaml:"pubDate"`
	UpdatedDate time.Time `yaml:"updatedDate"`
	Tags        []string  `yaml:"tags"`
	Draft       bool      `yaml:"draft"`
}

// Loader reads markdown content files from a directory and syncs them into
// the post repository. The filesystem is the source of truth; the repository
// is a queryable copy.
type Loader struct {
	dir      string
	renderer application.MarkdownRenderer
	repo     domain.PostRepository
}

func NewLoader(dir string, renderer application.MarkdownRenderer, repo domain.PostRepository) *Loader {
	return &Loader{
		dir:      dir,
		renderer: renderer,
		repo:     repo,
	}
}

// Sync parses every markdown file under the content directory and upserts
// the result. A file that fails to parse is reported and does not stop the
// rest of the sync; the combined error covers all failed files.
func (l *Loader) Sync(ctx context.Context) error {
	var synced int
	var errs []error

	walkErr := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		post, err := l.loadFile(path)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("Failed to load content file")
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		if err := l.repo.UpsertPost(ctx, post); err != nil {
			log.Error().Err(err).Str("slug", post.Slug).Msg("Failed to upsert post")
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		synced++
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("failed to walk content directory %s: %w", l.dir, walkErr)
	}

	log.Info().Int("synced", synced).Int("failed", len(errs)).Str("dir", l.dir).Msg("Content sync complete")

	return errors.Join(errs...)
}

func (l *Loader) loadFile(path string) (*domain.Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return l.parsePost(slugFromFilename(path), raw)
}

func (l *Loader) parsePost(slug string, raw []byte) (*domain.Post, error) {
	meta, body, err := splitFrontmatter(raw)
	if err != nil {
		return nil, err
	}

	var fm frontmatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	if fm.PubDate.IsZero() && !fm.Draft {
		return nil, fmt.Errorf("missing required pubDate")
	}

	rendered, err := l.renderer.Render(body)
	if err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}

	title := fm.Title
	if title == "" {
		title = rendered.Title
	}
	if title == "" {
		title = "Untitled Post"
	}

	description := fm.Description
	if description == "" {
		description = rendered.Snippet
	}

	return &domain.Post{
		Slug:        slug,
		Title:       title,
		Description: description,
		Body:        string(body),
		HTMLContent: rendered.HTMLContent,
		Tags:        fm.Tags,
		Draft:       fm.Draft,
		PublishedAt: fm.PubDate,
		UpdatedAt:   fm.UpdatedDate,
		CreatedAt:   fm.PubDate,
	}, nil
}

// splitFrontmatter separates the leading YAML block from the markdown body.
// The block is delimited by "---" lines and must open on the first line.
// A file without a frontmatter block is treated as all body.
func splitFrontmatter(raw []byte) (meta []byte, body []byte, err error) {
	trimmed := bytes.TrimLeft(raw, "\n")
	if !bytes.HasPrefix(trimmed, frontmatterDelimiter) {
		return nil, raw, nil
	}

	rest := trimmed[len(frontmatterDelimiter):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	if len(rest) == 0 || rest[0] != '\n' {
		return nil, raw, nil
	}
	rest = rest[1:]

	// The terminator must be a line that is exactly "---". A line such as
	// "----" or "---foo" is malformed and fails the file rather than
	// leaking its remainder into the body.
	offset := 0
	for {
		lineEnd := bytes.IndexByte(rest[offset:], '\n')

		var line []byte
		next := len(rest)
		if lineEnd >= 0 {
			line = rest[offset : offset+lineEnd]
			next = offset + lineEnd + 1
		} else {
			line = rest[offset:]
		}

		if bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), frontmatterDelimiter) {
			metaEnd := offset
			if metaEnd > 0 {
				metaEnd-- // drop the newline preceding the terminator
			}
			return rest[:metaEnd], rest[next:], nil
		}

		if lineEnd < 0 {
			return nil, nil, fmt.Errorf("unterminated frontmatter block")
		}
		offset = next
	}
}

// slugFromFilename derives the post slug from the content filename.
// "content/first-post.md" -> "first-post"
func slugFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ".md")
}
