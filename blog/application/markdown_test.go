package application

import (
	"strings"
	"testing"
)

func TestExtractPostTitle(t *testing.T) {
	tests := []struct {
		name     string
		markdown []byte
		expected string
	}{
		{
			name:     "Valid title",
			markdown: []byte("# My Blog Post\nSome content"),
			expected: "My Blog Post",
		},
		{
			name:     "Title with extra spaces",
			markdown: []byte("#   Title with spaces   \nContent"),
			expected: "Title with spaces",
		},
		{
			name:     "No title",
			markdown: []byte("Some content without title"),
			expected: "",
		},
		{
			name:     "Empty markdown",
			markdown: []byte(""),
			expected: "",
		},
		{
			name:     "Hash without space",
			markdown: []byte("#NoSpace\nContent"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractPostTitle(tt.markdown)
			if result != tt.expected {
				t.Errorf("extractPostTitle() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractSnippet(t *testing.T) {
	tests := []struct {
		name     string
		markdown []byte
		expected string
	}{
		{
			name:     "First paragraph",
			markdown: []byte("# Title\n\nThis is the intro.\n\nSecond paragraph."),
			expected: "This is the intro.",
		},
		{
			name:     "Multi-line paragraph joined",
			markdown: []byte("Line one\nline two\n\nNext."),
			expected: "Line one line two",
		},
		{
			name:     "Skips lists before content",
			markdown: []byte("- item\n* item\n\nActual paragraph."),
			expected: "Actual paragraph.",
		},
		{
			name:     "No paragraph content",
			markdown: []byte("# Only a heading\n\n```\ncode\n```"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractSnippet(tt.markdown)
			if result != tt.expected {
				t.Errorf("extractSnippet() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractSnippet_Truncation(t *testing.T) {
	long := strings.Repeat("word ", 100)
	snippet := extractSnippet([]byte(long))

	if len(snippet) > maxSnippetLength+3 {
		t.Errorf("snippet length = %d, want <= %d", len(snippet), maxSnippetLength+3)
	}
	if !strings.HasSuffix(snippet, "...") {
		t.Errorf("truncated snippet should end with ellipsis, got %q", snippet)
	}
}

func TestIsRelativeLink(t *testing.T) {
	tests := []struct {
		name     string
		dest     string
		expected bool
	}{
		{name: "Absolute path", dest: "/about", expected: true},
		{name: "Protocol relative", dest: "//cdn.example.com/x", expected: false},
		{name: "Dot relative", dest: "./other-post.md", expected: true},
		{name: "Parent relative", dest: "../images/pic.png", expected: true},
		{name: "Full URL", dest: "https://example.com", expected: false},
		{name: "Bare filename", dest: "other-post.md", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isRelativeLink(tt.dest)
			if result != tt.expected {
				t.Errorf("isRelativeLink(%q) = %v, want %v", tt.dest, result, tt.expected)
			}
		})
	}
}

func TestMarkdownRenderer_Render(t *testing.T) {
	renderer := NewMarkdownRenderer("https://example.com")

	markdown := []byte("# Hello\n\nIntro paragraph with a [link](./other-post.md).\n")

	result, err := renderer.Render(markdown)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if result.Title != "Hello" {
		t.Errorf("Title = %q, want %q", result.Title, "Hello")
	}
	if !strings.Contains(result.Snippet, "Intro paragraph") {
		t.Errorf("Snippet = %q, expected intro paragraph", result.Snippet)
	}

	html := string(result.HTMLContent)
	if !strings.Contains(html, `href="https://example.com/blog/other-post/"`) {
		t.Errorf("relative link not rewritten, html = %s", html)
	}
}

func TestMarkdownRenderer_RewritesImages(t *testing.T) {
	renderer := NewMarkdownRenderer("https://example.com")

	result, err := renderer.Render([]byte("![pic](../images/pic.png)\n"))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if !strings.Contains(string(result.HTMLContent), `src="https://example.com/images/pic.png"`) {
		t.Errorf("image source not rewritten, html = %s", result.HTMLContent)
	}
}
