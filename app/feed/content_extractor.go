package feed

import (
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/readeck/go-readability"
)

// snippetLimit caps extracted page text used as a content snippet.
const snippetLimit = 500

type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Run extracts the readable text of an article page. Used to backfill the
// content snippet of channel items that ship only a link.
func (e *ContentExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	if len(text) > snippetLimit {
		text = text[:snippetLimit] + "..."
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}
