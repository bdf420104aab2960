package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses raw Atom/RSS bytes from one channel and maps every entry to the
// normalized item shape, stamped with the channel's source label.
func (p *Parser) Run(data []byte, source string) ([]Item, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		items = append(items, p.normalizeEntry(entry, source))
	}

	return items, nil
}

func (p *Parser) normalizeEntry(entry *gofeed.Item, source string) Item {
	item := Item{
		ID:             cmp.Or(entry.GUID, entry.Link),
		Title:          entry.Title,
		Link:           entry.Link,
		Content:        entry.Content,
		ContentSnippet: entry.Description,
		Source:         source,
	}

	if entry.PublishedParsed != nil {
		item.ISODate = entry.PublishedParsed.UTC().Format(time.RFC3339)
	} else if entry.UpdatedParsed != nil {
		item.ISODate = entry.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	if entry.Categories != nil {
		item.Categories = dedupeCategories(entry.Categories)
	}

	return item
}
