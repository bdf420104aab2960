package feed

import (
	"regexp"
	"strings"
)

const (
	siteOrigin          = "https://cloud.google.com"
	archReleaseNotesURL = "https://cloud.google.com/architecture/release-notes"

	archDefaultCategory = "Architecture"
)

// Targeted pattern matches on the known release-notes layout. This is
// deliberately not a markup parser: anything the patterns miss falls back to
// the item's original fields.
var (
	h3Re          = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	anchorRe      = regexp.MustCompile(`(?is)<a\s[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	tagRe         = regexp.MustCompile(`(?s)<[^>]*>`)
	descriptionRe = regexp.MustCompile(`^[:\-\s]+`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Run extracts a canonical title, link, description and category from the
// embedded markup of architecture release-note items. Items from other
// channels pass through unchanged. Missing or malformed markup skips the
// corresponding refinement; the function never fails.
func (n *Normalizer) Run(item Item) Item {
	if item.Source != SourceArchitectureCenter {
		return item
	}

	title := item.Title
	link := item.Link
	description := item.ContentSnippet
	category := archDefaultCategory

	if m := h3Re.FindStringSubmatch(item.Content); m != nil {
		if heading := strings.TrimSpace(stripTags(m[1])); heading != "" {
			category = heading
		}
	}

	if loc := anchorRe.FindStringSubmatchIndex(item.Content); loc != nil {
		href := item.Content[loc[2]:loc[3]]
		inner := strings.TrimSpace(stripTags(item.Content[loc[4]:loc[5]]))

		if href != "" && inner != "" {
			link = href
			title = inner

			trailing := item.Content[loc[1]:]
			trailing = descriptionRe.ReplaceAllString(trailing, "")
			if text := strings.TrimSpace(stripTags(trailing)); text != "" {
				description = text
			}
		}
	}

	categories := []string{category}
	categories = append(categories, ExtractProducts(title+" "+description)...)
	categories = append(categories, item.Categories...)

	item.Title = title
	item.Link = CanonicalizeLink(link)
	item.ContentSnippet = description
	item.Categories = dedupeCategories(categories)

	return item
}

// CanonicalizeLink rewrites a link so it is always fully qualified at the
// output boundary: fragment-only links anchor into the release-notes page,
// rooted paths get the site origin, bare relative values get origin plus a
// slash, and an empty value falls back to the release-notes page itself.
func CanonicalizeLink(link string) string {
	switch {
	case link == "":
		return archReleaseNotesURL
	case strings.HasPrefix(link, "#"):
		return archReleaseNotesURL + link
	case strings.HasPrefix(link, "/"):
		return siteOrigin + link
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		return link
	default:
		return siteOrigin + "/" + link
	}
}

func stripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}
