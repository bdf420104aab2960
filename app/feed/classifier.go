package feed

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SeverityUnknown is assigned when no severity signal is found in the text.
const SeverityUnknown = "Unknown"

// severityLevels in classification priority order.
var severityLevels = []string{"critical", "high", "medium", "low"}

var (
	explicitSeverityRe = regexp.MustCompile(`severity:\s*(critical|high|medium|low)`)
	wordSeverityRe     = map[string]*regexp.Regexp{}
	severityCaser      = cases.Title(language.English)
)

func init() {
	for _, level := range severityLevels {
		wordSeverityRe[level] = regexp.MustCompile(`\b` + level + `\b`)
	}
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Run derives a severity level for security bulletin items and extends their
// categories. Items from other channels pass through unchanged. The function
// is total: absence of signal degrades to Unknown rather than erroring.
func (c *Classifier) Run(item Item) Item {
	if item.Source != SourceSecurityBulletins {
		return item
	}

	body := item.Content
	if body == "" {
		body = item.ContentSnippet
	}
	text := strings.ToLower(item.Title + " " + body)

	severity := SeverityUnknown

	// An explicit "severity: LEVEL" phrase always wins over loose keyword
	// occurrences elsewhere in the text.
	if m := explicitSeverityRe.FindStringSubmatch(text); m != nil {
		severity = severityCaser.String(m[1])
	} else {
		for _, level := range severityLevels {
			if wordSeverityRe[level].MatchString(text) {
				severity = severityCaser.String(level)
				break
			}
		}
	}

	categories := []string{"Security", "Bulletin"}
	if severity != SeverityUnknown {
		categories = append(categories, severity)
	}
	categories = append(categories, item.Categories...)

	item.Severity = severity
	item.Categories = dedupeCategories(categories)

	return item
}
