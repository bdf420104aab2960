package channels

// Channel kinds select which enrichment transform applies to a channel's
// items on read.
const (
	KindSecurity     = "security"
	KindArchitecture = "architecture"
	KindGeneric      = "generic"
)

type Channel struct {
	Name     string          // Derived from filename (without .yml extension)
	URL      string          `yaml:"url"`
	Source   string          `yaml:"source"` // label stamped on every item
	Kind     string          `yaml:"kind"`
	Settings ChannelSettings `yaml:"settings"`
}

type ChannelSettings struct {
	Enabled        bool `yaml:"enabled"`
	Timeout        int  `yaml:"timeout"`         // seconds
	ExtractContent bool `yaml:"extract_content"` // backfill empty snippets from the linked page
}
