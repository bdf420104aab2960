package cfg

type Cfg struct {
	// HTTP server configuration
	Port         string
	APIAccessKey string

	// Upstream sources
	ChannelsDir  string
	FeedURL      string
	IncidentsURL string

	// Generative search service
	GeminiAPIKey string
	GeminiModel  string

	// Storage
	DBPath string

	// Cache and scheduler tuning
	CacheFreshness    int // seconds
	CacheRetention    int // seconds
	WorkerCount       int
	SchedulerInterval int // seconds

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
