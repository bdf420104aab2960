package api

import (
	"time"

	"cloudpulse/app/cache"
	"cloudpulse/app/channels"
	"cloudpulse/app/feed"
	"cloudpulse/app/incidents"
)

// AggregatorInterface is the incidents handle the HTTP layer drives.
type AggregatorInterface interface {
	Active(items []feed.Item) []feed.Item
	History(items []feed.Item, now time.Time) []feed.Item
	Duration(start, end string) string
	CopyUpdateTemplate(item feed.Item) (string, error)
	ToggleExpand(id string)
	ExpandedID() string
}

var _ AggregatorInterface = (*incidents.Aggregator)(nil)

type Handler struct {
	store         *cache.Store
	feedLoad      cache.LoadFunc
	incidentsLoad cache.LoadFunc
	eosLoad       cache.LoadFunc
	classifier    *feed.Classifier
	normalizer    *feed.Normalizer
	aggregator    AggregatorInterface
	channelCache  *channels.Cache
}
