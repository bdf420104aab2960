package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cloudpulse/app/cache"
	"cloudpulse/app/channels"
	"cloudpulse/app/cfg"
	"cloudpulse/app/feed"
)

func NewHandler(store *cache.Store, feedLoad, incidentsLoad, eosLoad cache.LoadFunc,
	classifier *feed.Classifier, normalizer *feed.Normalizer,
	aggregator AggregatorInterface, channelCache *channels.Cache) *Handler {
	return &Handler{
		store:         store,
		feedLoad:      feedLoad,
		incidentsLoad: incidentsLoad,
		eosLoad:       eosLoad,
		classifier:    classifier,
		normalizer:    normalizer,
		aggregator:    aggregator,
		channelCache:  channelCache,
	}
}

// enrich applies the per-source transforms to a cached payload. Transforms
// pass items from other sources through unchanged, so one pipeline serves
// every view.
func (h *Handler) enrich(items []feed.Item) []feed.Item {
	out := make([]feed.Item, 0, len(items))
	for _, item := range items {
		out = append(out, h.normalizer.Run(h.classifier.Run(item)))
	}
	return out
}

func sourceSelector(source string) cache.Selector {
	return func(items []feed.Item) []feed.Item {
		var out []feed.Item
		for _, item := range items {
			if item.Source == source {
				out = append(out, item)
			}
		}
		return out
	}
}

func (h *Handler) GetFeed(c *gin.Context) {
	items, err := h.store.Get(c.Request.Context(), cache.KeyFeed, h.feedLoad)
	if err != nil {
		slog.Error("Feed query failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream feed unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.enrich(items)})
}

func (h *Handler) GetSecurityFeed(c *gin.Context) {
	items, err := h.store.Select(c.Request.Context(), cache.KeyFeed, h.feedLoad,
		sourceSelector(feed.SourceSecurityBulletins))
	if err != nil {
		slog.Error("Security feed query failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream feed unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.enrich(items)})
}

func (h *Handler) GetArchitectureFeed(c *gin.Context) {
	items, err := h.store.Select(c.Request.Context(), cache.KeyFeed, h.feedLoad,
		sourceSelector(feed.SourceArchitectureCenter))
	if err != nil {
		slog.Error("Architecture feed query failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream feed unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": h.enrich(items)})
}

func (h *Handler) GetEOS(c *gin.Context) {
	items, err := h.store.Get(c.Request.Context(), cache.KeyEOS, h.eosLoad)
	if err != nil {
		slog.Error("End-of-support query failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "end-of-support data unavailable"})
		return
	}

	if items == nil {
		items = []feed.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type incidentView struct {
	feed.Item
	Duration string `json:"duration,omitempty"`
}

func (h *Handler) annotate(items []feed.Item) []incidentView {
	views := make([]incidentView, 0, len(items))
	for _, item := range items {
		view := incidentView{Item: item}
		if item.Begin != "" {
			end := ""
			if !item.Active() {
				end = item.ISODate
			}
			view.Duration = h.aggregator.Duration(item.Begin, end)
		}
		views = append(views, view)
	}
	return views
}

func (h *Handler) GetIncidents(c *gin.Context) {
	items, err := h.store.Get(c.Request.Context(), cache.KeyIncidents, h.incidentsLoad)
	if err != nil {
		slog.Error("Incidents query failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "incidents data unavailable"})
		return
	}

	now := time.Now()
	c.JSON(http.StatusOK, gin.H{
		"active":             h.annotate(h.aggregator.Active(items)),
		"history":            h.annotate(h.aggregator.History(items, now)),
		"expandedIncidentId": h.aggregator.ExpandedID(),
	})
}

func (h *Handler) ToggleIncidentExpand(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	h.aggregator.ToggleExpand(id)

	c.JSON(http.StatusOK, gin.H{"expandedIncidentId": h.aggregator.ExpandedID()})
}

func (h *Handler) CopyIncidentUpdate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	items, err := h.store.Get(c.Request.Context(), cache.KeyIncidents, h.incidentsLoad)
	if err != nil {
		slog.Error("Incidents query failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "incidents data unavailable"})
		return
	}

	for _, item := range items {
		if item.ID == id {
			template, err := h.aggregator.CopyUpdateTemplate(item)
			if err != nil {
				slog.Error("Copy update template failed", "incident", id, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to copy update"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"template": template})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	}

	if h.channelCache != nil {
		health["loaded_channels"] = h.channelCache.GetChannelCount()
	}

	c.JSON(http.StatusOK, health)
}
