package channels

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Cache holds the parsed channel configurations keyed by channel name.
type Cache struct {
	channelsDir string
	cache       map[string]*Channel
	mu          sync.RWMutex
}

func NewCache(channelsDir string) *Cache {
	return &Cache{
		channelsDir: channelsDir,
		cache:       make(map[string]*Channel),
	}
}

func (c *Cache) Run() error {
	if _, err := os.Stat(c.channelsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(c.channelsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		fileName := filepath.Base(file)
		channelName := fileName[:len(fileName)-4] // Remove .yml extension

		channel, err := c.LoadChannel(channelName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Channel configuration loaded", "channel", channelName, "source", channel.Source, "kind", channel.Kind, "enabled", channel.Settings.Enabled)
	}

	return nil
}

func (c *Cache) LoadChannel(channelName string) (*Channel, error) {
	configFile := c.getChannelFilePath(channelName)
	channel, err := c.parseChannel(configFile)
	if err != nil {
		return nil, err
	}

	channel.Name = channelName

	if err := c.validateChannel(channel); err != nil {
		return nil, fmt.Errorf("invalid channel %s: %w", configFile, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[channel.Name] = channel

	return channel, nil
}

func (c *Cache) GetChannel(channelName string) (*Channel, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	channel, ok := c.cache[channelName]
	if !ok {
		return nil, fmt.Errorf("channel with name '%s' not found", channelName)
	}
	return channel, nil
}

func (c *Cache) GetChannels() map[string]*Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	channelsCopy := make(map[string]*Channel, len(c.cache))
	for k, v := range c.cache {
		channelsCopy[k] = v
	}
	return channelsCopy
}

func (c *Cache) GetEnabledChannels() map[string]*Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enabled := make(map[string]*Channel)
	for k, v := range c.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (c *Cache) GetChannelCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Cache) parseChannel(configFile string) (*Channel, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var channel Channel
	if err := yaml.Unmarshal(data, &channel); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if channel.Kind == "" {
		channel.Kind = KindGeneric
	}
	if channel.Settings.Timeout == 0 {
		channel.Settings.Timeout = 30
	}

	return &channel, nil
}

func (c *Cache) validateChannel(channel *Channel) error {
	if channel == nil {
		return fmt.Errorf("channel is nil")
	}

	requiredFields := map[string]string{
		"channel name":   channel.Name,
		"channel URL":    channel.URL,
		"channel source": channel.Source,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	validKinds := map[string]bool{
		KindSecurity:     true,
		KindArchitecture: true,
		KindGeneric:      true,
	}
	if !validKinds[channel.Kind] {
		return fmt.Errorf("invalid channel kind: %s", channel.Kind)
	}

	if channel.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}

func (c *Cache) getChannelFilePath(channelName string) string {
	return filepath.Join(c.channelsDir, channelName+".yml")
}
