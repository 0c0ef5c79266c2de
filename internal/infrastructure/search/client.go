package search

import (
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/hotel-event-indexer/internal/config"
)

// NewClient creates an Elasticsearch client for cfg.Search.Host using basic
// auth when a user name is configured.
func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.Search.Host},
	}
	if cfg.Search.UserName != "" {
		esCfg.Username = cfg.Search.UserName
		esCfg.Password = cfg.Search.Password
	}
	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("create search client: %w", err)
	}
	return client, nil
}
