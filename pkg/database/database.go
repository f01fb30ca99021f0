// Package database opens connections to the optional backing services:
// redis for rate limits, token revocation and live activity, and
// meilisearch for the directory index.
package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// ConnectRedis returns a client for url, or nil when url is empty.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		log.Println("REDIS_URL not set, running without redis")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	log.Printf("Connected to redis at %s", opts.Addr)
	return client, nil
}

// ConnectMeili returns a meilisearch client for host, or nil when host is
// empty. A bare host name is expanded to http://host:7700.
func ConnectMeili(host, apiKey string) (meilisearch.ServiceManager, error) {
	if host == "" {
		log.Println("MEILISEARCH_HOST not set, directory search scans the user table")
		return nil, nil
	}
	host = MeiliURL(host)

	client := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	if !client.IsHealthy() {
		return nil, fmt.Errorf("meilisearch at %s is not healthy", host)
	}

	log.Printf("Connected to meilisearch at %s", host)
	return client, nil
}

func MeiliURL(host string) string {
	if strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
