package database

import (
	"context"
	"testing"
)

func TestMeiliURL(t *testing.T) {
	tests := map[string]string{
		"meili":                  "http://meili:7700",
		"http://localhost:7700":  "http://localhost:7700",
		"https://search.example": "https://search.example",
	}
	for in, want := range tests {
		if got := MeiliURL(in); got != want {
			t.Errorf("MeiliURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptionalServicesDisabledWhenUnset(t *testing.T) {
	rdb, err := ConnectRedis(context.Background(), "")
	if err != nil || rdb != nil {
		t.Fatalf("expected no redis client, got %v, %v", rdb, err)
	}
	meili, err := ConnectMeili("", "")
	if err != nil || meili != nil {
		t.Fatalf("expected no meilisearch client, got %v, %v", meili, err)
	}
}

func TestConnectRedisRejectsBadURL(t *testing.T) {
	if _, err := ConnectRedis(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected an invalid url error")
	}
}
