package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-calculators/internal/config"
	"github.com/iwvelando/finance-calculators/pkg/constants"
)

func TestKey(t *testing.T) {
	a := Key("amortization", []byte(`{"principal":50000}`))
	b := Key("amortization", []byte(`{"principal":50000}`))
	c := Key("amortization", []byte(`{"principal":50001}`))
	d := Key("growth", []byte(`{"principal":50000}`))

	if a != b {
		t.Errorf("Key() not deterministic: %q vs %q", a, b)
	}
	if a == c {
		t.Errorf("Key() collided for different payloads")
	}
	if !strings.HasPrefix(a, "amortization:") || !strings.HasPrefix(d, "growth:") {
		t.Errorf("Key() should be prefixed by kind, got %q and %q", a, d)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(time.Minute)
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	if _, ok := cache.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache should miss")
	}
	if err := cache.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, ok := cache.Get(ctx, "k"); !ok || v != "v" {
		t.Errorf("Get() = %q, %v, expected v, true", v, ok)
	}

	current = current.Add(2 * time.Minute)
	if _, ok := cache.Get(ctx, "k"); ok {
		t.Error("Get() should miss after expiry")
	}
	if cache.Len() != 0 {
		t.Errorf("Expired entry should be evicted, Len() = %d", cache.Len())
	}
}

func TestMemoryCacheSweepsOnSet(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(time.Minute)
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	for i := 0; i < 50; i++ {
		if err := cache.Set(ctx, fmt.Sprintf("amortization:%d", i), "v"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}
	if cache.Len() != 50 {
		t.Fatalf("Len() = %d, expected 50", cache.Len())
	}

	tests := []struct {
		name     string
		advance  time.Duration
		expected int
	}{
		{"Within TTL keeps entries", 30 * time.Second, 51},
		{"Past TTL drops expired entries", 2 * time.Minute, 1},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current = current.Add(tt.advance)
			if err := cache.Set(ctx, fmt.Sprintf("growth:%d", i), "v"); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if cache.Len() != tt.expected {
				t.Errorf("Len() = %d, expected %d", cache.Len(), tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.CacheConfig
		expectErr bool
		check     func(t *testing.T, c Cache)
	}{
		{
			name: "Memory backend",
			cfg:  config.CacheConfig{Backend: constants.CacheBackendMemory},
			check: func(t *testing.T, c Cache) {
				m, ok := c.(*MemoryCache)
				if !ok {
					t.Fatalf("Expected *MemoryCache, got %T", c)
				}
				if m.ttl != constants.DefaultCacheTTL {
					t.Errorf("ttl = %v, expected default", m.ttl)
				}
			},
		},
		{
			name: "Disabled cache",
			cfg:  config.CacheConfig{Backend: constants.CacheBackendNone},
			check: func(t *testing.T, c Cache) {
				if err := c.Set(context.Background(), "k", "v"); err != nil {
					t.Errorf("Noop Set() error = %v", err)
				}
				if _, ok := c.Get(context.Background(), "k"); ok {
					t.Error("Noop cache should never hit")
				}
			},
		},
		{
			name: "Redis backend",
			cfg:  config.CacheConfig{Backend: constants.CacheBackendRedis, Address: "localhost:6379", TTL: time.Second},
			check: func(t *testing.T, c Cache) {
				r, ok := c.(*RedisCache)
				if !ok {
					t.Fatalf("Expected *RedisCache, got %T", c)
				}
				if r.ttl != time.Second {
					t.Errorf("ttl = %v, expected 1s", r.ttl)
				}
				_ = r.Close()
			},
		},
		{
			name:      "Redis without address",
			cfg:       config.CacheConfig{Backend: constants.CacheBackendRedis},
			expectErr: true,
		},
		{
			name:      "Unknown backend",
			cfg:       config.CacheConfig{Backend: "memcached"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.expectErr {
				if err == nil {
					t.Error("New() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			tt.check(t, c)
		})
	}
}
