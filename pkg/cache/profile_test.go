package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type memoryStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) SetJSON(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) GetJSON(_ context.Context, key string, dest interface{}) error {
	data, ok := m.data[key]
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func TestProfileCache(t *testing.T) {
	store := newMemoryStore()
	m := metrics.New()
	c := NewProfileCache(store, time.Minute, m)
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, 1); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}

	profile := &models.Profile{
		ID:        1,
		Name:      "alice",
		Followers: []models.AuthorRef{{ID: 2, Name: "bob"}},
		Following: []models.AuthorRef{},
	}
	if err := c.Set(ctx, profile); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if store.ttls["profile:1"] != time.Minute {
		t.Errorf("ttl = %v, want 1m", store.ttls["profile:1"])
	}

	got, ok, err := c.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got.Name != "alice" || len(got.Followers) != 1 || got.Followers[0].Name != "bob" {
		t.Errorf("Get = %+v", got)
	}

	if err := c.Invalidate(ctx, 1, 2); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, 1); ok {
		t.Error("profile still cached after Invalidate")
	}

	if hits := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); hits != 1 {
		t.Errorf("hits = %v, want 1", hits)
	}
	if misses := testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")); misses != 2 {
		t.Errorf("misses = %v, want 2", misses)
	}
}
