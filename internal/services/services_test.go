package services

import (
	"context"
	"sync"
	"testing"

	"github.com/clitter/clitter/internal/config"
	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/internal/repository"
	"github.com/clitter/clitter/internal/storage"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/clitter/clitter/pkg/queue"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *fakePublisher) Publish(_ context.Context, _ string, value interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if event, ok := value.(queue.Event); ok {
		p.events = append(p.events, event)
	}
	return nil
}

func (p *fakePublisher) types() []queue.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]queue.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeCache struct {
	mu          sync.Mutex
	profiles    map[int64]models.Profile
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{profiles: map[int64]models.Profile{}}
}

func (c *fakeCache) Get(_ context.Context, id int64) (*models.Profile, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.profiles[id]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (c *fakeCache) Set(_ context.Context, p *models.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.ID] = *p
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, ids ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.profiles, id)
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}

type testEnv struct {
	db        *repository.Database
	publisher *fakePublisher
	cache     *fakeCache
	mediaRoot string

	access  *AccessService
	authors *AuthorService
	posts   *PostService
	likes   *LikeService
	media   *MediaService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	if err := db.AutoMigrate(); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	root := t.TempDir()
	store, err := storage.NewLocalStorage(root)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	log := logger.Discard()
	publisher := &fakePublisher{}
	cache := newFakeCache()
	events := NewEmitter(publisher, metrics.New(), log)

	authorRepo := repository.NewAuthorRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	mediaRepo := repository.NewMediaRepository(db.DB)

	media := NewMediaService(mediaRepo, store, "/static/media/", 1024, events, log)

	return &testEnv{
		db:        db,
		publisher: publisher,
		cache:     cache,
		mediaRoot: root,
		access:    NewAccessService(authorRepo),
		authors:   NewAuthorService(db.DB, authorRepo, followRepo, cache, events, log),
		posts:     NewPostService(db.DB, postRepo, likeRepo, media, events, log),
		likes:     NewLikeService(db.DB, postRepo, likeRepo, authorRepo, events, log),
		media:     media,
	}
}

// register creates an author and returns it resolved through its api key.
func (e *testEnv) register(t *testing.T, name, password string) *models.Author {
	t.Helper()
	key, created, err := e.authors.Register(context.Background(), name, password)
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	if !created {
		t.Fatalf("Register(%s) did not create the author", name)
	}
	author, err := e.access.Resolve(context.Background(), key)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", name, err)
	}
	return author
}

func (e *testEnv) post(t *testing.T, author *models.Author, content string) *models.Post {
	t.Helper()
	post, err := e.posts.Create(context.Background(), author.ID, content, nil)
	if err != nil {
		t.Fatalf("Create post: %v", err)
	}
	return post
}

func refIDs(refs []models.AuthorRef) []int64 {
	ids := make([]int64, len(refs))
	for i, r := range refs {
		ids[i] = r.ID
	}
	return ids
}

func likeUserIDs(likes []models.Like) []int64 {
	ids := make([]int64, len(likes))
	for i, l := range likes {
		ids[i] = l.UserID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
