package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestCreatePostResolvesMedia(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "pw1")
	media, _, err := env.media.Upload(ctx, "cat.png", bytes.NewReader(pngBytes("cat")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	post, err := env.posts.Create(ctx, alice.ID, "look", []int64{media.ID, 4242})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	view, err := env.posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.Attachments) != 1 || view.Attachments[0] != media.Link {
		t.Errorf("attachments = %v, want [%s]", view.Attachments, media.Link)
	}
	if view.Author.ID != alice.ID || view.Author.Name != "Alice" {
		t.Errorf("author = %+v", view.Author)
	}
	if view.Likes == nil {
		t.Error("likes should be an empty list, not nil")
	}
}

func TestCreatePostRejectsEmptyContent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "Alice", "pw1")

	if _, err := env.posts.Create(context.Background(), alice.ID, "   ", nil); !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("Create error = %v, want %v", err, ErrInvalidParameters)
	}
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "pw1")
	bob := env.register(t, "Bob", "pw2")
	post := env.post(t, alice, "hello")
	keep := env.post(t, alice, "still here")

	if err := env.posts.Delete(ctx, post.ID, bob.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("Delete by non-owner error = %v, want %v", err, ErrNotOwner)
	}

	if err := env.posts.Delete(ctx, post.ID, alice.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	t.Run("deleted post is still readable", func(t *testing.T) {
		view, err := env.posts.Get(ctx, post.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !view.SoftDelete {
			t.Error("soft_delete = false after delete")
		}
	})

	t.Run("deleted post is terminal", func(t *testing.T) {
		if err := env.posts.Delete(ctx, post.ID, alice.ID); !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("second Delete error = %v, want %v", err, ErrPostNotFound)
		}
	})

	t.Run("list skips deleted posts", func(t *testing.T) {
		views, err := env.posts.ListByAuthor(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListByAuthor: %v", err)
		}
		if len(views) != 1 || views[0].ID != keep.ID {
			t.Errorf("posts = %+v, want only %d", views, keep.ID)
		}
	})

	if err := env.posts.Delete(ctx, 999, alice.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Delete(missing) error = %v, want %v", err, ErrPostNotFound)
	}
	if _, err := env.posts.Get(ctx, 999); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrPostNotFound)
	}
}

func TestListByAuthorIncludesLikes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "pw1")
	bob := env.register(t, "Bob", "pw2")
	first := env.post(t, alice, "one")
	env.post(t, alice, "two")
	env.post(t, bob, "not alice's")

	if err := env.likes.AddLike(ctx, first.ID, bob.ID); err != nil {
		t.Fatalf("AddLike: %v", err)
	}

	views, err := env.posts.ListByAuthor(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListByAuthor: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("posts = %d, want 2", len(views))
	}
	if views[0].ID != first.ID || len(views[0].Likes) != 1 || views[0].Likes[0].UserID != bob.ID {
		t.Errorf("first post = %+v", views[0])
	}
	if len(views[1].Likes) != 0 {
		t.Errorf("second post likes = %+v, want none", views[1].Likes)
	}
}
