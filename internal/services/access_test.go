package services

import (
	"context"
	"errors"
	"testing"
)

func TestAccessResolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	key, _, err := env.authors.Register(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
		notErr  error
	}{
		{"missing token", "", ErrUnauthorized, ErrInvalidCredential},
		{"unknown token", "not-a-key", ErrInvalidCredential, ErrUnauthorized},
		{"valid token", key, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			author, err := env.access.Resolve(ctx, tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve error = %v, want %v", err, tt.wantErr)
				}
				if errors.Is(err, tt.notErr) {
					t.Fatalf("Resolve error = %v also matches %v", err, tt.notErr)
				}
				if author != nil {
					t.Errorf("Resolve returned author %+v on failure", author)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if author.Name != "alice" {
				t.Errorf("author = %q, want alice", author.Name)
			}
		})
	}
}

func TestAccessResolveSoftDeletedAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	key, _, err := env.authors.Register(ctx, "ghost", "pw")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := env.db.Exec("UPDATE authors SET soft_delete = ? WHERE name = ?", true, "ghost").Error; err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	_, err = env.access.Resolve(ctx, key)
	if !errors.Is(err, ErrInvalidCredential) || errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Resolve error = %v, want %v", err, ErrInvalidCredential)
	}
}
