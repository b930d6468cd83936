package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clitter/clitter/pkg/queue"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func pngBytes(payload string) []byte {
	return append(append([]byte{}, pngSignature...), payload...)
}

func TestUploadDeduplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, created, err := env.media.Upload(ctx, "cat.png", bytes.NewReader(pngBytes("cat")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !created {
		t.Error("first upload should create a record")
	}
	if first.ContentType != "image/png" {
		t.Errorf("content type = %q, want image/png", first.ContentType)
	}
	if !strings.HasPrefix(first.Link, "/static/media/"+first.Hash[:16]+"-") {
		t.Errorf("link = %q", first.Link)
	}

	second, created, err := env.media.Upload(ctx, "renamed.png", bytes.NewReader(pngBytes("cat")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if created {
		t.Error("identical bytes should not create a second record")
	}
	if second.ID != first.ID || second.Link != first.Link {
		t.Errorf("second upload = %+v, want %+v", second, first)
	}

	entries, err := os.ReadDir(env.mediaRoot)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("stored files = %d, want 1", len(entries))
	}
	stored, err := os.ReadFile(filepath.Join(env.mediaRoot, entries[0].Name()))
	if err != nil || !bytes.Equal(stored, pngBytes("cat")) {
		t.Errorf("stored content = %q, %v", stored, err)
	}

	third, created, err := env.media.Upload(ctx, "dog.png", bytes.NewReader(pngBytes("dog")))
	if err != nil || !created || third.ID == first.ID {
		t.Errorf("different bytes: %+v, %v, %v", third, created, err)
	}

	created1 := 0
	for _, typ := range env.publisher.types() {
		if typ == queue.EventMediaCreated {
			created1++
		}
	}
	if created1 != 2 {
		t.Errorf("media_created events = %d, want 2", created1)
	}
}

func TestUploadLimits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, _, err := env.media.Upload(ctx, "big.bin", bytes.NewReader(make([]byte, 1025))); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("oversized upload error = %v, want %v", err, ErrFileTooLarge)
	}
	if _, _, err := env.media.Upload(ctx, "exact.bin", bytes.NewReader(bytes.Repeat([]byte{1}, 1024))); err != nil {
		t.Errorf("upload at the limit: %v", err)
	}
	if _, _, err := env.media.Upload(ctx, "empty.png", bytes.NewReader(nil)); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("empty upload error = %v, want %v", err, ErrInvalidParameters)
	}
}

func TestMediaKey(t *testing.T) {
	hash := strings.Repeat("ab", 32)
	tests := []struct {
		fileName, ext, want string
	}{
		{"cat.png", "png", "abababababababab-cat.png"},
		{"../../etc/passwd", "", "abababababababab-passwd"},
		{`C:\Users\me\my photo.jpg`, "jpg", "abababababababab-my_photo.jpg"},
		{"", "png", "abababababababab-upload.png"},
		{"..", "", "abababababababab-upload"},
	}
	for _, tt := range tests {
		if got := mediaKey(hash, tt.fileName, tt.ext); got != tt.want {
			t.Errorf("mediaKey(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}

func TestLinksSkipsUnknownIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _, err := env.media.Upload(ctx, "a.png", bytes.NewReader(pngBytes("a")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	b, _, err := env.media.Upload(ctx, "b.png", bytes.NewReader(pngBytes("b")))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	links, err := env.media.Links(ctx, []int64{b.ID, 77, a.ID})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 2 || links[0] != b.Link || links[1] != a.Link {
		t.Errorf("links = %v", links)
	}
}
