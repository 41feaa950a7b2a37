package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestLocal_PutGetRoundTrip(t *testing.T) {
	t.Parallel()

	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal error: %v", err)
	}

	ctx := context.Background()
	content := "hello from alice"

	err = l.Put(ctx, "abc123_notes.txt", "text/plain", strings.NewReader(content), int64(len(content)))
	if err != nil {
		t.Fatalf("Put error: %v", err)
	}

	obj, err := l.Get(ctx, "abc123_notes.txt")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	defer obj.Body.Close()

	got, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(got) != content {
		t.Fatalf("content mismatch: got %q want %q", got, content)
	}
	if obj.Size != int64(len(content)) {
		t.Fatalf("size mismatch: got %d want %d", obj.Size, len(content))
	}
	if !strings.HasPrefix(obj.ContentType, "text/plain") {
		t.Fatalf("unexpected content type %q", obj.ContentType)
	}
}

func TestLocal_GetMissing(t *testing.T) {
	t.Parallel()

	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal error: %v", err)
	}

	_, err = l.Get(context.Background(), "never-stored.txt")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocal_RejectsPathishKeys(t *testing.T) {
	t.Parallel()

	l, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal error: %v", err)
	}

	ctx := context.Background()

	for _, key := range []string{"", ".", "..", "../escape.txt", "a/b.txt", "a\\b.txt"} {
		if err := l.Put(ctx, key, "text/plain", strings.NewReader("x"), 1); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Put(%q): expected ErrNotFound, got %v", key, err)
		}
		if _, err := l.Get(ctx, key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("Get(%q): expected ErrNotFound, got %v", key, err)
		}
	}
}
