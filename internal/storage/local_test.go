package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorePut(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/media/")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}

	url, err := store.Put(context.Background(), "renders/out.mp4", strings.NewReader("video-bytes"), "video/mp4")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if url != "http://localhost:8080/media/renders/out.mp4" {
		t.Errorf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "renders", "out.mp4"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Errorf("stored body mismatch: %q", data)
	}
}

func TestLocalStoreRespectsCancellation(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "file://out")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Put(ctx, "k", strings.NewReader("x"), ""); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestS3StoreURL(t *testing.T) {
	s := &S3Store{opts: S3Options{Bucket: "renders", Region: "us-east-1"}}
	if got := s.url("out.mp4"); got != "https://renders.s3.us-east-1.amazonaws.com/out.mp4" {
		t.Errorf("unexpected url: %s", got)
	}

	s = &S3Store{opts: S3Options{Bucket: "renders", BaseURL: "https://cdn.example/"}}
	if got := s.url("out.mp4"); got != "https://cdn.example/out.mp4" {
		t.Errorf("unexpected url: %s", got)
	}
}
