package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// DirStore resolves asset ids against files in a single directory, probing
// each file on first resolve and caching the result. It backs the CLI and
// tests; production deployments plug in their own Store.
type DirStore struct {
	root   string
	prober Prober

	mu    sync.Mutex
	cache map[string]*Asset
}

func NewDirStore(root string, prober Prober) *DirStore {
	return &DirStore{
		root:   root,
		prober: prober,
		cache:  make(map[string]*Asset),
	}
}

// Resolve treats the id as a file name under the store root
func (s *DirStore) Resolve(ctx context.Context, id string) (*Asset, error) {
	s.mu.Lock()
	if a, ok := s.cache[id]; ok {
		s.mu.Unlock()
		return a, nil
	}
	s.mu.Unlock()

	path := filepath.Join(s.root, filepath.Clean(id))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("asset %s: %w", id, ErrNotFound)
	}

	meta, err := s.prober.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe asset %s: %w", id, err)
	}

	kind := KindVideo
	if meta.Width == 0 {
		if !meta.HasAudio {
			return nil, fmt.Errorf("asset %s has no video or audio stream: %w", id, ErrUnsupportedKind)
		}
		kind = KindAudio
	}

	a := &Asset{
		ID:       id,
		Kind:     kind,
		Duration: meta.Duration,
		Location: path,
		Meta:     *meta,
	}

	s.mu.Lock()
	s.cache[id] = a
	s.mu.Unlock()
	return a, nil
}

func (s *DirStore) Fetch(ctx context.Context, id string) (io.ReadCloser, error) {
	a, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(a.Location)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", id, err)
	}
	return f, nil
}

// Download fetches a remote source to a local path. Used for audio tracks
// referencing an external URL instead of an ingested asset.
func Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
