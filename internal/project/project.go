// Package project persists editing sessions: the timeline, the chosen
// render settings, and bookkeeping about the last render.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sableview/montage/internal/render"
	"github.com/sableview/montage/internal/timeline"
)

// ErrNotFound means no project exists under the requested id
var ErrNotFound = errors.New("project not found")

// Project is one saved editing session
type Project struct {
	ID        string             `yaml:"id" json:"id"`
	Name      string             `yaml:"name" json:"name"`
	Timeline  *timeline.Timeline `yaml:"timeline" json:"timeline"`
	Settings  render.Settings    `yaml:"settings" json:"settings"`
	CreatedAt time.Time          `yaml:"created_at" json:"created_at"`
	UpdatedAt time.Time          `yaml:"updated_at" json:"updated_at"`

	// last completed render, if any
	OutputURL    string `yaml:"output_url,omitempty" json:"output_url,omitempty"`
	ThumbnailURL string `yaml:"thumbnail_url,omitempty" json:"thumbnail_url,omitempty"`
}

// New creates an empty project with defaults
func New(name string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:        timeline.NewID("proj"),
		Name:      name,
		Timeline:  timeline.NewDefault(),
		Settings:  render.DefaultSettings(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Store loads and saves projects by id
type Store interface {
	Load(id string) (*Project, error)
	Save(p *Project) error
	List() ([]string, error)
}

// FileStore keeps one yaml file per project under a directory
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".yaml")
}

func (s *FileStore) Load(id string) (*Project, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", id, err)
	}
	if p.Timeline == nil {
		p.Timeline = timeline.NewDefault()
	}
	return &p, nil
}

func (s *FileStore) Save(p *Project) error {
	if p.ID == "" {
		return fmt.Errorf("project has no id")
	}
	p.UpdatedAt = time.Now().UTC()

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project %s: %w", p.ID, err)
	}
	tmp := s.path(p.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(p.ID))
}

func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return ids, nil
}

// MemStore is an in-memory store for tests and ephemeral sessions
type MemStore struct {
	mu       sync.Mutex
	projects map[string]*Project
}

func NewMemStore() *MemStore {
	return &MemStore{projects: make(map[string]*Project)}
}

func (s *MemStore) Load(id string) (*Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	cp := *p
	cp.Timeline = p.Timeline.Clone()
	return &cp, nil
}

func (s *MemStore) Save(p *Project) error {
	if p.ID == "" {
		return fmt.Errorf("project has no id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	cp.Timeline = p.Timeline.Clone()
	s.projects[p.ID] = &cp
	return nil
}

func (s *MemStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.projects))
	for id := range s.projects {
		ids = append(ids, id)
	}
	return ids, nil
}
