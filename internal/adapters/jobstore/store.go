// Package jobstore implements the property store on top of a directory of job
// configuration files, one directory per project:
//
//	<jobs_dir>/<project>/job.yaml
//	<jobs_dir>/<project>/job.jsonc
//
// A project without a directory or file was never saved and yields an empty
// snapshot.
package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"
	"go.trai.ch/precheckout/internal/adapters/watcher"
	"go.trai.ch/precheckout/internal/core/domain"
	"go.trai.ch/precheckout/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.PropertyStore = (*Store)(nil)

// Store reads job configuration from disk. Parsed snapshots are cached only
// while Watch keeps the cache coherent.
type Store struct {
	root   string
	logger ports.Logger

	mu       sync.RWMutex
	watching bool
	cache    map[string]domain.PropertySnapshot
	// gen counts invalidations; a load that raced one is not cached.
	gen uint64
}

// New creates a store rooted at root.
func New(root string, logger ports.Logger) *Store {
	return &Store{
		root:   root,
		logger: logger,
		cache:  make(map[string]domain.PropertySnapshot),
	}
}

// Root returns the jobs directory.
func (s *Store) Root() string {
	return s.root
}

// Snapshot returns the configuration of project.
func (s *Store) Snapshot(_ context.Context, project domain.Project) (domain.PropertySnapshot, error) {
	name := project.Name
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return domain.PropertySnapshot{}, zerr.With(
			zerr.Wrap(domain.ErrJobReadFailed, "project name escapes the jobs directory"), "project", name)
	}

	s.mu.RLock()
	snap, ok := s.cache[name]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return snap, nil
	}

	snap, err := s.load(name)
	if err != nil {
		return domain.PropertySnapshot{}, zerr.With(err, "project", name)
	}

	s.mu.Lock()
	if s.watching && s.gen == gen {
		s.cache[name] = snap
	}
	s.mu.Unlock()

	return snap, nil
}

// Invalidate drops cached snapshots of projects.
func (s *Store) Invalidate(projects ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for _, p := range projects {
		delete(s.cache, p)
	}
}

// Watch keeps the cache coherent with the jobs directory until ctx ends.
// It blocks; run it on its own goroutine.
func (s *Store) Watch(ctx context.Context, w ports.Watcher) error {
	if err := os.MkdirAll(s.root, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create jobs directory"), "dir", s.root)
	}
	if err := w.Start(ctx, s.root); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, s.projectOf, func(projects []string) {
		s.logger.Debug("job configuration changed: " + strings.Join(projects, ", "))
		s.Invalidate(projects...)
	})

	s.mu.Lock()
	s.watching = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.watching = false
		clear(s.cache)
		s.mu.Unlock()
	}()

	for event := range w.Events() {
		debouncer.Add(event.Path)
	}
	debouncer.Flush()

	return nil
}

// projectOf maps a path inside the jobs directory to the project it configures.
// Nested project names are resolved by the job file's parent directory.
func (s *Store) projectOf(path string) (string, bool) {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || !filepath.IsLocal(rel) {
		return "", false
	}

	switch filepath.Base(rel) {
	case domain.JobFileYAML, domain.JobFileJSONC:
		rel = filepath.Dir(rel)
	}
	if rel == "." {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (s *Store) load(name string) (domain.PropertySnapshot, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(name))
	yamlPath := filepath.Join(dir, domain.JobFileYAML)
	jsoncPath := filepath.Join(dir, domain.JobFileJSONC)

	yamlData, yamlErr := readOptional(yamlPath)
	jsoncData, jsoncErr := readOptional(jsoncPath)
	if err := errors.Join(yamlErr, jsoncErr); err != nil {
		return domain.PropertySnapshot{}, err
	}

	var file JobFile
	switch {
	case yamlData != nil && jsoncData != nil:
		return domain.PropertySnapshot{}, zerr.With(zerr.Wrap(domain.ErrAmbiguousJobConfig, "pick one of job.yaml and job.jsonc"), "dir", dir)
	case yamlData != nil:
		if err := yaml.Unmarshal(yamlData, &file); err != nil {
			return domain.PropertySnapshot{}, zerr.With(zerr.Wrap(domain.ErrJobParseFailed, err.Error()), "path", yamlPath)
		}
	case jsoncData != nil:
		if err := json.Unmarshal(jsonc.ToJSON(jsoncData), &file); err != nil {
			return domain.PropertySnapshot{}, zerr.With(zerr.Wrap(domain.ErrJobParseFailed, err.Error()), "path", jsoncPath)
		}
	default:
		return domain.PropertySnapshot{}, nil
	}

	return toSnapshot(file)
}

// readOptional returns nil data and no error for a missing file.
func readOptional(path string) ([]byte, error) {
	// #nosec G304 -- path is inside the jobs directory
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrJobReadFailed, err.Error()), "path", path)
	}
	return data, nil
}

func toSnapshot(file JobFile) (domain.PropertySnapshot, error) {
	props := make([]domain.Property, 0, len(file.Properties))
	for i, dto := range file.Properties {
		if dto.Kind == "" {
			return domain.PropertySnapshot{}, zerr.With(zerr.Wrap(domain.ErrUnknownPropertyKind, "kind is required"), "index", i)
		}

		p := domain.Property{Kind: domain.PropertyKind(dto.Kind), Settings: dto.Settings}
		if p.Kind == domain.KindPreCheckout {
			enabled := true
			if dto.Enabled != nil {
				enabled = *dto.Enabled
			}
			p.Command = &domain.CommandConfig{Enabled: enabled, Command: dto.Command}
		}
		props = append(props, p)
	}
	return domain.PropertySnapshot{Properties: props}, nil
}
