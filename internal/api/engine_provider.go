package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samcharles93/babble/internal/corpus"
	"github.com/samcharles93/babble/internal/inference"
	"github.com/samcharles93/babble/internal/logger"
)

type EngineProvider interface {
	WithEngine(ctx context.Context, modelID string, fn func(engine inference.Engine, defaults inference.GenDefaults) error) error
}

// Reloader rebuilds a model from its corpus and swaps it in place.
type Reloader interface {
	Reload(ctx context.Context, modelID string) (*inference.LoadResult, error)
}

type EngineProviderConfig struct {
	DefaultCorpusPath string
	CorporaPath       string
	Loader            inference.Loader
}

// CachedEngineProvider loads each corpus once and hands the resulting engine
// to every request for it. Engines are read-only, so requests run without
// holding any lock. Reload builds a fresh model and publishes it atomically;
// requests already running keep the model they started with.
type CachedEngineProvider struct {
	cfg   EngineProviderConfig
	mu    sync.Mutex
	cache map[string]*engineEntry
}

type engineEntry struct {
	path    string
	current atomic.Pointer[inference.LoadResult]
	// reloading serialises rebuilds of the same corpus.
	reloading sync.Mutex
}

const envCorporaDir = "BABBLE_CORPORA_DIR"

func NewCachedEngineProvider(cfg EngineProviderConfig) *CachedEngineProvider {
	return &CachedEngineProvider{
		cfg:   cfg,
		cache: make(map[string]*engineEntry),
	}
}

func (p *CachedEngineProvider) WithEngine(ctx context.Context, modelID string, fn func(engine inference.Engine, defaults inference.GenDefaults) error) error {
	path, err := p.resolveCorpusPath(modelID)
	if err != nil {
		return err
	}
	loaded, err := p.getOrLoad(ctx, path)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(loaded.Engine, loaded.GenerationDefaults)
}

// Current returns the model already loaded for modelID without loading it.
func (p *CachedEngineProvider) Current(modelID string) (*inference.LoadResult, bool) {
	path, err := p.resolveCorpusPath(modelID)
	if err != nil {
		return nil, false
	}
	p.mu.Lock()
	entry, ok := p.cache[path]
	p.mu.Unlock()
	if !ok {
		return nil, false
	}
	loaded := entry.current.Load()
	return loaded, loaded != nil
}

func (p *CachedEngineProvider) Reload(ctx context.Context, modelID string) (*inference.LoadResult, error) {
	path, err := p.resolveCorpusPath(modelID)
	if err != nil {
		return nil, err
	}
	entry := p.entry(path)

	entry.reloading.Lock()
	defer entry.reloading.Unlock()
	result, err := p.cfg.Loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	entry.current.Store(result)
	logger.FromContext(ctx).Info("model reloaded", "path", path, "tokens", result.Model.Stats().Tokens)
	return result, nil
}

// ReloadAll rebuilds every model that has been loaded so far. A failed
// rebuild leaves the previous model in service.
func (p *CachedEngineProvider) ReloadAll(ctx context.Context) error {
	p.mu.Lock()
	paths := make([]string, 0, len(p.cache))
	for path, entry := range p.cache {
		if entry.current.Load() != nil {
			paths = append(paths, path)
		}
	}
	p.mu.Unlock()

	var errs []error
	for _, path := range paths {
		if _, err := p.Reload(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("reload %s: %w", path, err))
		}
	}
	return errors.Join(errs...)
}

func (p *CachedEngineProvider) entry(path string) *engineEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.cache[path]
	if !ok {
		entry = &engineEntry{path: path}
		p.cache[path] = entry
	}
	return entry
}

func (p *CachedEngineProvider) getOrLoad(ctx context.Context, path string) (*inference.LoadResult, error) {
	entry := p.entry(path)
	if loaded := entry.current.Load(); loaded != nil {
		return loaded, nil
	}

	entry.reloading.Lock()
	defer entry.reloading.Unlock()
	if loaded := entry.current.Load(); loaded != nil {
		return loaded, nil
	}
	result, err := p.cfg.Loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	entry.current.Store(result)
	return result, nil
}

// ListModels returns the ids of every corpus the provider can serve.
func (p *CachedEngineProvider) ListModels() ([]string, error) {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if p.cfg.DefaultCorpusPath != "" {
		add(corpus.Name(p.cfg.DefaultCorpusPath))
	}
	if dir := p.corporaDir(); dir != "" {
		files, err := corpus.Discover(dir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(corpus.Name(f))
		}
	}
	return ids, nil
}

func (p *CachedEngineProvider) resolveCorpusPath(modelID string) (string, error) {
	modelID = strings.TrimSpace(modelID)
	if modelID != "" {
		if looksLikePath(modelID) {
			return filepath.Clean(modelID), nil
		}
		if p.cfg.DefaultCorpusPath != "" && corpus.Name(p.cfg.DefaultCorpusPath) == modelID {
			return filepath.Clean(p.cfg.DefaultCorpusPath), nil
		}
		dir := p.corporaDir()
		if dir == "" {
			return "", fmt.Errorf("corpora-path is required to resolve model %q", modelID)
		}
		if resolved := resolveInDir(dir, modelID); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %q in %s", ErrModelNotFound, modelID, dir)
	}

	if p.cfg.DefaultCorpusPath != "" {
		return filepath.Clean(p.cfg.DefaultCorpusPath), nil
	}
	dir := p.corporaDir()
	if dir == "" {
		return "", fmt.Errorf("model is required")
	}
	files, err := corpus.Discover(dir)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("%w: no %s corpora in %s", ErrModelNotFound, corpus.Ext, dir)
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("multiple corpora found in %s; specify model", dir)
	}
}

func (p *CachedEngineProvider) corporaDir() string {
	if strings.TrimSpace(p.cfg.CorporaPath) != "" {
		return strings.TrimSpace(p.cfg.CorporaPath)
	}
	return strings.TrimSpace(os.Getenv(envCorporaDir))
}

func looksLikePath(v string) bool {
	if strings.Contains(v, string(filepath.Separator)) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(v), corpus.Ext)
}

func resolveInDir(dir, name string) string {
	cand := filepath.Join(dir, name)
	if fileExists(cand) {
		return cand
	}
	if !strings.HasSuffix(strings.ToLower(name), corpus.Ext) {
		cand = filepath.Join(dir, name+corpus.Ext)
		if fileExists(cand) {
			return cand
		}
	}
	return ""
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
