package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/samcharles93/babble/internal/inference"
)

func TestCachedEngineProviderListModelsFromDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "alpha.txt"), "a")
	mustWriteFile(t, filepath.Join(dir, "beta.TXT"), "b")
	mustWriteFile(t, filepath.Join(dir, "notes.md"), "x")

	provider := NewCachedEngineProvider(EngineProviderConfig{CorporaPath: dir})
	models, err := provider.ListModels()
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if want := []string{"alpha", "beta"}; !slices.Equal(models, want) {
		t.Fatalf("ListModels() = %v, want %v", models, want)
	}
}

func TestCachedEngineProviderListModelsIncludesDefault(t *testing.T) {
	t.Parallel()

	provider := NewCachedEngineProvider(EngineProviderConfig{DefaultCorpusPath: "/corpora/shakespeare.txt"})
	models, err := provider.ListModels()
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if want := []string{"shakespeare"}; !slices.Equal(models, want) {
		t.Fatalf("ListModels() = %v, want %v", models, want)
	}
}

func TestCachedEngineProviderResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	alpha := filepath.Join(dir, "alpha.txt")
	mustWriteFile(t, alpha, "a b")

	single := NewCachedEngineProvider(EngineProviderConfig{CorporaPath: dir})
	tests := []struct {
		id   string
		want string
	}{
		{"", alpha},
		{"alpha", alpha},
		{"alpha.txt", "alpha.txt"},
		{alpha, alpha},
	}
	for _, tc := range tests {
		got, err := single.resolveCorpusPath(tc.id)
		if err != nil || got != tc.want {
			t.Fatalf("resolve(%q) = %q, %v; want %q", tc.id, got, err, tc.want)
		}
	}

	if _, err := single.resolveCorpusPath("missing"); !errors.Is(err, ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}

	mustWriteFile(t, filepath.Join(dir, "beta.txt"), "b")
	if _, err := single.resolveCorpusPath(""); err == nil {
		t.Fatal("expected an error when several corpora could be the default")
	}

	none := NewCachedEngineProvider(EngineProviderConfig{})
	if _, err := none.resolveCorpusPath("alpha"); err == nil {
		t.Fatal("expected an error without a corpora directory")
	}
}

func TestCachedEngineProviderLoadsOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "alpha.txt"), "the cat sat")
	provider := NewCachedEngineProvider(EngineProviderConfig{CorporaPath: dir})

	var first, second inference.Engine
	ctx := context.Background()
	if err := provider.WithEngine(ctx, "alpha", func(e inference.Engine, _ inference.GenDefaults) error {
		first = e
		return nil
	}); err != nil {
		t.Fatalf("WithEngine: %v", err)
	}
	if err := provider.WithEngine(ctx, "", func(e inference.Engine, _ inference.GenDefaults) error {
		second = e
		return nil
	}); err != nil {
		t.Fatalf("WithEngine: %v", err)
	}
	if first != second {
		t.Fatal("expected the cached engine to be reused")
	}
	if _, ok := provider.Current("alpha"); !ok {
		t.Fatal("alpha should be loaded")
	}
}

func TestCachedEngineProviderReloadSwapsModel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "alpha.txt")
	mustWriteFile(t, path, "one")
	provider := NewCachedEngineProvider(EngineProviderConfig{CorporaPath: dir})
	ctx := context.Background()

	var old *inference.MarkovEngine
	if err := provider.WithEngine(ctx, "alpha", func(e inference.Engine, _ inference.GenDefaults) error {
		old = e.(*inference.MarkovEngine)
		return nil
	}); err != nil {
		t.Fatalf("WithEngine: %v", err)
	}

	mustWriteFile(t, path, "one two three")
	loaded, err := provider.Reload(ctx, "alpha")
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if loaded.Model.Stats().Tokens != 5 {
		t.Fatalf("reloaded model has %d tokens", loaded.Model.Stats().Tokens)
	}
	if old.Model().Stats().Tokens != 1 {
		t.Fatal("the previous engine must keep its original model")
	}
	current, _ := provider.Current("alpha")
	if current != loaded {
		t.Fatal("reload should publish the new model")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := provider.ReloadAll(ctx); err == nil {
		t.Fatal("ReloadAll should report the failed rebuild")
	}
	if current, _ := provider.Current("alpha"); current != loaded {
		t.Fatal("a failed reload must keep the previous model")
	}
}

func TestModelEndpoints(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "alpha.txt"), "a b a c")
	provider := NewCachedEngineProvider(EngineProviderConfig{
		CorporaPath: dir,
		Loader:      inference.Loader{Order: 2},
	})
	e := newTestEcho(provider)

	list := decodeBody[struct {
		Object string      `json:"object"`
		Data   []ModelInfo `json:"data"`
	}](t, doJSON(t, e, http.MethodGet, "/v1/models", ""))
	if list.Object != "list" || len(list.Data) != 1 || list.Data[0].ID != "alpha" {
		t.Fatalf("unexpected model list %+v", list)
	}
	if list.Data[0].Tokens != 0 {
		t.Fatal("listing should not load models")
	}

	rec := doJSON(t, e, http.MethodPost, "/v1/models/alpha/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reload: got %d body=%s", rec.Code, rec.Body.String())
	}
	info := decodeBody[ModelInfo](t, rec)
	if info.Order != 2 || info.Tokens != 7 || len(info.Sources) != 1 {
		t.Fatalf("unexpected model info %+v", info)
	}

	if rec := doJSON(t, e, http.MethodPost, "/v1/models/missing/reload", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown model, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, e, http.MethodPost, "/v1/chat/completions", `{"model":"alpha","messages":[{"role":"user","content":"hi"}],"seed":1,"max_tokens":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat: got %d body=%s", rec.Code, rec.Body.String())
	}
	if resp := decodeBody[ChatCompletionResponse](t, rec); resp.Usage.CompletionTokens != 3 {
		t.Fatalf("expected 3 completion tokens, got %+v", resp.Usage)
	}
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
