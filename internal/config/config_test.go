package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("expected default api port, got %s", cfg.APIPort)
	}
	if cfg.NATSSubject != "manifestos.ingest" {
		t.Fatalf("expected default subject, got %s", cfg.NATSSubject)
	}
	if cfg.ChunkTargetWords != 500 {
		t.Fatalf("expected default chunk target, got %d", cfg.ChunkTargetWords)
	}
	if cfg.LexicalScoreDivisor != 10.0 {
		t.Fatalf("expected default score divisor, got %f", cfg.LexicalScoreDivisor)
	}
	if cfg.RetrievalMode != "semantic" {
		t.Fatalf("expected default retrieval mode, got %s", cfg.RetrievalMode)
	}
	if cfg.OllamaRequestsPerSecond != 4 {
		t.Fatalf("expected default ollama rate, got %f", cfg.OllamaRequestsPerSecond)
	}
}

func TestLoadOllamaRateOverride(t *testing.T) {
	t.Setenv("OLLAMA_REQUESTS_PER_SECOND", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OllamaRequestsPerSecond != 0.5 {
		t.Fatalf("expected rate override, got %f", cfg.OllamaRequestsPerSecond)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SEARCH_TOP_K", "7")
	t.Setenv("RETRIEVAL_MODE", "lexical")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SearchTopK != 7 {
		t.Fatalf("expected top-k override, got %d", cfg.SearchTopK)
	}
	if cfg.RetrievalMode != "lexical" {
		t.Fatalf("expected lexical mode, got %s", cfg.RetrievalMode)
	}
}

func TestLoadYAMLOverlayWinsOverEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunk_target_words: 250\nollama_gen_model: llama3.1:8b\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CHUNK_TARGET_WORDS", "600")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ChunkTargetWords != 250 {
		t.Fatalf("expected yaml overlay to win, got %d", cfg.ChunkTargetWords)
	}
	if cfg.OllamaGenModel != "llama3.1:8b" {
		t.Fatalf("expected yaml model, got %s", cfg.OllamaGenModel)
	}
	// Fields absent from the overlay keep their env/default values.
	if cfg.APIPort != "8080" {
		t.Fatalf("expected untouched api port, got %s", cfg.APIPort)
	}
}

func TestLoadRejectsInvalidRetrievalMode(t *testing.T) {
	t.Setenv("RETRIEVAL_MODE", "psychic")

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsNonPositiveChunkTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("chunk_target_words: 0\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}
