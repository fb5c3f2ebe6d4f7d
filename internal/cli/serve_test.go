package cli

import (
	"strings"
	"testing"
	"time"
)

func withProvider(t *testing.T, provider string) {
	t.Helper()
	orig := llmProvider
	llmProvider = provider
	t.Cleanup(func() { llmProvider = orig })
}

func TestBuildConfig_OpenAI(t *testing.T) {
	withProvider(t, "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("Unexpected provider: %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("Expected API key from environment, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Timeout != int(llmTimeout/time.Second) {
		t.Errorf("Unexpected timeout: %d", cfg.LLM.Timeout)
	}
}

func TestBuildConfig_OpenAIMissingKey(t *testing.T) {
	withProvider(t, "openai")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := buildConfig()
	if err == nil {
		t.Fatal("Expected error when OPENAI_API_KEY is unset")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected the missing variable named in the error, got %v", err)
	}
}

func TestBuildConfig_Ollama(t *testing.T) {
	withProvider(t, "ollama")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")

	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("Unexpected provider: %q", cfg.LLM.Provider)
	}
	if cfg.LLM.BaseURL != "http://ollama.internal:11434" {
		t.Errorf("Expected base URL from environment, got %q", cfg.LLM.BaseURL)
	}
}

func TestBuildConfig_CacheFlags(t *testing.T) {
	withProvider(t, "ollama")

	origNoCache, origDir := noCache, cacheDir
	noCache, cacheDir = true, "/tmp/test-cache"
	t.Cleanup(func() { noCache, cacheDir = origNoCache, origDir })

	cfg, err := buildConfig()
	if err != nil {
		t.Fatalf("buildConfig failed: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("Expected cache disabled by --no-cache")
	}
	if cfg.Cache.Dir != "/tmp/test-cache" {
		t.Errorf("Unexpected cache dir: %q", cfg.Cache.Dir)
	}
}
