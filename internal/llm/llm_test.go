package llm

import (
	"strings"
	"testing"

	"github.com/dshills/clausecritic/internal/rules"
)

func TestBuildUserPrompt_ContainsContractText(t *testing.T) {
	prompt := BuildUserPrompt("nda.pdf", "clause one\nclause two\n")

	if !strings.Contains(prompt, `<contract file="nda.pdf">`) {
		t.Errorf("prompt missing contract tag: %q", prompt)
	}
	if !strings.Contains(prompt, "clause one\nclause two") {
		t.Errorf("prompt missing contract content: %q", prompt)
	}
	if !strings.Contains(prompt, "</contract>") {
		t.Errorf("prompt missing closing contract tag: %q", prompt)
	}
}

func TestBuildUserPrompt_ContainsSchemaExample(t *testing.T) {
	prompt := BuildUserPrompt("nda.pdf", "text")

	if !strings.Contains(prompt, `"checks"`) {
		t.Errorf("prompt missing schema example: %q", prompt)
	}
	if !strings.Contains(prompt, `"amendments"`) {
		t.Errorf("prompt missing amendments in schema example: %q", prompt)
	}
}

func TestBuildUserPrompt_TerminatesUnterminatedText(t *testing.T) {
	prompt := BuildUserPrompt("a.pdf", "no trailing newline")

	if !strings.Contains(prompt, "no trailing newline\n</contract>") {
		t.Errorf("contract tag should close on its own line: %q", prompt)
	}
}

func TestBuildSystemPrompt_ContainsEveryRule(t *testing.T) {
	sys := BuildSystemPrompt(rules.Fixed())

	for _, r := range rules.Fixed() {
		if !strings.Contains(sys, r.ID) {
			t.Errorf("system prompt missing rule id %q", r.ID)
		}
	}
}

func TestBuildSystemPrompt_ComputedExternally(t *testing.T) {
	sys := BuildSystemPrompt(rules.Fixed())

	if !strings.Contains(sys, "computed externally") {
		t.Errorf("system prompt should forbid model-computed summaries: %q", sys)
	}
}

func TestNewProvider_InvalidFormat(t *testing.T) {
	_, err := NewProvider("nocolon")
	if err == nil {
		t.Error("expected error for missing colon separator, got nil")
	}
}

func TestNewProvider_UnknownPrefix(t *testing.T) {
	_, err := NewProvider("mistral:mistral-large")
	if err == nil {
		t.Error("expected error for unknown provider prefix, got nil")
	}
}

func TestNewProvider_Gemini_NoKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	_, err := NewProvider("gemini:gemini-1.5-pro")
	if err == nil {
		t.Error("expected error when no Gemini key is set, got nil")
	}
}

func TestNewProvider_Gemini_WithKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key-for-construction-only")
	p, err := NewProvider("gemini:gemini-1.5-pro")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p == nil {
		t.Error("expected non-nil provider")
	}
}

func TestNewProvider_Gemini_GoogleKeyFallback(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "test-key-for-construction-only")
	p, err := NewProvider("gemini:gemini-1.5-flash")
	if err != nil {
		t.Fatalf("NewProvider with GOOGLE_API_KEY: %v", err)
	}
	if p == nil {
		t.Error("expected non-nil provider")
	}
}

func TestNewProvider_Anthropic_NoKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewProvider("anthropic:claude-sonnet-4-6")
	if err == nil {
		t.Error("expected error when ANTHROPIC_API_KEY not set, got nil")
	}
}

func TestNewProvider_OpenAI_NoKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewProvider("openai:gpt-4o")
	if err == nil {
		t.Error("expected error when OPENAI_API_KEY not set, got nil")
	}
}

func TestNewProvider_Anthropic_WithKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-key-for-construction-only")
	p, err := NewProvider("anthropic:claude-sonnet-4-6")
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p == nil {
		t.Error("expected non-nil provider")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short string: got %q", got)
	}
	if got := truncate("hello world", 5); got != "hello..." {
		t.Errorf("truncate long string: got %q", got)
	}
	// Multi-byte: é is 2 bytes but 1 rune; truncating at 3 runes should not cut mid-codepoint.
	if got := truncate("héllo", 3); got != "hél..." {
		t.Errorf("truncate multibyte: got %q, want %q", got, "hél...")
	}
}
