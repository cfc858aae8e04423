package llmservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tmc/langchaingo/llms"

	"document-relay/internal/codec"
	"document-relay/internal/config"
)

type fakeModel struct {
	reply   string
	err     error
	prompts []string
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, tc.Text)
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.reply}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestClientEdit(t *testing.T) {
	model := &fakeModel{reply: "<think>reasoning</think>\n```\nSheet: Sheet1\n1: A\tB\n```"}
	c := NewClient(model, &config.LLMConfig{})

	got, err := c.Edit(context.Background(), codec.Excel, "Sheet: Sheet1\n1: a\tb\n\n", "uppercase everything")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got != "Sheet: Sheet1\n1: A\tB\n" {
		t.Errorf("unexpected edit %q", got)
	}

	if len(model.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(model.prompts))
	}
	prompt := model.prompts[0]
	for _, want := range []string{"excel", "uppercase everything", "Sheet: <name>", "1: a\tb"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestClientEditErrors(t *testing.T) {
	ctx := context.Background()

	c := NewClient(&fakeModel{reply: "  \n"}, &config.LLMConfig{})
	if _, err := c.Edit(ctx, codec.Text, "x", "y"); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}

	boom := errors.New("quota exceeded")
	c = NewClient(&fakeModel{err: boom}, &config.LLMConfig{})
	if _, err := c.Edit(ctx, codec.Text, "x", "y"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped model error, got %v", err)
	}
}

func TestClientRateLimitHonorsContext(t *testing.T) {
	c := NewClient(&fakeModel{reply: "ok"}, &config.LLMConfig{RequestsPerSecond: 0.001})
	if _, err := c.Edit(context.Background(), codec.Text, "x", "y"); err != nil {
		t.Fatalf("first call should use the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Edit(ctx, codec.Text, "x", "y"); err == nil {
		t.Fatal("expected limiter to give up when the context expires")
	}
}

func TestOpenAICompatibleEndpoint(t *testing.T) {
	var gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "Hello\nWorld"},
				"finish_reason": "stop",
			}},
			"usage": map[string]int{"prompt_tokens": 1, "completion_tokens": 2, "total_tokens": 3},
		})
	}))
	defer srv.Close()

	c, err := New(&config.LLMConfig{
		Provider: "openai",
		BaseURL:  srv.URL,
		Key:      "Bearer test-key",
		Model:    "test-model",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Edit(context.Background(), codec.Word, "Hello", "add a second paragraph World")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if got != "Hello\nWorld" {
		t.Errorf("got %q", got)
	}
	if gotModel != "test-model" {
		t.Errorf("request model = %q", gotModel)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}
}

func TestNewModelProviders(t *testing.T) {
	for _, provider := range []string{"openai", "googleai", "gemini", "ollama"} {
		if _, err := NewModel(&config.LLMConfig{Provider: provider, Key: "k", Model: "m"}); err != nil {
			t.Errorf("%s: %v", provider, err)
		}
	}
	if _, err := NewModel(&config.LLMConfig{Provider: "bard"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestBuildPromptFallsBackToTextRules(t *testing.T) {
	p := BuildPrompt(codec.Family("other"), "body", "do it")
	if !strings.Contains(p, "Keep the original format") {
		t.Errorf("expected text layout rules in %q", p)
	}
}
