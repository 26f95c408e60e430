package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func explanationSchema() *Schema {
	return &Schema{
		Name: "test-explanations",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"explanation": map[string]any{"type": "string", "minLength": 1},
			},
			"required":             []any{"explanation"},
			"additionalProperties": false,
		},
	}
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func newTestAnthropic(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicGenerate(t *testing.T) {
	p := newTestAnthropic(t, jsonHandler(http.StatusOK,
		anthropicMessage(`{"explanation":"Slices share their backing array."}`, "end_turn")))

	req := UserPrompt("You write quiz explanations.", "Explain question 1.")
	req.Schema = explanationSchema()
	req.MaxTokens = 256

	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"explanation":"Slices share their backing array."}`, string(resp.Content))
	assert.Equal(t, Usage{InputTokens: 50, OutputTokens: 30, TotalTokens: 80}, resp.Usage)
	assert.Equal(t, "end", resp.StopReason)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
}

func TestAnthropicErrors(t *testing.T) {
	errBody := map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "boom"}}

	_, err := newTestAnthropic(t, jsonHandler(http.StatusTooManyRequests, errBody)).
		Generate(context.Background(), UserPrompt("", "x"))
	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)

	_, err = newTestAnthropic(t, jsonHandler(http.StatusInternalServerError, errBody)).
		Generate(context.Background(), UserPrompt("", "x"))
	var unavailable *UnavailableError
	assert.ErrorAs(t, err, &unavailable)

	_, err = newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"explanation":`, "max_tokens"))).
		Generate(context.Background(), UserPrompt("", "x"))
	assert.ErrorIs(t, err, ErrTruncated)

	req := UserPrompt("", "x")
	req.Schema = explanationSchema()
	_, err = newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"answer":1}`, "end_turn"))).
		Generate(context.Background(), req)
	var invalid *InvalidResponseError
	assert.ErrorAs(t, err, &invalid)
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		jsonHandler(http.StatusOK, chatCompletion(`{"explanation":"Maps are unordered."}`, "stop"))(w, r)
	})

	req := UserPrompt("You write quiz explanations.", "Explain question 2.")
	req.Schema = explanationSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 65, resp.Usage.TotalTokens)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, got.ResponseFormat.Type)
}

func TestOpenAIErrors(t *testing.T) {
	errBody := map[string]any{"error": map[string]any{"message": "slow down", "type": "rate_limit"}}

	_, err := newTestOpenAI(t, jsonHandler(http.StatusTooManyRequests, errBody)).
		Generate(context.Background(), UserPrompt("", "x"))
	var rl *RateLimitError
	assert.ErrorAs(t, err, &rl)

	_, err = newTestOpenAI(t, jsonHandler(http.StatusOK, chatCompletion("{", "length"))).
		Generate(context.Background(), UserPrompt("", "x"))
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = newTestOpenAI(t, jsonHandler(http.StatusOK, map[string]any{"choices": []any{}})).
		Generate(context.Background(), UserPrompt("", "x"))
	var invalid *InvalidResponseError
	assert.ErrorAs(t, err, &invalid)
}

func TestOpenRouterDefaultsBaseURL(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{})
	assert.Error(t, err)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-exp"})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-exp", p.ModelID())
}

func TestModelAlias(t *testing.T) {
	assert.Equal(t, "claude-sonnet-4-20250514", modelAlias("claude-sonnet", anthropicAliases))
	assert.Equal(t, "gemini-2.0-flash", modelAlias("gemini-flash", geminiAliases))
	assert.Equal(t, "my-model", modelAlias("my-model", geminiAliases))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"index": map[string]any{"type": "integer"},
						"text":  map[string]any{"type": "string", "description": "one paragraph"},
						"tone":  map[string]any{"type": "string", "enum": []any{"neutral", "friendly"}},
					},
					"required": []string{"index", "text"},
				},
			},
		},
		"required": []any{"explanations"},
	})

	assert.Equal(t, "OBJECT", string(s.Type))
	assert.Equal(t, []string{"explanations"}, s.Required)
	items := s.Properties["explanations"].Items
	require.NotNil(t, items)
	assert.Equal(t, "INTEGER", string(items.Properties["index"].Type))
	assert.Equal(t, "one paragraph", items.Properties["text"].Description)
	assert.Equal(t, []string{"neutral", "friendly"}, items.Properties["tone"].Enum)
	assert.Equal(t, []string{"index", "text"}, items.Required)
}

func TestValidateResponse(t *testing.T) {
	assert.NoError(t, validateResponse(nil, json.RawMessage("not json")))
	assert.NoError(t, validateResponse(explanationSchema(), json.RawMessage(`{"explanation":"ok"}`)))

	for _, raw := range []string{`{`, `{"explanation":""}`, `{"explanation":"ok","extra":1}`, `[]`} {
		err := validateResponse(explanationSchema(), json.RawMessage(raw))
		var invalid *InvalidResponseError
		assert.True(t, errors.As(err, &invalid), "content %s", raw)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.Validate(), "QUIZDECK_ANTHROPIC_API_KEY")

	cfg.Anthropic.APIKey = "k"
	assert.NoError(t, cfg.Validate())

	assert.NoError(t, Config{Provider: "mock"}.Validate())

	assert.ErrorContains(t, Config{Provider: "llama"}.Validate(), "unknown LLM provider")
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "g", cfg.Gemini.APIKey)
}
