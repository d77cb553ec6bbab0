// Package openai response translation: converts Claude Code CLI results back
// into OpenAI Chat Completions API format, for both regular and streaming
// (SSE chunk) responses.
package openai

import (
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/sjson"

	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
)

// NewCompletionID generates a chat completion identifier in OpenAI format.
func NewCompletionID() string {
	return "chatcmpl-" + uuid.NewString()
}

// ConvertClaudeCodeResponseToOpenAI builds a non-streaming OpenAI chat
// completion response from a CLI run result.
//
// Parameters:
//   - result: The parsed CLI run result
//   - model: The model identifier to echo back to the client
//   - completionID: The chat completion identifier
//   - created: The response creation time
//
// Returns:
//   - []byte: The response data in OpenAI Chat Completions API format
func ConvertClaudeCodeResponseToOpenAI(result *interfaces.RunResult, model, completionID string, created time.Time) []byte {
	out := `{"id":"","object":"chat.completion","created":0,"model":"","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop"}]}`

	out, _ = sjson.Set(out, "id", completionID)
	out, _ = sjson.Set(out, "created", created.Unix())
	out, _ = sjson.Set(out, "model", model)
	out, _ = sjson.Set(out, "choices.0.message.content", result.Content)

	if result.InputTokens > 0 || result.OutputTokens > 0 {
		out, _ = sjson.Set(out, "usage.prompt_tokens", result.InputTokens)
		out, _ = sjson.Set(out, "usage.completion_tokens", result.OutputTokens)
		out, _ = sjson.Set(out, "usage.total_tokens", result.InputTokens+result.OutputTokens)
	}

	return []byte(out)
}

// ConvertClaudeCodeResponseToOpenAIChunk builds a streaming chat completion
// chunk carrying the full generated content as a single delta. The CLI returns
// one complete result, so streaming clients receive one content chunk followed
// by a finish chunk.
func ConvertClaudeCodeResponseToOpenAIChunk(content, model, completionID string, created time.Time) []byte {
	out := `{"id":"","object":"chat.completion.chunk","created":0,"model":"","choices":[{"index":0,"delta":{"role":"assistant","content":""},"finish_reason":null}]}`

	out, _ = sjson.Set(out, "id", completionID)
	out, _ = sjson.Set(out, "created", created.Unix())
	out, _ = sjson.Set(out, "model", model)
	out, _ = sjson.Set(out, "choices.0.delta.content", content)

	return []byte(out)
}

// ConvertClaudeCodeFinishToOpenAIChunk builds the terminal streaming chunk
// with an empty delta and a stop finish reason.
func ConvertClaudeCodeFinishToOpenAIChunk(model, completionID string, created time.Time) []byte {
	out := `{"id":"","object":"chat.completion.chunk","created":0,"model":"","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`

	out, _ = sjson.Set(out, "id", completionID)
	out, _ = sjson.Set(out, "created", created.Unix())
	out, _ = sjson.Set(out, "model", model)

	return []byte(out)
}
