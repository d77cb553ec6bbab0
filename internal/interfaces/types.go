// Package interfaces defines the core interfaces and shared structures for the Claude Code bridge.
// These types provide a common contract between the HTTP handlers, the request
// translation layer, and the Claude Code CLI runner.
package interfaces

// ChatMessage represents a single role-tagged message in an OpenAI-format
// chat-completion request. Messages are consumed read-only.
type ChatMessage struct {
	// Role is the message role: "system", "user" or "assistant".
	// Messages with any other role contribute nothing to the translation.
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// ChatRequest represents the subset of an OpenAI chat-completion request
// consumed by the translation layer.
type ChatRequest struct {
	// Model is the free-form model identifier sent by the client.
	Model string `json:"model"`

	// Messages is the ordered conversation history.
	Messages []ChatMessage `json:"messages"`

	// User is an optional caller-supplied identifier, passed through as the
	// session identifier. Empty means absent.
	User string `json:"user,omitempty"`
}

// CliInput is the input structure handed to the Claude Code CLI runner.
// It is the sole output of the request translation layer.
type CliInput struct {
	// Prompt is the flattened conversational prompt. Always present, possibly empty.
	Prompt string `json:"prompt"`

	// Model is one of the model tier aliases understood by the CLI:
	// "opus", "sonnet" or "haiku".
	Model string `json:"model"`

	// SessionID is the passthrough of ChatRequest.User. Empty means absent.
	SessionID string `json:"sessionId,omitempty"`

	// SystemPrompt carries the concatenated system instructions. Nil means no
	// system message existed in the input; this is distinct from an empty string.
	SystemPrompt *string `json:"systemPrompt,omitempty"`
}

// HasSystemPrompt reports whether the input carried at least one system message.
func (i *CliInput) HasSystemPrompt() bool {
	return i.SystemPrompt != nil
}
