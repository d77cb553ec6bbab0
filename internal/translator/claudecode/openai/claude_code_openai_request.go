// Package openai provides request translation functionality for OpenAI to Claude Code CLI compatibility.
// It handles parsing and transforming OpenAI Chat Completions API requests into the input
// format expected by the Claude Code CLI, extracting the model identifier, system
// instructions and conversational contents. The package performs a pure data
// transformation; process invocation and session persistence live elsewhere.
package openai

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
	"github.com/ccbridge/claude-code-bridge/internal/registry"
)

// Assistant turns are re-fed to the CLI inside this wrapper so the model can
// distinguish its own previous output from user input.
const (
	previousResponseOpen  = "<previous_response>\n"
	previousResponseClose = "\n</previous_response>\n"
)

// Partition splits an ordered message sequence into a single flattened prompt
// and a single system instruction string.
//
// The sequence is traversed once, preserving order. System message contents
// accumulate into the system channel; user contents accumulate verbatim into
// the prompt channel; assistant contents accumulate into the prompt channel
// wrapped as a previous response block. Messages with any other role are
// silently skipped and contribute nothing to either output.
//
// Parameters:
//   - messages: The ordered conversation history
//
// Returns:
//   - string: The prompt, all prompt parts joined with a newline and trimmed
//   - *string: The system prompt, parts joined with a blank line; nil when no
//     system message existed in the input
func Partition(messages []interfaces.ChatMessage) (string, *string) {
	var systemParts []string
	var promptParts []string

	for _, message := range messages {
		switch message.Role {
		case "system":
			systemParts = append(systemParts, message.Content)
		case "user":
			promptParts = append(promptParts, message.Content)
		case "assistant":
			promptParts = append(promptParts, previousResponseOpen+message.Content+previousResponseClose)
		}
	}

	prompt := strings.TrimSpace(strings.Join(promptParts, "\n"))

	if len(systemParts) == 0 {
		return prompt, nil
	}
	systemPrompt := strings.Join(systemParts, "\n\n")
	return prompt, &systemPrompt
}

// ConvertOpenAIRequestToClaudeCode transforms an OpenAI Chat Completions API
// request into the Claude Code CLI input structure. It partitions the message
// sequence into prompt and system instruction, resolves the model identifier
// to a CLI tier alias, and passes the optional user field through unchanged as
// the session identifier.
//
// The transformation is total: unresolvable model names degrade to the default
// alias and unrecognized roles are dropped, so every well-formed request
// produces a CLI input.
//
// Parameters:
//   - request: The incoming chat-completion request
//
// Returns:
//   - interfaces.CliInput: The assembled CLI input
func ConvertOpenAIRequestToClaudeCode(request interfaces.ChatRequest) interfaces.CliInput {
	prompt, systemPrompt := Partition(request.Messages)

	return interfaces.CliInput{
		Prompt:       prompt,
		Model:        registry.Resolve(request.Model),
		SessionID:    request.User,
		SystemPrompt: systemPrompt,
	}
}

// ParseChatRequest extracts the fields consumed by the translation layer from
// a raw OpenAI chat-completion request body. Unknown fields are ignored;
// message entries keep only their role and string content.
//
// Parameters:
//   - rawJSON: The raw JSON request data from the OpenAI API
//
// Returns:
//   - interfaces.ChatRequest: The parsed request
func ParseChatRequest(rawJSON []byte) interfaces.ChatRequest {
	root := gjson.ParseBytes(rawJSON)

	request := interfaces.ChatRequest{
		Model: root.Get("model").String(),
		User:  root.Get("user").String(),
	}

	if messages := root.Get("messages"); messages.Exists() && messages.IsArray() {
		messages.ForEach(func(_, message gjson.Result) bool {
			request.Messages = append(request.Messages, interfaces.ChatMessage{
				Role:    message.Get("role").String(),
				Content: message.Get("content").String(),
			})
			return true
		})
	}

	return request
}
