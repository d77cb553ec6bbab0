// Package registry provides model definitions for the Claude Code bridge.
// This file contains the static model metadata exposed through the
// OpenAI-compatible model listing endpoint.
package registry

// ModelInfo describes one model entry in OpenAI list format.
type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// Static release epochs for the listed model generations. The listing is a
// fixed catalog, so these are placeholder metadata rather than live data.
const (
	claude4Created     int64 = 1715644800 // 2024-05-14
	claudeHaikuCreated int64 = 1729555200 // 2024-10-22
)

// GetClaudeModels returns the model definitions served by this bridge.
// Both the canonical names and the bare aliases are listed so clients can
// address models either way.
func GetClaudeModels() []*ModelInfo {
	return []*ModelInfo{
		{
			ID:      "claude-opus-4",
			Object:  "model",
			Created: claude4Created,
			OwnedBy: "anthropic",
		},
		{
			ID:      "claude-sonnet-4",
			Object:  "model",
			Created: claude4Created,
			OwnedBy: "anthropic",
		},
		{
			ID:      "claude-haiku-4",
			Object:  "model",
			Created: claudeHaikuCreated,
			OwnedBy: "anthropic",
		},
		{
			ID:      "opus",
			Object:  "model",
			Created: claude4Created,
			OwnedBy: "anthropic",
		},
		{
			ID:      "sonnet",
			Object:  "model",
			Created: claude4Created,
			OwnedBy: "anthropic",
		},
		{
			ID:      "haiku",
			Object:  "model",
			Created: claudeHaikuCreated,
			OwnedBy: "anthropic",
		},
	}
}
