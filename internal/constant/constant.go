// Package constant defines model alias constants used throughout the Claude Code bridge.
// These constants identify the Claude model tiers understood by the Claude Code CLI,
// ensuring consistent naming across the application.
package constant

const (
	// Opus represents the Claude Opus model tier identifier.
	Opus = "opus"

	// Sonnet represents the Claude Sonnet model tier identifier.
	Sonnet = "sonnet"

	// Haiku represents the Claude Haiku model tier identifier.
	Haiku = "haiku"

	// ProviderPrefix is the provider namespace prefix upstream routing layers
	// sometimes prepend to model identifiers.
	ProviderPrefix = "claude-code-cli/"
)
