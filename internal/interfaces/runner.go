package interfaces

import "context"

// Runner defines the interface the HTTP handlers use to invoke the Claude Code
// CLI. The production implementation shells out to the configured binary; tests
// substitute fakes.
type Runner interface {
	// Run executes one generation for the given CLI input and blocks until the
	// CLI process completes or ctx is done.
	Run(ctx context.Context, input CliInput) (*RunResult, error)
}

// RunResult is the parsed outcome of one Claude Code CLI invocation.
type RunResult struct {
	// Content is the generated assistant text.
	Content string

	// SessionID is the CLI's own session identifier for this conversation,
	// used to resume follow-up requests.
	SessionID string

	// InputTokens and OutputTokens report token usage when the CLI provides it.
	InputTokens  int64
	OutputTokens int64
}
