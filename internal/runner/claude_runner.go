// Package runner executes generation requests against the Claude Code CLI.
// It builds the CLI argument list from a translated request, runs the binary
// with a bounded context, and parses the CLI's JSON result output.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/ccbridge/claude-code-bridge/internal/config"
	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
)

// stderr is truncated to this many bytes when embedded in error messages.
const maxStderrInError = 2048

// ClaudeRunner invokes the Claude Code CLI binary. It implements
// interfaces.Runner. The config watcher updates it concurrently with
// in-flight requests, so field access goes through the mutex.
type ClaudeRunner struct {
	mu         sync.RWMutex
	binary     string
	workingDir string
}

// NewClaudeRunner creates a runner from the application configuration.
//
// Parameters:
//   - cfg: The application configuration holding the CLI binary path and working directory
//
// Returns:
//   - *ClaudeRunner: A new runner instance
func NewClaudeRunner(cfg *config.Config) *ClaudeRunner {
	return &ClaudeRunner{
		binary:     cfg.ClaudeCLI,
		workingDir: cfg.WorkingDir,
	}
}

// UpdateConfig applies a reloaded configuration to the runner.
// This method is called from the config watcher goroutine.
func (r *ClaudeRunner) UpdateConfig(cfg *config.Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.binary = cfg.ClaudeCLI
	r.workingDir = cfg.WorkingDir
}

// snapshot returns the current binary and working directory under the read lock.
func (r *ClaudeRunner) snapshot() (string, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.binary, r.workingDir
}

// BuildArgs assembles the CLI argument list for one invocation.
// The prompt travels as the -p argument; system prompt and session resume are
// appended only when present.
func BuildArgs(input interfaces.CliInput) []string {
	args := []string{"-p", input.Prompt, "--output-format", "json", "--model", input.Model}

	if input.SystemPrompt != nil {
		args = append(args, "--append-system-prompt", *input.SystemPrompt)
	}
	if input.SessionID != "" {
		args = append(args, "--resume", input.SessionID)
	}

	return args
}

// Run executes one generation and blocks until the CLI process exits or ctx
// is done.
//
// Parameters:
//   - ctx: The request context bounding the CLI process lifetime
//   - input: The translated CLI input
//
// Returns:
//   - *interfaces.RunResult: The parsed generation result
//   - error: An error if the process failed or produced an error result
func (r *ClaudeRunner) Run(ctx context.Context, input interfaces.CliInput) (*interfaces.RunResult, error) {
	args := BuildArgs(input)
	binary, workingDir := r.snapshot()

	cmd := exec.CommandContext(ctx, binary, args...)
	if workingDir != "" {
		cmd.Dir = workingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("running %s with model %s (prompt %d bytes)", binary, input.Model, len(input.Prompt))

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("claude cli canceled: %w", ctxErr)
		}
		return nil, fmt.Errorf("claude cli failed: %w: %s", err, truncateStderr(stderr.Bytes()))
	}

	return parseResult(stdout.Bytes())
}

// parseResult extracts the generation outcome from the CLI's JSON output.
func parseResult(output []byte) (*interfaces.RunResult, error) {
	root := gjson.ParseBytes(output)

	if !root.Get("result").Exists() {
		return nil, fmt.Errorf("claude cli produced no result: %s", truncateStderr(output))
	}
	if root.Get("is_error").Bool() {
		return nil, fmt.Errorf("claude cli reported an error: %s", root.Get("result").String())
	}

	return &interfaces.RunResult{
		Content:      root.Get("result").String(),
		SessionID:    root.Get("session_id").String(),
		InputTokens:  root.Get("usage.input_tokens").Int(),
		OutputTokens: root.Get("usage.output_tokens").Int(),
	}, nil
}

func truncateStderr(data []byte) string {
	text := strings.TrimSpace(string(data))
	if len(text) > maxStderrInError {
		text = text[:maxStderrInError] + "..."
	}
	return text
}
