package runner

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccbridge/claude-code-bridge/internal/config"
	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
)

func TestBuildArgsMinimal(t *testing.T) {
	args := BuildArgs(interfaces.CliInput{
		Prompt: "Hi",
		Model:  "opus",
	})

	assert.Equal(t, []string{"-p", "Hi", "--output-format", "json", "--model", "opus"}, args)
}

func TestBuildArgsFull(t *testing.T) {
	system := "Be terse."
	args := BuildArgs(interfaces.CliInput{
		Prompt:       "Hi",
		Model:        "sonnet",
		SessionID:    "d6f9a2c4",
		SystemPrompt: &system,
	})

	assert.Equal(t, []string{
		"-p", "Hi",
		"--output-format", "json",
		"--model", "sonnet",
		"--append-system-prompt", "Be terse.",
		"--resume", "d6f9a2c4",
	}, args)
}

func TestBuildArgsEmptySystemPromptStillPassed(t *testing.T) {
	// Present-but-empty system prompt is distinct from absent: it must still
	// override the CLI's built-in instructions.
	system := ""
	args := BuildArgs(interfaces.CliInput{
		Prompt:       "Hi",
		Model:        "opus",
		SystemPrompt: &system,
	})

	assert.Contains(t, args, "--append-system-prompt")
}

func TestParseResult(t *testing.T) {
	output := []byte(`{
		"type": "result",
		"subtype": "success",
		"is_error": false,
		"result": "Hello there.",
		"session_id": "5f2d7c3a-1b9e-4f26-8a07-9c31d2f4e5b6",
		"usage": {"input_tokens": 12, "output_tokens": 4}
	}`)

	result, err := parseResult(output)
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", result.Content)
	assert.Equal(t, "5f2d7c3a-1b9e-4f26-8a07-9c31d2f4e5b6", result.SessionID)
	assert.Equal(t, int64(12), result.InputTokens)
	assert.Equal(t, int64(4), result.OutputTokens)
}

func TestParseResultErrorFlag(t *testing.T) {
	output := []byte(`{"is_error": true, "result": "usage limit reached"}`)

	_, err := parseResult(output)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage limit reached")
}

func TestParseResultGarbage(t *testing.T) {
	_, err := parseResult([]byte("not json at all"))
	require.Error(t, err)
}

func TestRunConcurrentWithConfigReload(t *testing.T) {
	r := NewClaudeRunner(&config.Config{ClaudeCLI: "claude"})

	// A canceled context makes Run return immediately after reading the
	// runner fields, without depending on a CLI binary being installed.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		i := i
		go func() {
			defer wg.Done()
			r.UpdateConfig(&config.Config{
				ClaudeCLI:  fmt.Sprintf("claude-%d", i),
				WorkingDir: "/tmp",
			})
		}()
		go func() {
			defer wg.Done()
			_, err := r.Run(ctx, interfaces.CliInput{Prompt: "Hi", Model: "opus"})
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	binary, workingDir := r.snapshot()
	assert.Contains(t, binary, "claude-")
	assert.Equal(t, "/tmp", workingDir)
}

func TestNewClaudeRunnerDefaults(t *testing.T) {
	cfg := &config.Config{ClaudeCLI: "claude", WorkingDir: "/tmp"}
	r := NewClaudeRunner(cfg)

	assert.Equal(t, "claude", r.binary)
	assert.Equal(t, "/tmp", r.workingDir)

	r.UpdateConfig(&config.Config{ClaudeCLI: "/usr/local/bin/claude"})
	assert.Equal(t, "/usr/local/bin/claude", r.binary)
	assert.Equal(t, "", r.workingDir)
}
