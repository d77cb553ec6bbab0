package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/ccbridge/claude-code-bridge/internal/api/handlers"
	"github.com/ccbridge/claude-code-bridge/internal/config"
	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
	"github.com/ccbridge/claude-code-bridge/internal/session"
)

type fakeRunner struct {
	lastInput interfaces.CliInput
	result    *interfaces.RunResult
	err       error
}

func (f *fakeRunner) Run(_ context.Context, input interfaces.CliInput) (*interfaces.RunResult, error) {
	f.lastInput = input
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestHandler(t *testing.T, runner *fakeRunner, sessions *session.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := handlers.NewBaseAPIHandler(runner, sessions, &config.Config{ClaudeCLI: "claude"})
	h := NewOpenAIAPIHandler(base)

	engine := gin.New()
	engine.GET("/v1/models", h.OpenAIModels)
	engine.POST("/v1/chat/completions", h.ChatCompletions)
	return engine
}

func postCompletions(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func TestOpenAIModels(t *testing.T) {
	engine := newTestHandler(t, &fakeRunner{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/models", nil)
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	root := gjson.Parse(recorder.Body.String())
	assert.Equal(t, "list", root.Get("object").String())
	ids := root.Get("data.#.id").Array()
	require.NotEmpty(t, ids)
	var found bool
	for _, id := range ids {
		if id.String() == "claude-sonnet-4" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestChatCompletionsNonStreaming(t *testing.T) {
	runner := &fakeRunner{result: &interfaces.RunResult{
		Content:      "Hello there.",
		SessionID:    "cli-session-1",
		InputTokens:  12,
		OutputTokens: 4,
	}}
	engine := newTestHandler(t, runner, nil)

	recorder := postCompletions(engine, `{
		"model": "claude-code-cli/claude-sonnet-4",
		"messages": [
			{"role": "system", "content": "Be terse."},
			{"role": "user", "content": "Hi"}
		]
	}`)

	require.Equal(t, http.StatusOK, recorder.Code)

	// The runner received the translated input.
	assert.Equal(t, "sonnet", runner.lastInput.Model)
	assert.Equal(t, "Hi", runner.lastInput.Prompt)
	require.NotNil(t, runner.lastInput.SystemPrompt)
	assert.Equal(t, "Be terse.", *runner.lastInput.SystemPrompt)

	root := gjson.Parse(recorder.Body.String())
	assert.Equal(t, "chat.completion", root.Get("object").String())
	assert.Equal(t, "sonnet", root.Get("model").String())
	assert.Equal(t, "Hello there.", root.Get("choices.0.message.content").String())
	assert.Equal(t, int64(16), root.Get("usage.total_tokens").Int())
}

func TestChatCompletionsRunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("claude cli failed: exit status 1")}
	engine := newTestHandler(t, runner, nil)

	recorder := postCompletions(engine, `{"model":"opus","messages":[{"role":"user","content":"Hi"}]}`)

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	root := gjson.Parse(recorder.Body.String())
	assert.Equal(t, "server_error", root.Get("error.type").String())
	assert.Contains(t, root.Get("error.message").String(), "exit status 1")
}

func TestChatCompletionsStreaming(t *testing.T) {
	runner := &fakeRunner{result: &interfaces.RunResult{Content: "streamed text"}}
	engine := newTestHandler(t, runner, nil)

	recorder := postCompletions(engine, `{"model":"haiku","messages":[{"role":"user","content":"Hi"}],"stream":true}`)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))

	body := recorder.Body.String()
	events := strings.Split(strings.TrimSpace(body), "\n\n")
	require.Len(t, events, 3)

	content := gjson.Parse(strings.TrimPrefix(events[0], "data: "))
	assert.Equal(t, "chat.completion.chunk", content.Get("object").String())
	assert.Equal(t, "streamed text", content.Get("choices.0.delta.content").String())

	finish := gjson.Parse(strings.TrimPrefix(events[1], "data: "))
	assert.Equal(t, "stop", finish.Get("choices.0.finish_reason").String())

	assert.Equal(t, "data: [DONE]", events[2])
}

func TestChatCompletionsSessionResume(t *testing.T) {
	sessions, err := session.Open(filepath.Join(t.TempDir(), "sessions.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sessions.Close()
	})

	runner := &fakeRunner{result: &interfaces.RunResult{Content: "first", SessionID: "cli-uuid-1"}}
	engine := newTestHandler(t, runner, sessions)

	// First request: unknown caller session, CLI starts fresh.
	recorder := postCompletions(engine, `{"model":"opus","messages":[{"role":"user","content":"Hi"}],"user":"u123"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "", runner.lastInput.SessionID)

	// The CLI session is now bound to the caller session.
	cliSession, found, err := sessions.Lookup("u123")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "cli-uuid-1", cliSession)

	// Second request resumes the CLI session.
	recorder = postCompletions(engine, `{"model":"opus","messages":[{"role":"user","content":"again"}],"user":"u123"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "cli-uuid-1", runner.lastInput.SessionID)
}

func TestChatCompletionsNoUserNoSession(t *testing.T) {
	runner := &fakeRunner{result: &interfaces.RunResult{Content: "ok", SessionID: "cli-uuid-2"}}
	engine := newTestHandler(t, runner, nil)

	recorder := postCompletions(engine, `{"model":"opus","messages":[{"role":"user","content":"Hi"}]}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "", runner.lastInput.SessionID)
}
