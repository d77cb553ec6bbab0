// Package openai provides HTTP handlers for OpenAI API endpoints.
// This package implements the OpenAI-compatible API interface, including model listing
// and chat completion functionality. It supports both streaming and non-streaming responses.
// The handlers translate OpenAI API requests into Claude Code CLI input, execute the CLI
// through the runner, and convert results back to OpenAI-compatible format.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/ccbridge/claude-code-bridge/internal/api/handlers"
	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
	"github.com/ccbridge/claude-code-bridge/internal/registry"
	translator "github.com/ccbridge/claude-code-bridge/internal/translator/claudecode/openai"
)

// OpenAIAPIHandler contains the handlers for OpenAI API endpoints.
// It holds the shared collaborators through the embedded base handler.
type OpenAIAPIHandler struct {
	*handlers.BaseAPIHandler
}

// NewOpenAIAPIHandler creates a new OpenAI API handlers instance.
//
// Parameters:
//   - apiHandlers: The base API handlers instance
//
// Returns:
//   - *OpenAIAPIHandler: A new OpenAI API handlers instance
func NewOpenAIAPIHandler(apiHandlers *handlers.BaseAPIHandler) *OpenAIAPIHandler {
	return &OpenAIAPIHandler{
		BaseAPIHandler: apiHandlers,
	}
}

// OpenAIModels handles the /v1/models endpoint.
// It returns the list of model identifiers this bridge serves in
// OpenAI-compatible format.
func (h *OpenAIAPIHandler) OpenAIModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   registry.GetClaudeModels(),
	})
}

// ChatCompletions handles the /v1/chat/completions endpoint.
// It determines whether the request is for a streaming or non-streaming
// response and calls the appropriate handler.
//
// Parameters:
//   - c: The Gin context containing the HTTP request and response
func (h *OpenAIAPIHandler) ChatCompletions(c *gin.Context) {
	rawJSON, err := c.GetRawData()
	// If data retrieval fails, return a 400 Bad Request error.
	if err != nil {
		c.JSON(http.StatusBadRequest, handlers.ErrorResponse{
			Error: handlers.ErrorDetail{
				Message: fmt.Sprintf("Invalid request: %v", err),
				Type:    "invalid_request_error",
			},
		})
		return
	}

	// Check if the client requested a streaming response.
	streamResult := gjson.GetBytes(rawJSON, "stream")
	if streamResult.Type == gjson.True {
		h.handleStreamingResponse(c, rawJSON)
	} else {
		h.handleNonStreamingResponse(c, rawJSON)
	}
}

// execute translates the raw request, maps the caller session to a CLI
// session, runs the CLI, and records the resulting session binding.
func (h *OpenAIAPIHandler) execute(ctx context.Context, rawJSON []byte) (*interfaces.RunResult, string, error) {
	request := translator.ParseChatRequest(rawJSON)
	input := translator.ConvertOpenAIRequestToClaudeCode(request)

	// The session identifier the caller knows is not the CLI's own session
	// UUID; swap it for the stored binding before invoking the runner. An
	// unknown caller session starts a fresh CLI conversation.
	callerSession := input.SessionID
	input.SessionID = ""
	if callerSession != "" && h.Sessions != nil {
		cliSession, found, errLookup := h.Sessions.Lookup(callerSession)
		if errLookup != nil {
			log.Warnf("session lookup for %q failed: %v", callerSession, errLookup)
		} else if found {
			input.SessionID = cliSession
		}
	}

	cfg := h.Config()
	if timeout := cfg.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := h.Runner.Run(ctx, input)
	if err != nil {
		return nil, input.Model, err
	}

	if callerSession != "" && h.Sessions != nil && result.SessionID != "" {
		if errBind := h.Sessions.Bind(callerSession, result.SessionID); errBind != nil {
			log.Warnf("session bind for %q failed: %v", callerSession, errBind)
		}
	}

	return result, input.Model, nil
}

// handleNonStreamingResponse handles non-streaming chat completion responses.
//
// Parameters:
//   - c: The Gin context containing the HTTP request and response
//   - rawJSON: The raw JSON bytes of the OpenAI-compatible request
func (h *OpenAIAPIHandler) handleNonStreamingResponse(c *gin.Context, rawJSON []byte) {
	result, model, err := h.execute(c.Request.Context(), rawJSON)
	if err != nil {
		log.Errorf("chat completion failed: %v", err)
		c.JSON(http.StatusInternalServerError, handlers.ErrorResponse{
			Error: handlers.ErrorDetail{
				Message: err.Error(),
				Type:    "server_error",
			},
		})
		return
	}

	response := translator.ConvertClaudeCodeResponseToOpenAI(result, model, translator.NewCompletionID(), time.Now())
	c.Data(http.StatusOK, "application/json", response)
}

// handleStreamingResponse handles streaming chat completion responses.
// The CLI produces one complete result, so the stream consists of a single
// content chunk, a finish chunk, and the [DONE] terminator.
//
// Parameters:
//   - c: The Gin context containing the HTTP request and response
//   - rawJSON: The raw JSON bytes of the OpenAI-compatible request
func (h *OpenAIAPIHandler) handleStreamingResponse(c *gin.Context, rawJSON []byte) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Access-Control-Allow-Origin", "*")

	// Get the http.Flusher interface to manually flush the response.
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, handlers.ErrorResponse{
			Error: handlers.ErrorDetail{
				Message: "Streaming not supported",
				Type:    "server_error",
			},
		})
		return
	}

	result, model, err := h.execute(c.Request.Context(), rawJSON)
	if err != nil {
		log.Errorf("chat completion stream failed: %v", err)
		c.Status(http.StatusInternalServerError)
		_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", streamErrorPayload(err))
		flusher.Flush()
		return
	}

	completionID := translator.NewCompletionID()
	created := time.Now()

	chunk := translator.ConvertClaudeCodeResponseToOpenAIChunk(result.Content, model, completionID, created)
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", chunk)
	flusher.Flush()

	finish := translator.ConvertClaudeCodeFinishToOpenAIChunk(model, completionID, created)
	_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", finish)
	flusher.Flush()

	_, _ = fmt.Fprintf(c.Writer, "data: [DONE]\n\n")
	flusher.Flush()
}

func streamErrorPayload(err error) []byte {
	return []byte(fmt.Sprintf(`{"error":{"message":%q,"type":"server_error"}}`, err.Error()))
}
