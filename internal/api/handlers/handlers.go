// Package handlers provides core API handler functionality for the Claude Code bridge server.
// It includes common types, shared collaborator access, and error handling
// shared across the API endpoint handlers.
package handlers

import (
	"sync"

	"github.com/ccbridge/claude-code-bridge/internal/config"
	"github.com/ccbridge/claude-code-bridge/internal/interfaces"
	"github.com/ccbridge/claude-code-bridge/internal/session"
)

// ErrorResponse represents a standard error response format for the API.
// It contains a single ErrorDetail field.
type ErrorResponse struct {
	// Error contains detailed information about the error that occurred.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail provides specific information about an error that occurred.
// It includes a human-readable message, an error type, and an optional error code.
type ErrorDetail struct {
	// Message is a human-readable message providing more details about the error.
	Message string `json:"message"`

	// Type is the category of error that occurred (e.g., "invalid_request_error").
	Type string `json:"type"`

	// Code is a short code identifying the error, if applicable.
	Code string `json:"code,omitempty"`
}

// BaseAPIHandler holds the collaborators every endpoint handler needs: the
// CLI runner, the optional session store, and the current configuration.
type BaseAPIHandler struct {
	// Runner executes translated requests against the Claude Code CLI.
	Runner interfaces.Runner

	// Sessions maps caller session identifiers to CLI sessions. Nil when
	// session persistence is disabled.
	Sessions *session.Store

	mu  sync.RWMutex
	cfg *config.Config
}

// NewBaseAPIHandler creates a new base handler instance.
//
// Parameters:
//   - runner: The Claude Code CLI runner
//   - sessions: The session store, or nil when disabled
//   - cfg: The application configuration
//
// Returns:
//   - *BaseAPIHandler: A new base handler instance
func NewBaseAPIHandler(runner interfaces.Runner, sessions *session.Store, cfg *config.Config) *BaseAPIHandler {
	return &BaseAPIHandler{
		Runner:   runner,
		Sessions: sessions,
		cfg:      cfg,
	}
}

// Config returns the current configuration snapshot.
func (h *BaseAPIHandler) Config() *config.Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cfg
}

// UpdateConfig swaps in a reloaded configuration.
// This method is called when the configuration file changes on disk.
func (h *BaseAPIHandler) UpdateConfig(cfg *config.Config) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cfg = cfg
}
