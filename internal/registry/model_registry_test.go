package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTableKeys(t *testing.T) {
	cases := map[string]string{
		"claude-opus-4":                   "opus",
		"claude-code-cli/claude-opus-4":   "opus",
		"opus":                            "opus",
		"claude-sonnet-4":                 "sonnet",
		"claude-code-cli/claude-sonnet-4": "sonnet",
		"sonnet":                          "sonnet",
		"claude-haiku-4":                  "haiku",
		"claude-code-cli/claude-haiku-4":  "haiku",
		"haiku":                           "haiku",
	}

	for input, want := range cases {
		assert.Equal(t, want, Resolve(input), "input %q", input)
	}
}

func TestResolvePrefixStripped(t *testing.T) {
	// The prefixed forms are in the table already; stripping also covers any
	// future prefixed alias spelling.
	assert.Equal(t, "sonnet", Resolve("claude-code-cli/sonnet"))
	assert.Equal(t, "haiku", Resolve("claude-code-cli/haiku"))
}

func TestResolveUnknownDefaultsToOpus(t *testing.T) {
	cases := []string{
		"gpt-4",
		"",
		"claude-code-cli/gpt-4",
		"claude-code-cli/",
		"CLAUDE-OPUS-4", // lookups are case-sensitive
		"opus ",
	}

	for _, input := range cases {
		assert.Equal(t, DefaultAlias, Resolve(input), "input %q", input)
	}
}

func TestAliases(t *testing.T) {
	assert.Equal(t, []string{"opus", "sonnet", "haiku"}, Aliases())
}

func TestGetClaudeModels(t *testing.T) {
	models := GetClaudeModels()
	assert.Len(t, models, 6)
	for _, m := range models {
		assert.Equal(t, "model", m.Object)
		assert.Equal(t, "anthropic", m.OwnedBy)
		assert.NotZero(t, m.Created)
		// Every listed model must resolve to itself or its tier, never default
		// by accident.
		assert.Contains(t, []string{"opus", "sonnet", "haiku"}, Resolve(m.ID))
	}
}
