// Package registry provides the model alias registry for the Claude Code bridge.
// It maps free-form model identifier strings sent by OpenAI-format clients to
// the closed set of model tier aliases understood by the Claude Code CLI.
package registry

import (
	"strings"

	"github.com/ccbridge/claude-code-bridge/internal/constant"
)

// DefaultAlias is the alias returned for model identifiers the registry does
// not recognize. Unknown identifiers degrade to the maximal tier rather than
// failing the request.
const DefaultAlias = constant.Opus

// aliasTable is the fixed lookup table from model identifier to tier alias.
// It contains the canonical model names, the same names carrying the provider
// namespace prefix, and the bare aliases themselves. The table is initialized
// once at process start and never mutated; lookups are case-sensitive.
var aliasTable = map[string]string{
	"claude-opus-4":                   constant.Opus,
	"claude-code-cli/claude-opus-4":   constant.Opus,
	"opus":                            constant.Opus,
	"claude-sonnet-4":                 constant.Sonnet,
	"claude-code-cli/claude-sonnet-4": constant.Sonnet,
	"sonnet":                          constant.Sonnet,
	"claude-haiku-4":                  constant.Haiku,
	"claude-code-cli/claude-haiku-4":  constant.Haiku,
	"haiku":                           constant.Haiku,
}

// Resolve maps a free-form model identifier to one of the model tier aliases.
// It never fails; every input resolves to exactly one alias.
//
// Resolution order:
//  1. Exact-match lookup against the fixed table.
//  2. Strip a literal leading provider namespace prefix and retry the lookup.
//  3. Fall back to DefaultAlias.
//
// Parameters:
//   - modelName: The model identifier sent by the client
//
// Returns:
//   - string: The resolved tier alias, one of "opus", "sonnet" or "haiku"
func Resolve(modelName string) string {
	if alias, ok := aliasTable[modelName]; ok {
		return alias
	}
	if stripped, ok := strings.CutPrefix(modelName, constant.ProviderPrefix); ok {
		if alias, found := aliasTable[stripped]; found {
			return alias
		}
	}
	return DefaultAlias
}

// Aliases returns the tier aliases in display order.
func Aliases() []string {
	return []string{constant.Opus, constant.Sonnet, constant.Haiku}
}
