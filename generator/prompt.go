package generator

import (
	"fmt"
	"strings"

	"github.com/siatlabs/siat/model"
)

const MIN_PROMPT_LEN = 10
const MAX_PROMPT_LEN = 2000

// ValidatePrompt is a pure length gate; it does not judge intent.
func ValidatePrompt(prompt string) model.ValidationResult {
	result := model.ValidationResult{IsValid: true, Errors: []string{}}
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		result.Errors = append(result.Errors, "prompt must not be empty")
	} else if len(trimmed) < MIN_PROMPT_LEN {
		result.Errors = append(result.Errors, fmt.Sprintf("prompt must be at least %d characters", MIN_PROMPT_LEN))
	}
	if len(trimmed) > MAX_PROMPT_LEN {
		result.Errors = append(result.Errors, fmt.Sprintf("prompt must be at most %d characters", MAX_PROMPT_LEN))
	}
	if len(result.Errors) > 0 {
		result.IsValid = false
	}
	return result
}

// BuildEnhancedPrompt embeds the user prompt, the base template for the target
// type and any supplied generation context into the text sent to providers.
func BuildEnhancedPrompt(prompt string, tpl *model.CodeTemplate, genCtx *model.GenerationContext) string {
	var b strings.Builder
	b.WriteString("Generate ")
	b.WriteString(tpl.Language)
	b.WriteString(" code for a ")
	b.WriteString(string(tpl.Type))
	b.WriteString(" flow.\n\nRequirement:\n")
	b.WriteString(prompt)
	b.WriteString("\n\nBase template:\n")
	b.WriteString(tpl.Body)
	if genCtx != nil {
		if len(genCtx.Variables) > 0 {
			b.WriteString(fmt.Sprintf("\n\nVariables: %v", genCtx.Variables))
		}
		if len(genCtx.Functions) > 0 {
			b.WriteString(fmt.Sprintf("\nAvailable functions: %s", strings.Join(genCtx.Functions, ", ")))
		}
		if len(genCtx.Libraries) > 0 {
			b.WriteString(fmt.Sprintf("\nLibraries: %s", strings.Join(genCtx.Libraries, ", ")))
		}
		if len(genCtx.Constraints) > 0 {
			b.WriteString(fmt.Sprintf("\nConstraints: %s", strings.Join(genCtx.Constraints, "; ")))
		}
	}
	return b.String()
}
