package validator

import (
	"strings"

	"github.com/siatlabs/siat/model"
)

// Structural validation is a substring presence check per flow type, not a
// parse. A comment containing the marker passes; that is the documented
// contract and downstream callers rely on it staying shallow.
func ValidateCode(code string, flowType model.FlowType) model.ValidationResult {
	result := model.ValidationResult{IsValid: true, Errors: []string{}}
	if strings.TrimSpace(code) == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "generated code is empty")
		return result
	}
	switch flowType {
	case model.FLOW_TYPE_CRUD:
		if !strings.Contains(code, "@Controller") {
			result.Errors = append(result.Errors, "missing @Controller marker")
		}
		if !strings.Contains(code, "export class") {
			result.Errors = append(result.Errors, "missing exported class")
		}
	case model.FLOW_TYPE_API:
		if !strings.Contains(code, "@Injectable") {
			result.Errors = append(result.Errors, "missing @Injectable marker")
		}
		if !strings.Contains(code, "export class") {
			result.Errors = append(result.Errors, "missing exported class")
		}
	case model.FLOW_TYPE_FORM, model.FLOW_TYPE_DASHBOARD:
		if !strings.Contains(code, "export function") && !strings.Contains(code, "export class") {
			result.Errors = append(result.Errors, "missing exported component")
		}
		if !strings.Contains(code, "return") {
			result.Errors = append(result.Errors, "component renders nothing")
		}
	case model.FLOW_TYPE_REPORT:
		upper := strings.ToUpper(code)
		if !strings.Contains(upper, "SELECT") {
			result.Errors = append(result.Errors, "missing SELECT clause")
		}
		if !strings.Contains(upper, "FROM") {
			result.Errors = append(result.Errors, "missing FROM clause")
		}
	case model.FLOW_TYPE_AUTOMATION:
		if !strings.Contains(code, "def ") {
			result.Errors = append(result.Errors, "missing function definition")
		}
	default:
		if !strings.Contains(code, "export class") && !strings.Contains(code, "export function") {
			result.Errors = append(result.Errors, "missing exported symbol")
		}
	}
	if len(result.Errors) > 0 {
		result.IsValid = false
	}
	if strings.Contains(code, "TODO") {
		result.Warnings = append(result.Warnings, "code contains TODO markers")
	}
	if !strings.Contains(code, "try") && flowType != model.FLOW_TYPE_REPORT {
		result.Suggestions = append(result.Suggestions, "consider adding error handling")
	}
	return result
}
