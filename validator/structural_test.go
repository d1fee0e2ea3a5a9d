package validator

import (
	"testing"

	"github.com/siatlabs/siat/model"
	"github.com/stretchr/testify/require"
)

func TestValidateControllerMarker(t *testing.T) {
	code := "export class UserController {}"
	result := ValidateCode(code, model.FLOW_TYPE_CRUD)
	require.False(t, result.IsValid)
	require.Contains(t, result.Errors, "missing @Controller marker")

	// injecting the marker flips structural validity
	withMarker := "@Controller('users')\n" + code
	result = ValidateCode(withMarker, model.FLOW_TYPE_CRUD)
	require.True(t, result.IsValid)
	require.Empty(t, result.Errors)
}

func TestValidateCodeByType(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T){
		"empty code fails":             testEmptyCode,
		"service requires injectable":  testServiceInjectable,
		"report requires select/from":  testReportClauses,
		"automation requires function": testAutomationDef,
		"component requires export":    testComponentExport,
		"marker in comment passes":     testMarkerInComment,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t)
		})
	}
}

func testEmptyCode(t *testing.T) {
	result := ValidateCode("   \n", model.FLOW_TYPE_API)
	require.False(t, result.IsValid)
	require.Equal(t, []string{"generated code is empty"}, result.Errors)
}

func testServiceInjectable(t *testing.T) {
	result := ValidateCode("export class UserService {}", model.FLOW_TYPE_API)
	require.False(t, result.IsValid)
	require.Contains(t, result.Errors, "missing @Injectable marker")

	result = ValidateCode("@Injectable()\nexport class UserService {}", model.FLOW_TYPE_API)
	require.True(t, result.IsValid)
}

func testReportClauses(t *testing.T) {
	result := ValidateCode("SELECT id FROM users;", model.FLOW_TYPE_REPORT)
	require.True(t, result.IsValid)

	result = ValidateCode("DELETE everything", model.FLOW_TYPE_REPORT)
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 2)
}

func testAutomationDef(t *testing.T) {
	result := ValidateCode("def run(data):\n    return data", model.FLOW_TYPE_AUTOMATION)
	require.True(t, result.IsValid)

	result = ValidateCode("x = 1", model.FLOW_TYPE_AUTOMATION)
	require.False(t, result.IsValid)
}

func testComponentExport(t *testing.T) {
	result := ValidateCode("export function Dash() { return null; }", model.FLOW_TYPE_DASHBOARD)
	require.True(t, result.IsValid)

	result = ValidateCode("const x = 1;", model.FLOW_TYPE_FORM)
	require.False(t, result.IsValid)
}

// The check is substring-based, so a marker inside a comment is accepted.
// Downstream behavior depends on this staying shallow.
func testMarkerInComment(t *testing.T) {
	code := "// @Controller lives here\nexport class Fake {}"
	result := ValidateCode(code, model.FLOW_TYPE_CRUD)
	require.True(t, result.IsValid)
}
