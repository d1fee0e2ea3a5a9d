package generator

import (
	"testing"

	"github.com/siatlabs/siat/template"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	code := "```typescript\nexport class X {}\n```"
	out := PostProcess(code, template.LANG_TYPESCRIPT)
	require.NotContains(t, out, "```")
	require.Contains(t, out, "export class X {}")
}

func TestInsertSemicolons(t *testing.T) {
	code := "const x = load()\nif (x) {\n  run(x);\n}"
	out := PostProcess(code, template.LANG_TYPESCRIPT)
	require.Contains(t, out, "const x = load();")
	// block headers keep their brace lines untouched
	require.Contains(t, out, "if (x) {")
}

func TestNormalizeIndentation(t *testing.T) {
	code := "def run(data):\n\treturn data   "
	out := PostProcess(code, template.LANG_PYTHON)
	require.Contains(t, out, "    return data")
	require.NotContains(t, out, "\t")
	require.NotContains(t, out, "data   ")
}

func TestEnforceTrailingSemicolon(t *testing.T) {
	out := PostProcess("SELECT 1", template.LANG_SQL)
	require.Equal(t, "SELECT 1;", out)

	out = PostProcess("SELECT 1;\n", template.LANG_SQL)
	require.Equal(t, "SELECT 1;", out)
}
