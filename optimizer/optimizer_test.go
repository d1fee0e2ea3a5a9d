package optimizer

import (
	"testing"

	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/template"
	"github.com/stretchr/testify/require"
)

func TestOptimizeTypescriptRewrites(t *testing.T) {
	code := `@Injectable()
export class CartService {
  check(items: string[]) {
    console.log('checking');
    var found = items.indexOf('x') !== -1;
    for (let i = 0; i < items.length; i++) {
      process(items);
    }
    return found;
  }
}`
	out := Optimize(code, model.FLOW_TYPE_API, template.LANG_TYPESCRIPT)
	require.NotContains(t, out, "console.log")
	require.NotContains(t, out, "var ")
	require.Contains(t, out, "let found")
	require.Contains(t, out, "items.includes('x')")
	require.Contains(t, out, "for (const entry of items)")
}

func TestOptimizeSecurityPass(t *testing.T) {
	code := `@Injectable()
export class FeedService {
  render(el: HTMLElement, html: string) {
    el.innerHTML = html;
    return fetch('http://feeds.example.com');
  }
}`
	out := Optimize(code, model.FLOW_TYPE_API, template.LANG_TYPESCRIPT)
	require.Contains(t, out, ".textContent =")
	require.Contains(t, out, "https://feeds.example.com")
	require.NotContains(t, out, "innerHTML")
}

func TestOptimizeNeutralizesEval(t *testing.T) {
	code := "@Injectable()\nexport class X {\n  run(s: string) { return eval(s); }\n}"
	out := Optimize(code, model.FLOW_TYPE_API, template.LANG_TYPESCRIPT)
	require.NotContains(t, out, "eval(")
	require.Contains(t, out, "JSON.parse(")
}

// When re-validation rejects the rewritten output the original input comes
// back byte-for-byte.
func TestOptimizeKeepsOriginalOnFailedRevalidation(t *testing.T) {
	// the only occurrence of the marker is inside the debug print, so the
	// strip pass removes it and structural validation fails
	code := "export class X {\n  run() {\n    console.log('@Injectable');\n  }\n}"
	out := Optimize(code, model.FLOW_TYPE_API, template.LANG_TYPESCRIPT)
	require.Equal(t, code, out)
}

func TestOptimizePythonStripsPrints(t *testing.T) {
	code := "def run(data):\n    print(data)\n    return data"
	out := Optimize(code, model.FLOW_TYPE_AUTOMATION, template.LANG_PYTHON)
	require.NotContains(t, out, "print(")
	require.Contains(t, out, "def run(data):")
}

func TestOptimizeSqlUntouched(t *testing.T) {
	code := "SELECT id FROM logs WHERE url = 'http://x';"
	out := Optimize(code, model.FLOW_TYPE_REPORT, template.LANG_SQL)
	require.Equal(t, code, out)
}
