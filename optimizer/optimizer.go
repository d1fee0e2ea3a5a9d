package optimizer

import (
	"regexp"

	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/template"
	"github.com/siatlabs/siat/validator"
	"go.uber.org/zap"
)

type rewrite struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

var typescriptRewrites = []rewrite{
	{
		name:    "strip-debug-prints",
		pattern: regexp.MustCompile(`(?m)^\s*console\.(log|debug)\([^\n]*\);?\s*$\n?`),
		replace: "",
	},
	{
		name:    "block-scoped-declarations",
		pattern: regexp.MustCompile(`\bvar\s+`),
		replace: "let ",
	},
	{
		name:    "index-loop-to-for-of",
		pattern: regexp.MustCompile(`for\s*\(\s*(?:let|var)\s+(\w+)\s*=\s*0\s*;\s*\1\s*<\s*(\w+)\.length\s*;\s*\1\+\+\s*\)`),
		replace: "for (const entry of $2)",
	},
	{
		name:    "membership-check-to-includes",
		pattern: regexp.MustCompile(`(\w+)\.indexOf\(([^)]+)\)\s*(?:!==?\s*-1|>=?\s*0)`),
		replace: "$1.includes($2)",
	},
	{
		name:    "single-return-to-arrow",
		pattern: regexp.MustCompile(`function\s+(\w+)\(([^)]*)\)\s*\{\s*return\s+([^;{}]+);\s*\}`),
		replace: "const $1 = ($2) => $3;",
	},
}

var pythonRewrites = []rewrite{
	{
		name:    "strip-debug-prints",
		pattern: regexp.MustCompile(`(?m)^\s*print\([^\n]*\)\s*$\n?`),
		replace: "",
	},
}

var securityRewrites = []rewrite{
	{
		name:    "neutralize-eval",
		pattern: regexp.MustCompile(`\beval\s*\(`),
		replace: "JSON.parse(",
	},
	{
		name:    "safe-dom-write",
		pattern: regexp.MustCompile(`\.innerHTML\s*=`),
		replace: ".textContent =",
	},
	{
		name:    "drop-document-write",
		pattern: regexp.MustCompile(`document\.write\s*\(`),
		replace: "console.warn(",
	},
	{
		name:    "force-https",
		pattern: regexp.MustCompile(`http://`),
		replace: "https://",
	},
}

// Optimize applies the per-language rewrite sequence followed by the generic
// security pass, then re-validates the result against the structural check.
// If the rewritten code no longer validates the original input is returned
// unchanged; optimization is best-effort and never regresses the structural
// contract.
func Optimize(code string, flowType model.FlowType, language string) string {
	optimized := code
	var rewrites []rewrite
	switch language {
	case template.LANG_TYPESCRIPT:
		rewrites = typescriptRewrites
	case template.LANG_PYTHON:
		rewrites = pythonRewrites
	}
	for _, rw := range rewrites {
		optimized = rw.pattern.ReplaceAllString(optimized, rw.replace)
	}
	if language != template.LANG_SQL {
		for _, rw := range securityRewrites {
			optimized = rw.pattern.ReplaceAllString(optimized, rw.replace)
		}
	}
	if optimized == code {
		return code
	}
	if v := validator.ValidateCode(optimized, flowType); !v.IsValid {
		logger.Warn("optimized code failed re-validation, keeping original",
			zap.String("flowType", string(flowType)), zap.Strings("errors", v.Errors))
		return code
	}
	return optimized
}
