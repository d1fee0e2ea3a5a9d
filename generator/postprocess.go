package generator

import (
	"strings"

	"github.com/siatlabs/siat/template"
)

// PostProcess strips markdown fences a provider may have wrapped around the
// code, then applies the per-language reformat.
func PostProcess(code string, language string) string {
	code = stripFences(code)
	switch language {
	case template.LANG_TYPESCRIPT:
		return insertSemicolons(code)
	case template.LANG_PYTHON:
		return normalizeIndentation(code)
	case template.LANG_SQL:
		return enforceTrailingSemicolon(code)
	}
	return code
}

func stripFences(code string) string {
	trimmed := strings.TrimSpace(code)
	if !strings.HasPrefix(trimmed, "```") {
		return code
	}
	lines := strings.Split(trimmed, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// insertSemicolons appends a semicolon to statement-looking lines. This is a
// heuristic reformat, not a parser.
func insertSemicolons(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		t := strings.TrimSpace(trimmed)
		if t == "" || strings.HasPrefix(t, "//") || strings.HasPrefix(t, "*") ||
			strings.HasPrefix(t, "/*") || strings.HasPrefix(t, "@") ||
			strings.HasPrefix(t, "<") || strings.HasPrefix(t, "}") {
			lines[i] = trimmed
			continue
		}
		last := t[len(t)-1]
		switch last {
		case ';', '{', '}', ',', '(', '>', ':', '`', '=':
			lines[i] = trimmed
		default:
			if strings.HasSuffix(t, "=>") || strings.HasSuffix(t, "&&") || strings.HasSuffix(t, "||") {
				lines[i] = trimmed
				continue
			}
			if last == ')' && looksLikeBlockHeader(t) {
				lines[i] = trimmed
				continue
			}
			if last == ')' || last == ']' || last == '\'' || last == '"' {
				lines[i] = trimmed + ";"
			} else {
				lines[i] = trimmed
			}
		}
	}
	return strings.Join(lines, "\n")
}

func looksLikeBlockHeader(line string) bool {
	for _, kw := range []string{"if ", "if(", "for ", "for(", "while ", "while(", "switch ", "switch(", "catch ", "catch("} {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

func normalizeIndentation(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", "    ")
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

func enforceTrailingSemicolon(code string) string {
	trimmed := strings.TrimRight(code, " \t\n")
	if strings.HasSuffix(trimmed, ";") {
		return trimmed
	}
	return trimmed + ";"
}
