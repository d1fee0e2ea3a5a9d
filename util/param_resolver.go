package util

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oliveagle/jsonpath"
)

var tokenRe = regexp.MustCompile("{(.*?)}")

// ResolveParams substitutes {$.path} tokens in params with values looked up
// in data via jsonpath. Maps and lists are resolved recursively; non-string
// leaves pass through unchanged.
func ResolveParams(data map[string]any, params map[string]any) map[string]any {
	output := make(map[string]any)
	resolveParams(data, params, output)
	return output
}

func resolveParams(data map[string]any, params map[string]any, output map[string]any) {
	for k, v := range params {
		switch v := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			output[k] = out
			resolveParams(data, v, out)
		case string:
			output[k] = resolveString(data, v)
		case []any:
			output[k] = resolveList(data, v)
		default:
			output[k] = v
		}
	}
}

func resolveList(data map[string]any, list []any) []any {
	var output []any
	for _, v := range list {
		switch v := v.(type) {
		case map[string]any:
			out := make(map[string]any)
			resolveParams(data, v, out)
			output = append(output, out)
		case string:
			output = append(output, resolveString(data, v))
		case []any:
			output = append(output, resolveList(data, v)...)
		default:
			output = append(output, v)
		}
	}
	return output
}

func resolveString(data map[string]any, str string) string {
	tokens := tokenRe.FindAllString(str, -1)
	newStr := str
	for _, token := range tokens {
		tmatch := strings.ReplaceAll(token, "{", "")
		tmatch = strings.ReplaceAll(tmatch, "}", "")
		if strings.HasPrefix(tmatch, "$") {
			value, _ := jsonpath.JsonPathLookup(data, tmatch)
			newStr = strings.ReplaceAll(newStr, token, fmt.Sprintf("%v", value))
		}
	}
	return newStr
}
