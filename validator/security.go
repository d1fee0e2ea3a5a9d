package validator

import (
	"regexp"

	"github.com/siatlabs/siat/model"
)

type detector struct {
	kind           string
	pattern        *regexp.Regexp
	severity       int
	description    string
	recommendation string
}

// Eight independent detectors. Each hit subtracts its fixed severity from a
// starting score of 100 with a floor of 0; detectors are order-insensitive.
var detectors = []detector{
	{
		kind:           "SQL_INJECTION",
		pattern:        regexp.MustCompile("(?i)(query|execute)\\s*\\(\\s*[`'\"][^)]*\\$\\{"),
		severity:       35,
		description:    "query string built with template interpolation",
		recommendation: "use parameterized queries instead of string interpolation",
	},
	{
		kind:           "XSS",
		pattern:        regexp.MustCompile(`innerHTML\s*=|document\.write\s*\(|dangerouslySetInnerHTML`),
		severity:       30,
		description:    "unsafe DOM sink",
		recommendation: "render through the framework instead of writing raw HTML",
	},
	{
		kind:           "HARDCODED_SECRET",
		pattern:        regexp.MustCompile(`(?i)(password|secret|api[_-]?key|token)\s*[:=]\s*['"][^'"]+['"]`),
		severity:       30,
		description:    "hardcoded credential literal",
		recommendation: "load secrets from the environment or a secret manager",
	},
	{
		kind:           "WEAK_RANDOM",
		pattern:        regexp.MustCompile(`(?i)(token|session|secret|key)\w*\s*=[^;\n]*Math\.random`),
		severity:       20,
		description:    "Math.random used for a security token",
		recommendation: "use a cryptographically secure random source",
	},
	{
		kind:           "EVAL",
		pattern:        regexp.MustCompile(`\beval\s*\(|new\s+Function\s*\(`),
		severity:       35,
		description:    "dynamic code evaluation",
		recommendation: "remove eval and dynamic function construction",
	},
	{
		kind:           "MISSING_VALIDATION",
		pattern:        regexp.MustCompile(`@Body\s*\(`),
		severity:       10,
		description:    "request body accepted without validation decorators",
		recommendation: "add class-validator decorators to the DTO",
	},
	{
		kind:           "PLAIN_HTTP",
		pattern:        regexp.MustCompile(`http://[^\s'"]+`),
		severity:       10,
		description:    "plaintext http URL",
		recommendation: "use https for external calls",
	},
	{
		kind:           "WEAK_CRYPTO",
		pattern:        regexp.MustCompile(`(?i)\b(md5|sha1|des|rc4)\b`),
		severity:       25,
		description:    "weak hash or cipher",
		recommendation: "use SHA-256 or stronger",
	},
}

var validationMarker = regexp.MustCompile(`class-validator|@Is[A-Z]`)

func AnalyzeCodeSecurity(code string, flowType model.FlowType) model.SecurityReport {
	report := model.SecurityReport{
		SecurityScore:   100,
		Vulnerabilities: []model.Vulnerability{},
		Recommendations: []string{},
	}
	for _, d := range detectors {
		if !d.pattern.MatchString(code) {
			continue
		}
		// The validation heuristic only fires when no validation decorator
		// appears anywhere in the sample.
		if d.kind == "MISSING_VALIDATION" && validationMarker.MatchString(code) {
			continue
		}
		report.SecurityScore -= d.severity
		report.Vulnerabilities = append(report.Vulnerabilities, model.Vulnerability{
			Kind:        d.kind,
			Description: d.description,
			Severity:    d.severity,
		})
		report.Recommendations = append(report.Recommendations, d.recommendation)
	}
	if report.SecurityScore < 0 {
		report.SecurityScore = 0
	}
	report.RiskLevel = riskLevel(report.SecurityScore)
	return report
}

func riskLevel(score int) model.RiskLevel {
	switch {
	case score >= 90:
		return model.RISK_LOW
	case score >= 70:
		return model.RISK_MEDIUM
	case score >= 50:
		return model.RISK_HIGH
	default:
		return model.RISK_CRITICAL
	}
}
