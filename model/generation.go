package model

import "time"

type ValidationResult struct {
	IsValid     bool     `json:"isValid"`
	Errors      []string `json:"errors"`
	Warnings    []string `json:"warnings,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

type RiskLevel string

const (
	RISK_LOW      RiskLevel = "LOW"
	RISK_MEDIUM   RiskLevel = "MEDIUM"
	RISK_HIGH     RiskLevel = "HIGH"
	RISK_CRITICAL RiskLevel = "CRITICAL"
)

type Vulnerability struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Severity    int    `json:"severity"`
}

type SecurityReport struct {
	SecurityScore   int             `json:"securityScore"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	Recommendations []string        `json:"recommendations"`
	RiskLevel       RiskLevel       `json:"riskLevel"`
}

type GenerationContext struct {
	Variables   map[string]any `json:"variables,omitempty"`
	Functions   []string       `json:"functions,omitempty"`
	Libraries   []string       `json:"libraries,omitempty"`
	Constraints []string       `json:"constraints,omitempty"`
}

type GenerationResult struct {
	Success  bool           `json:"success"`
	Code     string         `json:"code,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type GenerationAudit struct {
	TenantId string    `json:"tenantId"`
	UserId   string    `json:"userId"`
	FlowId   string    `json:"flowId"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

type CodeTemplate struct {
	Type     FlowType `json:"type"`
	Language string   `json:"language"`
	Name     string   `json:"name"`
	Body     string   `json:"body"`
}
