package model

import "time"

type FlowType string

const (
	FLOW_TYPE_CRUD        FlowType = "CRUD"
	FLOW_TYPE_WORKFLOW    FlowType = "WORKFLOW"
	FLOW_TYPE_REPORT      FlowType = "REPORT"
	FLOW_TYPE_DASHBOARD   FlowType = "DASHBOARD"
	FLOW_TYPE_API         FlowType = "API"
	FLOW_TYPE_FORM        FlowType = "FORM"
	FLOW_TYPE_AUTOMATION  FlowType = "AUTOMATION"
	FLOW_TYPE_INTEGRATION FlowType = "INTEGRATION"
)

func ValidFlowType(t FlowType) bool {
	switch t {
	case FLOW_TYPE_CRUD, FLOW_TYPE_WORKFLOW, FLOW_TYPE_REPORT, FLOW_TYPE_DASHBOARD,
		FLOW_TYPE_API, FLOW_TYPE_FORM, FLOW_TYPE_AUTOMATION, FLOW_TYPE_INTEGRATION:
		return true
	}
	return false
}

type FlowStatus string

const (
	FLOW_STATUS_DRAFT      FlowStatus = "DRAFT"
	FLOW_STATUS_GENERATING FlowStatus = "GENERATING"
	FLOW_STATUS_GENERATED  FlowStatus = "GENERATED"
	FLOW_STATUS_TESTING    FlowStatus = "TESTING"
	FLOW_STATUS_DEPLOYED   FlowStatus = "DEPLOYED"
	FLOW_STATUS_ERROR      FlowStatus = "ERROR"
	FLOW_STATUS_ARCHIVED   FlowStatus = "ARCHIVED"
)

// Step is owned exclusively by its Flow. NextSteps and Conditions are stored
// round-trip but not evaluated by the runner; steps execute in list order.
type Step struct {
	Id         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Config     map[string]any `json:"config"`
	NextSteps  []string       `json:"nextSteps,omitempty"`
	Conditions map[string]any `json:"conditions,omitempty"`
}

type Flow struct {
	Id             string         `json:"id"`
	Name           string         `json:"name"`
	Type           FlowType       `json:"type"`
	Status         FlowStatus     `json:"status"`
	Prompt         string         `json:"prompt"`
	GeneratedCode  string         `json:"generatedCode,omitempty"`
	Config         map[string]any `json:"config"`
	Steps          []Step         `json:"steps"`
	TenantId       string         `json:"tenantId"`
	CreatedBy      string         `json:"createdBy"`
	ExecutionCount int64          `json:"executionCount"`
	LastExecutedAt *time.Time     `json:"lastExecutedAt,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Deleted        bool           `json:"deleted,omitempty"`
}

type CreateFlowRequest struct {
	Name   string         `json:"name"`
	Type   FlowType       `json:"type"`
	Prompt string         `json:"prompt"`
	Config map[string]any `json:"config"`
	Steps  []Step         `json:"steps"`
}

type UpdateFlowRequest struct {
	Name   *string        `json:"name"`
	Prompt *string        `json:"prompt"`
	Config map[string]any `json:"config"`
	Steps  []Step         `json:"steps"`
}

type FlowPage struct {
	Items      []Flow     `json:"items"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

type PageRequest struct {
	Page  int
	Limit int
}

func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	return p
}
