package model

import "time"

type ExecutionStatus string

const (
	EXECUTION_PENDING   ExecutionStatus = "PENDING"
	EXECUTION_RUNNING   ExecutionStatus = "RUNNING"
	EXECUTION_COMPLETED ExecutionStatus = "COMPLETED"
	EXECUTION_FAILED    ExecutionStatus = "FAILED"
	EXECUTION_CANCELLED ExecutionStatus = "CANCELLED"
)

// Execution is created when a run starts and updated exactly once at
// completion; it is immutable afterwards.
type Execution struct {
	Id             string          `json:"id"`
	FlowId         string          `json:"flowId"`
	Status         ExecutionStatus `json:"status"`
	InputData      map[string]any  `json:"inputData"`
	OutputData     map[string]any  `json:"outputData,omitempty"`
	ErrorMessage   string          `json:"errorMessage,omitempty"`
	StartedAt      time.Time       `json:"startedAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	DurationMillis int64           `json:"duration"`
}

type ExecutionResult struct {
	Success        bool           `json:"success"`
	ExecutionId    string         `json:"executionId"`
	Output         map[string]any `json:"output,omitempty"`
	Error          string         `json:"error,omitempty"`
	DurationMillis int64          `json:"duration"`
	Logs           []string       `json:"logs"`
}

type ExecuteFlowRequest struct {
	Input map[string]any `json:"input"`
}
