package model

import "time"

type DeploymentManifest struct {
	DeploymentId string         `json:"deploymentId"`
	FlowId       string         `json:"flowId"`
	FlowName     string         `json:"flowName"`
	Version      string         `json:"version"`
	DeployedAt   time.Time      `json:"deployedAt"`
	Files        []string       `json:"files"`
	Config       map[string]any `json:"config,omitempty"`
}

type DeployResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeploymentId string `json:"deploymentId,omitempty"`
}

type DeploymentStatus struct {
	DeploymentId string             `json:"deploymentId"`
	Status       string             `json:"status"`
	Manifest     DeploymentManifest `json:"manifest"`
}
