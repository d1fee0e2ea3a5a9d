package persistence

import (
	"fmt"

	"github.com/siatlabs/siat/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

type NotFoundError struct {
	Kind string
	Id   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Id)
}

type FlowDao interface {
	Save(flow *model.Flow) error
	Get(tenantId string, flowId string) (*model.Flow, error)
	List(tenantId string, page model.PageRequest) (*model.FlowPage, error)
	Delete(tenantId string, flowId string) error

	// RecordExecution bumps executionCount and stamps lastExecutedAt in a
	// single storage round trip.
	RecordExecution(tenantId string, flowId string) error
}

type ExecutionDao interface {
	Save(execution *model.Execution) error
	Update(execution *model.Execution) error
	Get(flowId string, executionId string) (*model.Execution, error)
	ListByFlow(flowId string) ([]model.Execution, error)
}

type TemplateDao interface {
	SaveTemplate(tpl model.CodeTemplate) error
	GetTemplate(flowType model.FlowType) (*model.CodeTemplate, error)
}

type AuditDao interface {
	SaveAudit(audit model.GenerationAudit) error
	ListAudits(tenantId string) ([]model.GenerationAudit, error)
}

type Storage interface {
	Flows() FlowDao
	Executions() ExecutionDao
	Templates() TemplateDao
	Audits() AuditDao
}
