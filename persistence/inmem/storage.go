package inmem

import (
	"sort"
	"sync"
	"time"

	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/util"
)

// In-memory storage, used for tests and the memory storage-impl option.

var _ persistence.Storage = new(Storage)

type Storage struct {
	flows      *flowDao
	executions *executionDao
	templates  *templateDao
	audits     *auditDao
}

func NewStorage() *Storage {
	return &Storage{
		flows:      &flowDao{flows: make(map[string]map[string]model.Flow)},
		executions: &executionDao{executions: make(map[string]map[string]model.Execution)},
		templates:  &templateDao{templates: make(map[model.FlowType]model.CodeTemplate)},
		audits:     &auditDao{audits: make(map[string][]model.GenerationAudit)},
	}
}

func (s *Storage) Flows() persistence.FlowDao           { return s.flows }
func (s *Storage) Executions() persistence.ExecutionDao { return s.executions }
func (s *Storage) Templates() persistence.TemplateDao   { return s.templates }
func (s *Storage) Audits() persistence.AuditDao         { return s.audits }

type flowDao struct {
	mu    sync.Mutex
	flows map[string]map[string]model.Flow
}

func (d *flowDao) Save(flow *model.Flow) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	tenant, ok := d.flows[flow.TenantId]
	if !ok {
		tenant = make(map[string]model.Flow)
		d.flows[flow.TenantId] = tenant
	}
	if existing, ok := tenant[flow.Id]; ok {
		flow.ExecutionCount = existing.ExecutionCount
		flow.LastExecutedAt = existing.LastExecutedAt
	}
	tenant[flow.Id] = *flow
	return nil
}

func (d *flowDao) Get(tenantId string, flowId string) (*model.Flow, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	flow, ok := d.flows[tenantId][flowId]
	if !ok || flow.Deleted {
		return nil, persistence.NotFoundError{Kind: "flow", Id: flowId}
	}
	return &flow, nil
}

func (d *flowDao) List(tenantId string, page model.PageRequest) (*model.FlowPage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	flows := make([]model.Flow, 0, len(d.flows[tenantId]))
	for _, flow := range d.flows[tenantId] {
		if flow.Deleted {
			continue
		}
		flows = append(flows, flow)
	}
	sort.Slice(flows, func(i, j int) bool {
		if flows[i].CreatedAt.Equal(flows[j].CreatedAt) {
			return flows[i].Id < flows[j].Id
		}
		return flows[i].CreatedAt.After(flows[j].CreatedAt)
	})
	return util.Paginate(flows, page), nil
}

func (d *flowDao) Delete(tenantId string, flowId string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	flow, ok := d.flows[tenantId][flowId]
	if !ok || flow.Deleted {
		return persistence.NotFoundError{Kind: "flow", Id: flowId}
	}
	flow.Deleted = true
	flow.UpdatedAt = time.Now()
	d.flows[tenantId][flowId] = flow
	return nil
}

func (d *flowDao) RecordExecution(tenantId string, flowId string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	flow, ok := d.flows[tenantId][flowId]
	if !ok {
		return persistence.NotFoundError{Kind: "flow", Id: flowId}
	}
	now := time.Now()
	flow.ExecutionCount++
	flow.LastExecutedAt = &now
	d.flows[tenantId][flowId] = flow
	return nil
}

type executionDao struct {
	mu         sync.Mutex
	executions map[string]map[string]model.Execution
}

func (d *executionDao) Save(execution *model.Execution) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	flow, ok := d.executions[execution.FlowId]
	if !ok {
		flow = make(map[string]model.Execution)
		d.executions[execution.FlowId] = flow
	}
	flow[execution.Id] = *execution
	return nil
}

func (d *executionDao) Update(execution *model.Execution) error {
	return d.Save(execution)
}

func (d *executionDao) Get(flowId string, executionId string) (*model.Execution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ex, ok := d.executions[flowId][executionId]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "execution", Id: executionId}
	}
	return &ex, nil
}

func (d *executionDao) ListByFlow(flowId string) ([]model.Execution, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	executions := make([]model.Execution, 0, len(d.executions[flowId]))
	for _, ex := range d.executions[flowId] {
		executions = append(executions, ex)
	}
	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})
	return executions, nil
}

type templateDao struct {
	mu        sync.Mutex
	templates map[model.FlowType]model.CodeTemplate
}

func (d *templateDao) SaveTemplate(tpl model.CodeTemplate) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.templates[tpl.Type] = tpl
	return nil
}

func (d *templateDao) GetTemplate(flowType model.FlowType) (*model.CodeTemplate, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tpl, ok := d.templates[flowType]
	if !ok {
		return nil, persistence.NotFoundError{Kind: "template", Id: string(flowType)}
	}
	return &tpl, nil
}

type auditDao struct {
	mu     sync.Mutex
	audits map[string][]model.GenerationAudit
}

func (d *auditDao) SaveAudit(audit model.GenerationAudit) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.audits[audit.TenantId] = append(d.audits[audit.TenantId], audit)
	return nil
}

func (d *auditDao) ListAudits(tenantId string) ([]model.GenerationAudit, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.GenerationAudit, len(d.audits[tenantId]))
	copy(out, d.audits[tenantId])
	return out, nil
}
