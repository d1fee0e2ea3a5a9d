package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siatlabs/siat/api"
	"github.com/siatlabs/siat/deployment"
	"github.com/siatlabs/siat/executor"
	"github.com/siatlabs/siat/generator"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/optimizer"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/template"
	"github.com/siatlabs/siat/util"
	"go.uber.org/zap"
)

type generationTask struct {
	tenantId string
	flowId   string
	genCtx   *model.GenerationContext
}

// FlowService owns the flow lifecycle: DRAFT flows are generated in the
// background (GENERATING then GENERATED or ERROR), deployed explicitly
// (GENERATED to DEPLOYED, writing the directory tree), and executed only
// while DEPLOYED.
type FlowService struct {
	storage   persistence.Storage
	templates *template.Store
	generator *generator.Generator
	writer    *deployment.Writer
	runner    *executor.Runner
	genWorker *util.Worker
}

func NewFlowService(storage persistence.Storage, templates *template.Store, gen *generator.Generator,
	writer *deployment.Writer, runner *executor.Runner, wg *sync.WaitGroup, generatorCapacity int) *FlowService {
	s := &FlowService{
		storage:   storage,
		templates: templates,
		generator: gen,
		writer:    writer,
		runner:    runner,
	}
	s.genWorker = util.NewWorker("flow-generator", wg, s.runGeneration, generatorCapacity)
	return s
}

func (s *FlowService) Start() {
	s.genWorker.Start()
}

func (s *FlowService) Stop() error {
	s.genWorker.Stop()
	return nil
}

func (s *FlowService) PendingGenerations() int {
	return s.genWorker.Pending()
}

func (s *FlowService) Create(tenantId string, userId string, req model.CreateFlowRequest) (*model.Flow, error) {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if !model.ValidFlowType(req.Type) {
		errs = append(errs, fmt.Sprintf("unknown flow type %q", req.Type))
	}
	if v := generator.ValidatePrompt(req.Prompt); !v.IsValid {
		errs = append(errs, v.Errors...)
	}
	if len(errs) > 0 {
		return nil, api.ValidationError{Errors: errs}
	}
	now := time.Now()
	flow := &model.Flow{
		Id:        uuid.New().String(),
		Name:      req.Name,
		Type:      req.Type,
		Status:    model.FLOW_STATUS_DRAFT,
		Prompt:    req.Prompt,
		Config:    orEmpty(req.Config),
		Steps:     req.Steps,
		TenantId:  tenantId,
		CreatedBy: userId,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Flows().Save(flow); err != nil {
		return nil, err
	}
	logger.Info("flow created", zap.String("tenantId", tenantId), zap.String("flowId", flow.Id))
	return flow, nil
}

func (s *FlowService) Get(tenantId string, flowId string) (*model.Flow, error) {
	return s.storage.Flows().Get(tenantId, flowId)
}

func (s *FlowService) List(tenantId string, page model.PageRequest) (*model.FlowPage, error) {
	return s.storage.Flows().List(tenantId, page)
}

func (s *FlowService) Update(tenantId string, flowId string, req model.UpdateFlowRequest) (*model.Flow, error) {
	flow, err := s.storage.Flows().Get(tenantId, flowId)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, api.ValidationError{Errors: []string{"name must not be empty"}}
		}
		flow.Name = *req.Name
	}
	if req.Prompt != nil {
		if v := generator.ValidatePrompt(*req.Prompt); !v.IsValid {
			return nil, api.ValidationError{Errors: v.Errors}
		}
		flow.Prompt = *req.Prompt
	}
	if req.Config != nil {
		flow.Config = req.Config
	}
	if req.Steps != nil {
		flow.Steps = req.Steps
	}
	flow.UpdatedAt = time.Now()
	if err := s.storage.Flows().Save(flow); err != nil {
		return nil, err
	}
	return flow, nil
}

func (s *FlowService) Delete(tenantId string, flowId string) error {
	return s.storage.Flows().Delete(tenantId, flowId)
}

// Generate validates synchronously, then hands the pipeline to the background
// worker. Generation failures never reach this caller; they land on the flow
// as status ERROR with the message stored in config.
func (s *FlowService) Generate(tenantId string, flowId string, genCtx *model.GenerationContext) (*model.Flow, error) {
	flow, err := s.storage.Flows().Get(tenantId, flowId)
	if err != nil {
		return nil, err
	}
	if v := generator.ValidatePrompt(flow.Prompt); !v.IsValid {
		return nil, api.ValidationError{Errors: v.Errors}
	}
	flow.Status = model.FLOW_STATUS_GENERATING
	flow.UpdatedAt = time.Now()
	if err := s.storage.Flows().Save(flow); err != nil {
		return nil, err
	}
	s.genWorker.Sender() <- generationTask{tenantId: tenantId, flowId: flowId, genCtx: genCtx}
	return flow, nil
}

func (s *FlowService) runGeneration(task util.Task) error {
	t, ok := task.(generationTask)
	if !ok {
		return fmt.Errorf("unexpected task type %T", task)
	}
	flow, err := s.storage.Flows().Get(t.tenantId, t.flowId)
	if err != nil {
		return err
	}
	result := s.generator.Generate(context.Background(), flow, t.genCtx)
	if !result.Success {
		flow.Status = model.FLOW_STATUS_ERROR
		if flow.Config == nil {
			flow.Config = make(map[string]any)
		}
		flow.Config["generationError"] = result.Error
		flow.UpdatedAt = time.Now()
		logger.Error("flow generation failed", zap.String("flowId", flow.Id), zap.String("error", result.Error))
		return s.storage.Flows().Save(flow)
	}
	language, _ := result.Metadata["language"].(string)
	flow.GeneratedCode = optimizer.Optimize(result.Code, flow.Type, language)
	flow.Status = model.FLOW_STATUS_GENERATED
	flow.UpdatedAt = time.Now()
	logger.Info("flow generated", zap.String("flowId", flow.Id))
	return s.storage.Flows().Save(flow)
}

func (s *FlowService) Deploy(tenantId string, flowId string, config map[string]any) (*model.DeployResult, error) {
	flow, err := s.storage.Flows().Get(tenantId, flowId)
	if err != nil {
		return nil, err
	}
	result := s.writer.Deploy(flow, config)
	if !result.Success {
		return &result, nil
	}
	flow.Status = model.FLOW_STATUS_DEPLOYED
	if flow.Config == nil {
		flow.Config = make(map[string]any)
	}
	flow.Config["deploymentId"] = result.DeploymentId
	flow.UpdatedAt = time.Now()
	if err := s.storage.Flows().Save(flow); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *FlowService) Execute(ctx context.Context, tenantId string, flowId string, input map[string]any) (*model.ExecutionResult, error) {
	flow, err := s.storage.Flows().Get(tenantId, flowId)
	if err != nil {
		return nil, err
	}
	if flow.Status != model.FLOW_STATUS_DEPLOYED {
		return nil, api.PreconditionError{
			Message: fmt.Sprintf("flow must be in status %s to execute, current status is %s", model.FLOW_STATUS_DEPLOYED, flow.Status),
		}
	}
	result := s.runner.Execute(ctx, flow, input)
	return &result, nil
}

func (s *FlowService) ListExecutions(tenantId string, flowId string) ([]model.Execution, error) {
	if _, err := s.storage.Flows().Get(tenantId, flowId); err != nil {
		return nil, err
	}
	return s.storage.Executions().ListByFlow(flowId)
}

func (s *FlowService) Templates() []model.CodeTemplate {
	return s.templates.List()
}

func (s *FlowService) Deployments() []model.DeploymentManifest {
	return s.writer.List()
}

func (s *FlowService) Undeploy(deploymentId string) (*model.DeployResult, error) {
	result := s.writer.Undeploy(deploymentId)
	if !result.Success {
		return nil, api.NotFoundError{Kind: "deployment", Id: deploymentId}
	}
	return &result, nil
}

func (s *FlowService) DeploymentStatus(deploymentId string) (*model.DeploymentStatus, error) {
	status, err := s.writer.GetStatus(deploymentId)
	if err != nil {
		return nil, api.NotFoundError{Kind: "deployment", Id: deploymentId}
	}
	return status, nil
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	return m
}
