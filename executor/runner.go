package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"go.uber.org/zap"
)

// Runner replays a flow's ordered step list against input data. Steps execute
// strictly in list order as a linear pipeline; each step receives the output
// of the previous one. Step conditions and nextSteps are not evaluated.
type Runner struct {
	executions persistence.ExecutionDao
	flows      persistence.FlowDao
	registry   *HandlerRegistry
}

func NewRunner(executions persistence.ExecutionDao, flows persistence.FlowDao, registry *HandlerRegistry) *Runner {
	return &Runner{
		executions: executions,
		flows:      flows,
		registry:   registry,
	}
}

func (r *Runner) Execute(ctx context.Context, flow *model.Flow, input map[string]any) model.ExecutionResult {
	started := time.Now()
	execution := &model.Execution{
		Id:        uuid.New().String(),
		FlowId:    flow.Id,
		Status:    model.EXECUTION_RUNNING,
		InputData: input,
		StartedAt: started,
	}
	logs := []string{fmt.Sprintf("execution %s started with %d steps", execution.Id, len(flow.Steps))}
	if err := r.executions.Save(execution); err != nil {
		return model.ExecutionResult{
			Success:        false,
			ExecutionId:    execution.Id,
			Error:          err.Error(),
			DurationMillis: time.Since(started).Milliseconds(),
			Logs:           logs,
		}
	}

	data := input
	if data == nil {
		data = make(map[string]any)
	}
	var stepErr error
	for _, step := range flow.Steps {
		handler := r.registry.Get(step.Type)
		logs = append(logs, fmt.Sprintf("running step %s (%s)", step.Name, step.Type))
		out, err := handler.Execute(ctx, step, data)
		if err != nil {
			stepErr = fmt.Errorf("step %s failed: %w", step.Name, err)
			logs = append(logs, stepErr.Error())
			break
		}
		data = out
	}

	completed := time.Now()
	duration := completed.Sub(started).Milliseconds()
	execution.CompletedAt = &completed
	execution.DurationMillis = duration
	if stepErr != nil {
		execution.Status = model.EXECUTION_FAILED
		execution.ErrorMessage = stepErr.Error()
	} else {
		execution.Status = model.EXECUTION_COMPLETED
		execution.OutputData = data
		logs = append(logs, "execution completed")
	}
	if err := r.executions.Update(execution); err != nil {
		logger.Error("error updating execution record", zap.String("executionId", execution.Id), zap.Error(err))
	}

	if stepErr != nil {
		logger.Info("flow execution failed", zap.String("flowId", flow.Id), zap.String("executionId", execution.Id), zap.Error(stepErr))
		return model.ExecutionResult{
			Success:        false,
			ExecutionId:    execution.Id,
			Error:          stepErr.Error(),
			DurationMillis: duration,
			Logs:           logs,
		}
	}

	if err := r.flows.RecordExecution(flow.TenantId, flow.Id); err != nil {
		logger.Error("error recording flow execution counters", zap.String("flowId", flow.Id), zap.Error(err))
	}
	return model.ExecutionResult{
		Success:        true,
		ExecutionId:    execution.Id,
		Output:         data,
		DurationMillis: duration,
		Logs:           logs,
	}
}
