package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dop251/goja"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/util"
)

const (
	STEP_TYPE_TRANSFORM = "TRANSFORM"
	STEP_TYPE_SCRIPT    = "SCRIPT"
	STEP_TYPE_DELAY     = "DELAY"
	STEP_TYPE_NOOP      = "NOOP"
)

// StepHandler runs one step against the accumulated pipeline data and returns
// the data passed to the next step.
type StepHandler interface {
	Execute(ctx context.Context, step model.Step, data map[string]any) (map[string]any, error)
}

type HandlerRegistry struct {
	handlers map[string]StepHandler
	fallback StepHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{
		handlers: make(map[string]StepHandler),
		fallback: &noopHandler{},
	}
	r.Register(STEP_TYPE_TRANSFORM, &transformHandler{})
	r.Register(STEP_TYPE_SCRIPT, &scriptHandler{})
	r.Register(STEP_TYPE_DELAY, &delayHandler{})
	r.Register(STEP_TYPE_NOOP, &noopHandler{})
	return r
}

func (r *HandlerRegistry) Register(stepType string, handler StepHandler) {
	r.handlers[stepType] = handler
}

func (r *HandlerRegistry) Get(stepType string) StepHandler {
	if h, ok := r.handlers[stepType]; ok {
		return h
	}
	return r.fallback
}

// transformHandler maps the pipeline data through the step's params config,
// resolving {$.path} jsonpath tokens against the current data.
type transformHandler struct{}

func (h *transformHandler) Execute(ctx context.Context, step model.Step, data map[string]any) (map[string]any, error) {
	params, ok := step.Config["params"].(map[string]any)
	if !ok {
		return data, nil
	}
	return util.ResolveParams(data, params), nil
}

// scriptHandler evaluates the step's javascript expression with the pipeline
// data bound to $; whatever $ holds afterwards becomes the step output.
type scriptHandler struct{}

func (h *scriptHandler) Execute(ctx context.Context, step model.Step, data map[string]any) (map[string]any, error) {
	expression, ok := step.Config["expression"].(string)
	if !ok || expression == "" {
		return nil, fmt.Errorf("step %s: expression can not be empty", step.Id)
	}
	encoded, _ := json.Marshal(data)
	script := fmt.Sprintf("var $ = %s;\n%s", encoded, expression)
	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, fmt.Errorf("error executing javascript %w", err)
	}
	val, err := vm.RunString("$")
	if err != nil {
		return nil, fmt.Errorf("error executing javascript %w", err)
	}
	res, err := json.Marshal(val.Export())
	if err != nil {
		return nil, err
	}
	var output map[string]any
	if err := json.Unmarshal(res, &output); err != nil {
		return nil, fmt.Errorf("script did not produce an object: %w", err)
	}
	return output, nil
}

type delayHandler struct{}

func (h *delayHandler) Execute(ctx context.Context, step model.Step, data map[string]any) (map[string]any, error) {
	millis, _ := step.Config["delayMillis"].(float64)
	if millis <= 0 {
		return data, nil
	}
	select {
	case <-time.After(time.Duration(millis) * time.Millisecond):
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type noopHandler struct{}

func (h *noopHandler) Execute(ctx context.Context, step model.Step, data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	out["_step"] = step.Name
	return out, nil
}
