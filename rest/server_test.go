package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/siatlabs/siat/deployment"
	"github.com/siatlabs/siat/executor"
	"github.com/siatlabs/siat/generator"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence/inmem"
	"github.com/siatlabs/siat/service"
	"github.com/siatlabs/siat/template"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	storage := inmem.NewStorage()
	templates := template.NewStore(storage.Templates())
	gen := generator.NewGenerator(generator.DefaultProviderChain(templates, time.Millisecond), templates, storage.Audits())
	writer := deployment.NewWriter(t.TempDir())
	runner := executor.NewRunner(storage.Executions(), storage.Flows(), executor.NewHandlerRegistry())
	var wg sync.WaitGroup
	flowService := service.NewFlowService(storage, templates, gen, writer, runner, &wg, 16)
	flowService.Start()
	t.Cleanup(func() {
		_ = flowService.Stop()
		wg.Wait()
	})
	server, err := NewServer(0, flowService, "", "")
	require.NoError(t, err)
	return server
}

func doJSON(t *testing.T, server *Server, method string, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Tenant-Id", "t1")
	req.Header.Set("X-User-Id", "u1")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func createFlow(t *testing.T, server *Server) model.Flow {
	t.Helper()
	rec := doJSON(t, server, http.MethodPost, "/siat/flows", model.CreateFlowRequest{
		Name:   "customer module",
		Type:   model.FLOW_TYPE_CRUD,
		Prompt: "create a customer orders module",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var flow model.Flow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &flow))
	return flow
}

func TestHandleCreateFlow(t *testing.T) {
	server := newTestServer(t)
	flow := createFlow(t, server)
	require.NotEmpty(t, flow.Id)
	require.Equal(t, model.FLOW_STATUS_DRAFT, flow.Status)
	require.Equal(t, "t1", flow.TenantId)
	require.Equal(t, "u1", flow.CreatedBy)
}

func TestHandleCreateFlowValidation(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodPost, "/siat/flows", model.CreateFlowRequest{
		Name: "x", Type: model.FLOW_TYPE_CRUD, Prompt: "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "validation failed")
}

func TestHandleGetFlowNotFound(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodGet, "/siat/flows/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleListFlowsPagination(t *testing.T) {
	server := newTestServer(t)
	for i := 0; i < 25; i++ {
		rec := doJSON(t, server, http.MethodPost, "/siat/flows", model.CreateFlowRequest{
			Name:   fmt.Sprintf("flow-%02d", i),
			Type:   model.FLOW_TYPE_CRUD,
			Prompt: "create a customer orders module",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(t, server, http.MethodGet, "/siat/flows?page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page model.FlowPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Items, 10)
	require.Equal(t, 3, page.Pagination.Pages)
}

func TestHandleGenerateDeployExecute(t *testing.T) {
	server := newTestServer(t)
	flow := createFlow(t, server)

	rec := doJSON(t, server, http.MethodPost, "/siat/flows/"+flow.Id+"/generate", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		rec := doJSON(t, server, http.MethodGet, "/siat/flows/"+flow.Id, nil)
		var current model.Flow
		if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
			return false
		}
		return current.Status == model.FLOW_STATUS_GENERATED
	}, 5*time.Second, 10*time.Millisecond)

	rec = doJSON(t, server, http.MethodPost, "/siat/flows/"+flow.Id+"/deploy", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var deployResult model.DeployResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deployResult))
	require.True(t, deployResult.Success)

	rec = doJSON(t, server, http.MethodPost, "/siat/flows/"+flow.Id+"/execute", model.ExecuteFlowRequest{Input: map[string]any{"x": 1}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var execResult model.ExecutionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &execResult))
	require.True(t, execResult.Success)

	rec = doJSON(t, server, http.MethodGet, "/siat/flows/"+flow.Id+"/executions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var executions []model.Execution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &executions))
	require.Len(t, executions, 1)

	rec = doJSON(t, server, http.MethodGet, "/siat/deployments/"+deployResult.DeploymentId, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"deployed"`)
}

func TestHandleExecuteBeforeDeploy(t *testing.T) {
	server := newTestServer(t)
	flow := createFlow(t, server)
	rec := doJSON(t, server, http.MethodPost, "/siat/flows/"+flow.Id+"/execute", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "DEPLOYED")
}

func TestHandleDeployWithoutCode(t *testing.T) {
	server := newTestServer(t)
	flow := createFlow(t, server)
	rec := doJSON(t, server, http.MethodPost, "/siat/flows/"+flow.Id+"/deploy", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var result model.DeployResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.Success)
}

func TestHandleListTemplates(t *testing.T) {
	server := newTestServer(t)
	rec := doJSON(t, server, http.MethodGet, "/siat/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var templates []model.CodeTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	require.Len(t, templates, 8)
}

func TestHandleDeleteFlow(t *testing.T) {
	server := newTestServer(t)
	flow := createFlow(t, server)
	rec := doJSON(t, server, http.MethodDelete, "/siat/flows/"+flow.Id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/siat/flows/"+flow.Id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTenantHeaderScopesFlows(t *testing.T) {
	server := newTestServer(t)
	flow := createFlow(t, server)

	req := httptest.NewRequest(http.MethodGet, "/siat/flows/"+flow.Id, nil)
	req.Header.Set("X-Tenant-Id", "t2")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
