package deployment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/siatlabs/siat/model"
	"github.com/stretchr/testify/require"
)

const generatedController = `@Controller('orders')
export class OrderController {
  @Get()
  findAll() {
    return [];
  }
}`

func deployableFlow() *model.Flow {
	return &model.Flow{
		Id:            "flow-1",
		Name:          "Order API",
		Type:          model.FLOW_TYPE_CRUD,
		Status:        model.FLOW_STATUS_GENERATED,
		GeneratedCode: generatedController,
		TenantId:      "t1",
	}
}

func TestDeployPreconditions(t *testing.T) {
	w := NewWriter(t.TempDir())

	t.Run("fails without generated code", func(t *testing.T) {
		flow := deployableFlow()
		flow.GeneratedCode = ""
		result := w.Deploy(flow, nil)
		require.False(t, result.Success)
		require.Contains(t, result.Message, "no generated code")
	})

	t.Run("fails when status is not GENERATED", func(t *testing.T) {
		flow := deployableFlow()
		flow.Status = model.FLOW_STATUS_DRAFT
		result := w.Deploy(flow, nil)
		require.False(t, result.Success)
		require.Contains(t, result.Message, "must be in status GENERATED")
	})
}

func TestDeployWritesLayoutAndManifest(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	result := w.Deploy(deployableFlow(), nil)
	require.True(t, result.Success, result.Message)
	require.NotEmpty(t, result.DeploymentId)

	dir := filepath.Join(root, result.DeploymentId)
	for _, name := range []string{
		filepath.Join("src", "controller.ts"),
		filepath.Join("src", "index.ts"),
		"package.json",
		"tsconfig.json",
		"deployment.json",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	status, err := w.GetStatus(result.DeploymentId)
	require.NoError(t, err)
	require.Equal(t, "deployed", status.Status)
	require.Equal(t, "flow-1", status.Manifest.FlowId)
	require.Contains(t, status.Manifest.Files, "src/controller.ts")

	manifests := w.List()
	ids := make([]string, 0, len(manifests))
	for _, m := range manifests {
		ids = append(ids, m.DeploymentId)
	}
	require.Contains(t, ids, result.DeploymentId)
}

func TestDeployComponentLayout(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	flow := deployableFlow()
	flow.Type = model.FLOW_TYPE_FORM
	flow.GeneratedCode = "export function OrderForm() {\n  return null;\n}"
	result := w.Deploy(flow, nil)
	require.True(t, result.Success, result.Message)

	dir := filepath.Join(root, result.DeploymentId)
	_, err := os.Stat(filepath.Join(dir, "src", "component.tsx"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "package.json"))
	require.True(t, os.IsNotExist(err))
}

func TestDeployContainerized(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	result := w.Deploy(deployableFlow(), map[string]any{"containerized": true})
	require.True(t, result.Success, result.Message)

	dir := filepath.Join(root, result.DeploymentId)
	_, err := os.Stat(filepath.Join(dir, "Dockerfile"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ".dockerignore"))
	require.NoError(t, err)
}

func TestDeployRejectsCriticalCode(t *testing.T) {
	w := NewWriter(t.TempDir())
	flow := deployableFlow()
	flow.GeneratedCode = generatedController + `
const password = "hunter2";
eval(input);
el.innerHTML = html;`
	result := w.Deploy(flow, nil)
	require.False(t, result.Success)
	require.Contains(t, result.Message, "security scan")
	require.Empty(t, w.List())
}

func TestUndeploy(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	result := w.Deploy(deployableFlow(), nil)
	require.True(t, result.Success)

	undeploy := w.Undeploy(result.DeploymentId)
	require.True(t, undeploy.Success)
	_, err := os.Stat(filepath.Join(root, result.DeploymentId))
	require.True(t, os.IsNotExist(err))

	again := w.Undeploy(result.DeploymentId)
	require.False(t, again.Success)
}

func TestListSkipsUnreadableManifest(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root)
	result := w.Deploy(deployableFlow(), nil)
	require.True(t, result.Success)

	broken := filepath.Join(root, "flow-x-123")
	require.NoError(t, os.MkdirAll(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "deployment.json"), []byte("{not json"), 0o644))

	manifests := w.List()
	require.Len(t, manifests, 1)
	require.Equal(t, result.DeploymentId, manifests[0].DeploymentId)
}
