package deployment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/validator"
	"go.uber.org/zap"
)

const manifestFile = "deployment.json"

// Writer serializes generated code into a deployment directory tree under a
// configurable root. Deployment directories are keyed {flowId}-{unixMillis},
// so concurrent deployments of different flows need no coordination.
type Writer struct {
	root string
}

func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

func (w *Writer) Deploy(flow *model.Flow, config map[string]any) model.DeployResult {
	if strings.TrimSpace(flow.GeneratedCode) == "" {
		return model.DeployResult{Success: false, Message: "flow has no generated code"}
	}
	if flow.Status != model.FLOW_STATUS_GENERATED {
		return model.DeployResult{
			Success: false,
			Message: fmt.Sprintf("flow must be in status %s to deploy, current status is %s", model.FLOW_STATUS_GENERATED, flow.Status),
		}
	}
	if report := validator.AnalyzeCodeSecurity(flow.GeneratedCode, flow.Type); report.RiskLevel == model.RISK_CRITICAL {
		return model.DeployResult{
			Success: false,
			Message: fmt.Sprintf("generated code rejected by security scan: score %d (%s)", report.SecurityScore, report.RiskLevel),
		}
	}

	deploymentId := fmt.Sprintf("%s-%d", flow.Id, time.Now().UnixMilli())
	dir := filepath.Join(w.root, deploymentId)
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		return model.DeployResult{Success: false, Message: fmt.Sprintf("error creating deployment directory: %v", err)}
	}

	files := w.layoutFiles(flow, config)
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			_ = os.RemoveAll(dir)
			return model.DeployResult{Success: false, Message: fmt.Sprintf("error writing %s: %v", name, err)}
		}
	}

	written, err := listFiles(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return model.DeployResult{Success: false, Message: fmt.Sprintf("error walking deployment directory: %v", err)}
	}
	manifest := model.DeploymentManifest{
		DeploymentId: deploymentId,
		FlowId:       flow.Id,
		FlowName:     flow.Name,
		Version:      "1.0.0",
		DeployedAt:   time.Now(),
		Files:        written,
		Config:       config,
	}
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		_ = os.RemoveAll(dir)
		return model.DeployResult{Success: false, Message: fmt.Sprintf("error encoding manifest: %v", err)}
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), manifestData, 0o644); err != nil {
		_ = os.RemoveAll(dir)
		return model.DeployResult{Success: false, Message: fmt.Sprintf("error writing manifest: %v", err)}
	}

	if errs := w.validateDeployment(dir, flow.Type); len(errs) > 0 {
		_ = os.RemoveAll(dir)
		return model.DeployResult{Success: false, Message: fmt.Sprintf("deployment validation failed: %s", strings.Join(errs, "; "))}
	}

	logger.Info("flow deployed", zap.String("flowId", flow.Id), zap.String("deploymentId", deploymentId))
	return model.DeployResult{Success: true, Message: "deployed", DeploymentId: deploymentId}
}

// layoutFiles maps the generated code into the fixed file layout for the flow
// type. tsconfig.json is always emitted; package.json only for API and CRUD.
func (w *Writer) layoutFiles(flow *model.Flow, config map[string]any) map[string]string {
	files := make(map[string]string)
	switch flow.Type {
	case model.FLOW_TYPE_CRUD, model.FLOW_TYPE_API:
		files[filepath.Join("src", "controller.ts")] = flow.GeneratedCode
		files[filepath.Join("src", "index.ts")] = indexSource("./controller")
		files["package.json"] = packageJSON(flow.Name)
	case model.FLOW_TYPE_FORM, model.FLOW_TYPE_DASHBOARD:
		files[filepath.Join("src", "component.tsx")] = flow.GeneratedCode
		files[filepath.Join("src", "index.ts")] = indexSource("./component")
	default:
		files[filepath.Join("src", "workflow.ts")] = flow.GeneratedCode
		files[filepath.Join("src", "index.ts")] = indexSource("./workflow")
	}
	files["tsconfig.json"] = tsconfigJSON()
	if containerized, ok := config["containerized"].(bool); ok && containerized {
		files["Dockerfile"] = dockerfile()
		files[".dockerignore"] = "node_modules\ndist\n"
	}
	return files
}

func (w *Writer) validateDeployment(dir string, flowType model.FlowType) []string {
	var errs []string
	required := []string{manifestFile, "tsconfig.json"}
	if flowType == model.FLOW_TYPE_CRUD || flowType == model.FLOW_TYPE_API {
		required = append(required, "package.json")
	}
	for _, name := range required {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Sprintf("required file %s missing", name))
		}
	}
	if flowType == model.FLOW_TYPE_CRUD || flowType == model.FLOW_TYPE_API {
		data, err := os.ReadFile(filepath.Join(dir, "package.json"))
		if err == nil {
			var pkg struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			}
			if err := json.Unmarshal(data, &pkg); err != nil {
				errs = append(errs, "package.json does not parse")
			} else if pkg.Name == "" || pkg.Version == "" {
				errs = append(errs, "package.json missing name or version")
			}
		}
	}
	entries, err := os.ReadDir(filepath.Join(dir, "src"))
	if err != nil || len(entries) == 0 {
		errs = append(errs, "source directory is empty")
	}
	return errs
}

func (w *Writer) Undeploy(deploymentId string) model.DeployResult {
	dir := filepath.Join(w.root, deploymentId)
	if _, err := os.Stat(dir); err != nil {
		return model.DeployResult{Success: false, Message: fmt.Sprintf("deployment %s not found", deploymentId)}
	}
	if err := os.RemoveAll(dir); err != nil {
		return model.DeployResult{Success: false, Message: fmt.Sprintf("error removing deployment: %v", err)}
	}
	logger.Info("deployment removed", zap.String("deploymentId", deploymentId))
	return model.DeployResult{Success: true, Message: "undeployed", DeploymentId: deploymentId}
}

func (w *Writer) GetStatus(deploymentId string) (*model.DeploymentStatus, error) {
	manifest, err := w.readManifest(filepath.Join(w.root, deploymentId))
	if err != nil {
		return nil, err
	}
	return &model.DeploymentStatus{
		DeploymentId: deploymentId,
		Status:       "deployed",
		Manifest:     *manifest,
	}, nil
}

// List scans the deployment root and skips directories whose manifest is
// missing or unreadable.
func (w *Writer) List() []model.DeploymentManifest {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil
	}
	var manifests []model.DeploymentManifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := w.readManifest(filepath.Join(w.root, entry.Name()))
		if err != nil {
			logger.Warn("skipping deployment with unreadable manifest", zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		manifests = append(manifests, *manifest)
	}
	return manifests
}

func (w *Writer) readManifest(dir string) (*model.DeploymentManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}
	var manifest model.DeploymentManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
