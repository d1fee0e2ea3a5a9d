package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/template"
	"github.com/siatlabs/siat/validator"
	"go.uber.org/zap"
)

// Generator runs the provider chain for a flow: primary and fallback remote
// providers first, the local template provider last. The first provider to
// return code wins; the output is post-processed and gated through structural
// validation before it is accepted. Every attempt is recorded as an audit row
// keyed by tenant and user.
type Generator struct {
	providers []Provider
	store     *template.Store
	audits    persistence.AuditDao
}

func NewGenerator(providers []Provider, store *template.Store, audits persistence.AuditDao) *Generator {
	return &Generator{
		providers: providers,
		store:     store,
		audits:    audits,
	}
}

// DefaultProviderChain mirrors the production order: primary, fallback, local.
func DefaultProviderChain(store *template.Store, remoteDelay time.Duration) []Provider {
	return []Provider{
		NewRemoteProvider("primary", remoteDelay),
		NewRemoteProvider("fallback", remoteDelay),
		NewLocalProvider(store),
	}
}

func (g *Generator) Generate(ctx context.Context, flow *model.Flow, genCtx *model.GenerationContext) model.GenerationResult {
	if v := ValidatePrompt(flow.Prompt); !v.IsValid {
		return g.fail(flow, fmt.Sprintf("invalid prompt: %s", strings.Join(v.Errors, "; ")))
	}
	tpl, err := g.store.Get(flow.Type)
	if err != nil {
		return g.fail(flow, err.Error())
	}
	req := ProviderRequest{
		EnhancedPrompt: BuildEnhancedPrompt(flow.Prompt, tpl, genCtx),
		Prompt:         flow.Prompt,
		FlowType:       flow.Type,
	}
	var code string
	var lastErr error
	for _, provider := range g.providers {
		code, lastErr = provider.Generate(ctx, req)
		if lastErr == nil && strings.TrimSpace(code) != "" {
			logger.Debug("provider produced code", zap.String("provider", provider.Name()), zap.String("flowId", flow.Id))
			break
		}
		logger.Info("provider unavailable, falling through",
			zap.String("provider", provider.Name()), zap.String("flowId", flow.Id), zap.Error(lastErr))
		code = ""
	}
	if code == "" {
		msg := "all providers exhausted"
		if lastErr != nil {
			msg = fmt.Sprintf("%s: %v", msg, lastErr)
		}
		return g.fail(flow, msg)
	}
	code = PostProcess(code, tpl.Language)
	if v := validator.ValidateCode(code, flow.Type); !v.IsValid {
		return g.fail(flow, fmt.Sprintf("generated code failed validation: %s", strings.Join(v.Errors, "; ")))
	}
	g.audit(flow, true, "")
	return model.GenerationResult{
		Success: true,
		Code:    code,
		Metadata: map[string]any{
			"language": tpl.Language,
			"template": tpl.Name,
		},
	}
}

func (g *Generator) fail(flow *model.Flow, msg string) model.GenerationResult {
	g.audit(flow, false, msg)
	return model.GenerationResult{Success: false, Error: msg}
}

func (g *Generator) audit(flow *model.Flow, success bool, errMsg string) {
	if g.audits == nil {
		return
	}
	err := g.audits.SaveAudit(model.GenerationAudit{
		TenantId: flow.TenantId,
		UserId:   flow.CreatedBy,
		FlowId:   flow.Id,
		Success:  success,
		Error:    errMsg,
		At:       time.Now(),
	})
	if err != nil {
		logger.Error("error saving generation audit", zap.String("flowId", flow.Id), zap.Error(err))
	}
}
