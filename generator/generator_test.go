package generator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence/inmem"
	"github.com/siatlabs/siat/template"
	"github.com/stretchr/testify/require"
)

func TestValidatePrompt(t *testing.T) {
	for scenario, tc := range map[string]struct {
		prompt string
		valid  bool
	}{
		"empty":          {"", false},
		"whitespace":     {"   ", false},
		"too short":      {"short", false},
		"minimum length": {"ten chars!", true},
		"normal":         {"create a customer management module", true},
		"too long":       {strings.Repeat("x", 2001), false},
	} {
		t.Run(scenario, func(t *testing.T) {
			result := ValidatePrompt(tc.prompt)
			require.Equal(t, tc.valid, result.IsValid)
			if !tc.valid {
				require.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestRemoteProviderUnavailable(t *testing.T) {
	p := NewRemoteProvider("primary", 5*time.Millisecond)
	_, err := p.Generate(context.Background(), ProviderRequest{})
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestRemoteProviderHonorsContext(t *testing.T) {
	p := NewRemoteProvider("primary", time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := p.Generate(ctx, ProviderRequest{})
	require.Error(t, err)
	require.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLocalProviderSubstitution(t *testing.T) {
	store := template.NewStore(nil)
	p := NewLocalProvider(store)
	code, err := p.Generate(context.Background(), ProviderRequest{
		Prompt:   "create a customer orders module",
		FlowType: model.FLOW_TYPE_CRUD,
	})
	require.NoError(t, err)
	require.Contains(t, code, "CustomerController")
	require.NotContains(t, code, "GenericController")
	require.Contains(t, code, "@Controller")
}

func TestGeneratorFallsThroughToLocal(t *testing.T) {
	store := template.NewStore(nil)
	storage := inmem.NewStorage()
	gen := NewGenerator(DefaultProviderChain(store, time.Millisecond), store, storage.Audits())
	flow := &model.Flow{
		Id:        "f1",
		Type:      model.FLOW_TYPE_CRUD,
		Prompt:    "create a customer orders module",
		TenantId:  "t1",
		CreatedBy: "u1",
	}
	result := gen.Generate(context.Background(), flow, nil)
	require.True(t, result.Success)
	require.Contains(t, result.Code, "@Controller")
	require.Equal(t, template.LANG_TYPESCRIPT, result.Metadata["language"])

	audits, err := storage.Audits().ListAudits("t1")
	require.NoError(t, err)
	require.Len(t, audits, 1)
	require.True(t, audits[0].Success)
	require.Equal(t, "u1", audits[0].UserId)
}

func TestGeneratorRejectsBadPrompt(t *testing.T) {
	store := template.NewStore(nil)
	storage := inmem.NewStorage()
	gen := NewGenerator(DefaultProviderChain(store, time.Millisecond), store, storage.Audits())
	flow := &model.Flow{Id: "f1", Type: model.FLOW_TYPE_CRUD, Prompt: "nope", TenantId: "t1"}
	result := gen.Generate(context.Background(), flow, nil)
	require.False(t, result.Success)
	require.Contains(t, result.Error, "invalid prompt")

	audits, err := storage.Audits().ListAudits("t1")
	require.NoError(t, err)
	require.Len(t, audits, 1)
	require.False(t, audits[0].Success)
}

func TestBuildEnhancedPrompt(t *testing.T) {
	tpl := &model.CodeTemplate{Type: model.FLOW_TYPE_API, Language: template.LANG_TYPESCRIPT, Body: "export class Generic {}"}
	out := BuildEnhancedPrompt("build an invoice service", tpl, &model.GenerationContext{
		Functions:   []string{"sendMail"},
		Libraries:   []string{"axios"},
		Constraints: []string{"no external calls"},
	})
	require.Contains(t, out, "build an invoice service")
	require.Contains(t, out, "export class Generic {}")
	require.Contains(t, out, "sendMail")
	require.Contains(t, out, "axios")
	require.Contains(t, out, "no external calls")
}
