package generator

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/template"
)

var ErrProviderUnavailable = errors.New("provider returned no result")

type ProviderRequest struct {
	EnhancedPrompt string
	Prompt         string
	FlowType       model.FlowType
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, req ProviderRequest) (string, error)
}

// remoteProvider stands in for an external model endpoint. It waits for the
// configured latency and reports unavailable, so generation always falls
// through to the local provider.
type remoteProvider struct {
	name  string
	delay time.Duration
}

func NewRemoteProvider(name string, delay time.Duration) *remoteProvider {
	return &remoteProvider{name: name, delay: delay}
}

func (p *remoteProvider) Name() string { return p.name }

func (p *remoteProvider) Generate(ctx context.Context, req ProviderRequest) (string, error) {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "", ErrProviderUnavailable
}

// localProvider selects the canned template for the flow type and rewrites
// its placeholder identifiers with words extracted from the prompt.
type localProvider struct {
	store *template.Store
}

func NewLocalProvider(store *template.Store) *localProvider {
	return &localProvider{store: store}
}

func (p *localProvider) Name() string { return "local" }

func (p *localProvider) Generate(ctx context.Context, req ProviderRequest) (string, error) {
	tpl, err := p.store.Get(req.FlowType)
	if err != nil {
		return "", err
	}
	return substitute(tpl.Body, req.Prompt), nil
}

var wordRe = regexp.MustCompile(`[A-Za-z]+`)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "with": true, "and": true,
	"or": true, "to": true, "of": true, "in": true, "on": true, "that": true,
	"create": true, "build": true, "make": true, "generate": true, "new": true,
	"flow": true, "code": true, "module": true, "using": true, "from": true,
}

func promptKeywords(prompt string) []string {
	words := wordRe.FindAllString(strings.ToLower(prompt), -1)
	keywords := make([]string, 0, 3)
	seen := make(map[string]bool)
	for _, w := range words {
		if stopwords[w] || len(w) < 3 || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if len(keywords) == 3 {
			break
		}
	}
	return keywords
}

var itemRe = regexp.MustCompile(`\bitem\b`)
var dataRe = regexp.MustCompile(`\bdata\b`)

// substitute is a naive whole-word rename of the template placeholders. The
// rename is consistent across the template so the output stays syntactically
// coherent even though no parsing happens.
func substitute(body string, prompt string) string {
	keywords := promptKeywords(prompt)
	if len(keywords) == 0 {
		return body
	}
	entity := keywords[0]
	out := strings.ReplaceAll(body, "Generic", capitalize(entity))
	out = strings.ReplaceAll(out, "generic", entity)
	if len(keywords) > 1 {
		out = itemRe.ReplaceAllString(out, keywords[1])
	}
	if len(keywords) > 2 {
		out = dataRe.ReplaceAllString(out, keywords[2])
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
