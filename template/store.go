package template

import (
	"fmt"
	"time"

	c "github.com/patrickmn/go-cache"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
)

// Store resolves the code template for a flow type. Tenant overrides stored
// through the TemplateDao shadow the embedded defaults; lookups are cached
// with a short TTL so the hot path stays off the storage layer.
type Store struct {
	dao   persistence.TemplateDao
	cache *c.Cache
}

func NewStore(dao persistence.TemplateDao) *Store {
	return &Store{
		dao:   dao,
		cache: c.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Store) Get(flowType model.FlowType) (*model.CodeTemplate, error) {
	key := string(flowType)
	if cached, found := s.cache.Get(key); found {
		tpl := cached.(model.CodeTemplate)
		return &tpl, nil
	}
	if s.dao != nil {
		tpl, err := s.dao.GetTemplate(flowType)
		if err == nil && tpl != nil {
			s.cache.Set(key, *tpl, c.DefaultExpiration)
			return tpl, nil
		}
	}
	tpl, ok := defaultTemplates[flowType]
	if !ok {
		return nil, fmt.Errorf("no template registered for flow type %s", flowType)
	}
	s.cache.Set(key, tpl, c.DefaultExpiration)
	return &tpl, nil
}

func (s *Store) List() []model.CodeTemplate {
	out := make([]model.CodeTemplate, 0, len(defaultTemplates))
	for _, t := range templateOrder {
		out = append(out, defaultTemplates[t])
	}
	return out
}

// Save stores a tenant override and drops the stale cache entry.
func (s *Store) Save(tpl model.CodeTemplate) error {
	if s.dao == nil {
		return fmt.Errorf("template storage not configured")
	}
	if err := s.dao.SaveTemplate(tpl); err != nil {
		return err
	}
	s.cache.Delete(string(tpl.Type))
	return nil
}
