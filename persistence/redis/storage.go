package redis

import "github.com/siatlabs/siat/persistence"

var _ persistence.Storage = new(redisStorage)

type redisStorage struct {
	flows      *redisFlowDao
	executions *redisExecutionDao
	templates  *redisTemplateDao
	audits     *redisAuditDao
}

func NewRedisStorage(conf Config) *redisStorage {
	return &redisStorage{
		flows:      NewRedisFlowDao(conf),
		executions: NewRedisExecutionDao(conf),
		templates:  NewRedisTemplateDao(conf),
		audits:     NewRedisAuditDao(conf),
	}
}

func (s *redisStorage) Flows() persistence.FlowDao           { return s.flows }
func (s *redisStorage) Executions() persistence.ExecutionDao { return s.executions }
func (s *redisStorage) Templates() persistence.TemplateDao   { return s.templates }
func (s *redisStorage) Audits() persistence.AuditDao         { return s.audits }
