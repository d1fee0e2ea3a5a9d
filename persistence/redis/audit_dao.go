package redis

import (
	"context"

	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/util"
)

const AUDIT_KEY string = "AUDIT"

var _ persistence.AuditDao = new(redisAuditDao)

type redisAuditDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.GenerationAudit]
}

func NewRedisAuditDao(conf Config) *redisAuditDao {
	return &redisAuditDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.GenerationAudit](),
	}
}

func (ra *redisAuditDao) SaveAudit(audit model.GenerationAudit) error {
	key := ra.getNamespaceKey(AUDIT_KEY, audit.TenantId)
	ctx := context.Background()
	data, err := ra.encoderDecoder.Encode(audit)
	if err != nil {
		return err
	}
	if err := ra.redisClient.RPush(ctx, key, data).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (ra *redisAuditDao) ListAudits(tenantId string) ([]model.GenerationAudit, error) {
	key := ra.getNamespaceKey(AUDIT_KEY, tenantId)
	ctx := context.Background()
	rows, err := ra.redisClient.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	audits := make([]model.GenerationAudit, 0, len(rows))
	for _, row := range rows {
		audit, err := ra.encoderDecoder.Decode([]byte(row))
		if err != nil {
			continue
		}
		audits = append(audits, *audit)
	}
	return audits, nil
}
