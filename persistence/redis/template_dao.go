package redis

import (
	"context"

	rd "github.com/go-redis/redis/v9"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/util"
)

const TEMPLATE_KEY string = "TEMPLATE"

var _ persistence.TemplateDao = new(redisTemplateDao)

type redisTemplateDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.CodeTemplate]
}

func NewRedisTemplateDao(conf Config) *redisTemplateDao {
	return &redisTemplateDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.CodeTemplate](),
	}
}

func (rt *redisTemplateDao) SaveTemplate(tpl model.CodeTemplate) error {
	key := rt.getNamespaceKey(TEMPLATE_KEY, string(tpl.Type))
	ctx := context.Background()
	data, err := rt.encoderDecoder.Encode(tpl)
	if err != nil {
		return err
	}
	if err := rt.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rt *redisTemplateDao) GetTemplate(flowType model.FlowType) (*model.CodeTemplate, error) {
	key := rt.getNamespaceKey(TEMPLATE_KEY, string(flowType))
	ctx := context.Background()
	val, err := rt.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return nil, persistence.NotFoundError{Kind: "template", Id: string(flowType)}
	}
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return rt.encoderDecoder.Decode([]byte(val))
}
