package redis

import (
	"context"
	"sort"

	rd "github.com/go-redis/redis/v9"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/util"
	"go.uber.org/zap"
)

const EXECUTION_KEY string = "EXEC"

var _ persistence.ExecutionDao = new(redisExecutionDao)

type redisExecutionDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.Execution]
}

func NewRedisExecutionDao(conf Config) *redisExecutionDao {
	return &redisExecutionDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Execution](),
	}
}

func (re *redisExecutionDao) Save(execution *model.Execution) error {
	key := re.getNamespaceKey(EXECUTION_KEY, execution.FlowId)
	ctx := context.Background()
	data, err := re.encoderDecoder.Encode(*execution)
	if err != nil {
		return err
	}
	if err := re.redisClient.HSet(ctx, key, []string{execution.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving execution", zap.String("flowId", execution.FlowId), zap.String("executionId", execution.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (re *redisExecutionDao) Update(execution *model.Execution) error {
	return re.Save(execution)
}

func (re *redisExecutionDao) Get(flowId string, executionId string) (*model.Execution, error) {
	key := re.getNamespaceKey(EXECUTION_KEY, flowId)
	ctx := context.Background()
	row, err := re.redisClient.HGet(ctx, key, executionId).Result()
	if err == rd.Nil {
		return nil, persistence.NotFoundError{Kind: "execution", Id: executionId}
	}
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return re.encoderDecoder.Decode([]byte(row))
}

func (re *redisExecutionDao) ListByFlow(flowId string) ([]model.Execution, error) {
	key := re.getNamespaceKey(EXECUTION_KEY, flowId)
	ctx := context.Background()
	rows, err := re.redisClient.HVals(ctx, key).Result()
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	executions := make([]model.Execution, 0, len(rows))
	for _, row := range rows {
		ex, err := re.encoderDecoder.Decode([]byte(row))
		if err != nil {
			continue
		}
		executions = append(executions, *ex)
	}
	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartedAt.After(executions[j].StartedAt)
	})
	return executions, nil
}
