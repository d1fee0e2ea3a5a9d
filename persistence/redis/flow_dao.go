package redis

import (
	"context"
	"sort"
	"strconv"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/siatlabs/siat/logger"
	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence"
	"github.com/siatlabs/siat/util"
	"go.uber.org/zap"
)

const FLOW_KEY string = "FLOW"
const FLOW_COUNT_KEY string = "FLOWCOUNT"
const FLOW_LAST_EXEC_KEY string = "FLOWLASTEXEC"

var _ persistence.FlowDao = new(redisFlowDao)

type redisFlowDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.Flow]
}

func NewRedisFlowDao(conf Config) *redisFlowDao {
	return &redisFlowDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Flow](),
	}
}

func (rf *redisFlowDao) Save(flow *model.Flow) error {
	key := rf.getNamespaceKey(FLOW_KEY, flow.TenantId)
	ctx := context.Background()
	data, err := rf.encoderDecoder.Encode(*flow)
	if err != nil {
		return err
	}
	if err := rf.redisClient.HSet(ctx, key, []string{flow.Id, string(data)}).Err(); err != nil {
		logger.Error("error in saving flow", zap.String("tenantId", flow.TenantId), zap.String("flowId", flow.Id), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (rf *redisFlowDao) Get(tenantId string, flowId string) (*model.Flow, error) {
	key := rf.getNamespaceKey(FLOW_KEY, tenantId)
	ctx := context.Background()
	flowStr, err := rf.redisClient.HGet(ctx, key, flowId).Result()
	if err == rd.Nil {
		return nil, persistence.NotFoundError{Kind: "flow", Id: flowId}
	}
	if err != nil {
		logger.Error("error in getting flow", zap.String("tenantId", tenantId), zap.String("flowId", flowId), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	flow, err := rf.encoderDecoder.Decode([]byte(flowStr))
	if err != nil {
		return nil, err
	}
	if flow.Deleted {
		return nil, persistence.NotFoundError{Kind: "flow", Id: flowId}
	}
	rf.mergeCounters(ctx, tenantId, flow)
	return flow, nil
}

// Execution counters live in dedicated hash fields so HIncrBy stays atomic;
// they are merged into the decoded row on read.
func (rf *redisFlowDao) mergeCounters(ctx context.Context, tenantId string, flow *model.Flow) {
	countKey := rf.getNamespaceKey(FLOW_COUNT_KEY, tenantId)
	if countStr, err := rf.redisClient.HGet(ctx, countKey, flow.Id).Result(); err == nil {
		if count, err := strconv.ParseInt(countStr, 10, 64); err == nil {
			flow.ExecutionCount = count
		}
	}
	lastKey := rf.getNamespaceKey(FLOW_LAST_EXEC_KEY, tenantId)
	if lastStr, err := rf.redisClient.HGet(ctx, lastKey, flow.Id).Result(); err == nil {
		if ts, err := time.Parse(time.RFC3339Nano, lastStr); err == nil {
			flow.LastExecutedAt = &ts
		}
	}
}

func (rf *redisFlowDao) List(tenantId string, page model.PageRequest) (*model.FlowPage, error) {
	key := rf.getNamespaceKey(FLOW_KEY, tenantId)
	ctx := context.Background()
	rows, err := rf.redisClient.HVals(ctx, key).Result()
	if err != nil {
		logger.Error("error in listing flows", zap.String("tenantId", tenantId), zap.Error(err))
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	flows := make([]model.Flow, 0, len(rows))
	for _, row := range rows {
		flow, err := rf.encoderDecoder.Decode([]byte(row))
		if err != nil {
			continue
		}
		if flow.Deleted {
			continue
		}
		rf.mergeCounters(ctx, tenantId, flow)
		flows = append(flows, *flow)
	}
	sort.Slice(flows, func(i, j int) bool {
		return flows[i].CreatedAt.After(flows[j].CreatedAt)
	})
	return util.Paginate(flows, page), nil
}

func (rf *redisFlowDao) Delete(tenantId string, flowId string) error {
	flow, err := rf.Get(tenantId, flowId)
	if err != nil {
		return err
	}
	flow.Deleted = true
	flow.UpdatedAt = time.Now()
	return rf.Save(flow)
}

func (rf *redisFlowDao) RecordExecution(tenantId string, flowId string) error {
	ctx := context.Background()
	countKey := rf.getNamespaceKey(FLOW_COUNT_KEY, tenantId)
	lastKey := rf.getNamespaceKey(FLOW_LAST_EXEC_KEY, tenantId)
	pipe := rf.redisClient.TxPipeline()
	pipe.HIncrBy(ctx, countKey, flowId, 1)
	pipe.HSet(ctx, lastKey, []string{flowId, time.Now().Format(time.RFC3339Nano)})
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("error in recording flow execution", zap.String("tenantId", tenantId), zap.String("flowId", flowId), zap.Error(err))
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}
