package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ArchiveQueue receives the traces of successfully submitted orders.
const ArchiveQueue = "orders.archive"

// Ensure *redisQueue implements Queuer.
var _ Queuer = (*redisQueue)(nil)

// Queuer describes a queue of order traces.
type Queuer interface {
	Push(ctx context.Context, qid string, order ArchivedOrder) error
	Pop(ctx context.Context, qids ...string) (string, ArchivedOrder, error)
}

// redisQueue represents a queue which implements the Queuer interface.
type redisQueue struct {
	client *redis.Client
}

func NewRedisQueue(client *redis.Client) Queuer {
	return &redisQueue{client: client}
}

// Push enqueues an order trace onto the queue identified by qid.
func (q *redisQueue) Push(ctx context.Context, qid string, order ArchivedOrder) error {
	record, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return q.client.RPush(ctx, qid, record).Err()
}

// Pop returns the first dequeued order trace from the list of queue ids.
func (q *redisQueue) Pop(ctx context.Context, qids ...string) (string, ArchivedOrder, error) {
	var order ArchivedOrder
	var qid string
	infos, err := q.client.BLPop(ctx, 0*time.Second, qids...).Result()
	if err != nil {
		return qid, order, err
	}

	if err = json.Unmarshal([]byte(infos[1]), &order); err != nil {
		return qid, order, err
	}
	qid = infos[0]
	return qid, order, nil
}
