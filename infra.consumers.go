package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context, qids ...string) error
}

// archiveConsumer drains the order trace queue into the local archive.
// Archive failures are logged and never surfaced to the customer flow.
type archiveConsumer struct {
	logger  *zap.Logger
	queue   Queuer
	archive OrderArchiver
}

func NewArchiveConsumer(logger *zap.Logger, q Queuer, archive OrderArchiver) Consumer {
	return &archiveConsumer{logger, q, archive}
}

func (ac *archiveConsumer) Consume(ctx context.Context, qids ...string) error {
	var order ArchivedOrder
	var err error
	var qid string
	for {
		qid, order, err = ac.queue.Pop(ctx, qids...)
		if err != nil && ctx.Err() != nil {
			ac.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			ac.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if qid != ArchiveQueue {
			ac.logger.Warn("consumer: received order on unknown queue id", zap.String("qid", qid))
			continue
		}

		if err = ac.archive.Archive(ctx, order); err != nil {
			ac.logger.Error("consumer: failed to archive order",
				zap.String("order.id", order.ID),
				zap.Error(err),
			)
		}
	}
}
