package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-symptomcheck-be/internal/pkg/logger"
	"ai-symptomcheck-be/pkg/events"
	natsbus "ai-symptomcheck-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ITraceConsumerService interface {
	Consume(ctx context.Context) error
}

// traceConsumerService drains the in-process trace topic: every finalized
// request is written to the dedicated trace log and, when NATS is
// configured, republished for external analytics.
type traceConsumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	traceLogger logger.ILogger
	natsPub     *natsbus.Publisher // nil when NATS is not configured
}

func NewTraceConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	traceLogger logger.ILogger,
	natsPub *natsbus.Publisher,
) ITraceConsumerService {
	return &traceConsumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		traceLogger: traceLogger,
		natsPub:     natsPub,
	}
}

func (cs *traceConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *traceConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload map[string]interface{}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal trace message: %v", err)
		msg.Ack() // malformed traces are dropped, never retried
		return
	}

	cs.traceLogger.Info("trace", "request finalized", payload)

	if cs.natsPub != nil {
		if err := cs.natsPub.Publish(ctx, events.NewRequestTrace(payload)); err != nil {
			// Local trace log already has the record; NATS delivery is
			// best effort.
			log.Printf("[WARN] Failed to republish trace to NATS: %v", err)
		}
	}

	msg.Ack()
}
