package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/f1-betting-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de domínio do betting-service.
// Writers separados porque cada tópico tem seu writer dedicado.
type KafkaPublisher struct {
	BetPlacedWriter    *kafka.Writer
	EventSettledWriter *kafka.Writer
}

func NewKafkaPublisher(betPlaced, eventSettled *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{BetPlacedWriter: betPlaced, EventSettledWriter: eventSettled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.BetPlacedWriter.WriteMessages(ctx, kafka.Message{Key: []byte(e.BetID), Value: b})
}

func (p *KafkaPublisher) PublishEventSettled(ctx context.Context, e events.EventSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, _ := json.Marshal(e)
	return p.EventSettledWriter.WriteMessages(ctx, kafka.Message{Value: b})
}
