package repository

import (
	"context"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
)

type topicProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaReplyPublisher writes estimation replies keyed by request id.
type KafkaReplyPublisher struct {
	producer topicProducer
	topic    string
}

var _ domrepo.Publisher = (*KafkaReplyPublisher)(nil)

func NewKafkaReplyPublisher(p topicProducer, topic string) *KafkaReplyPublisher {
	return &KafkaReplyPublisher{producer: p, topic: topic}
}

func (k *KafkaReplyPublisher) Publish(ctx context.Context, reply models.EstimateReply) error {
	return k.producer.Publish(ctx, k.topic, []byte(reply.RequestID), reply)
}

func (k *KafkaReplyPublisher) Close() error { return k.producer.Close() }
