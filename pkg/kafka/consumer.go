package kafka

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"FinBeta/pkg/logger"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(ctx context.Context, key, value []byte) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ctxKey string

// CtxTraceID carries the trace_id header of the message being handled.
const CtxTraceID ctxKey = "kafka_trace_id"

// TraceID returns the trace id stored by the consumer, if any.
func TraceID(ctx context.Context) string {
	s, _ := ctx.Value(CtxTraceID).(string)
	return s
}

// Consumer feeds one topic into a handler through a worker pool. Offsets are
// committed after success, or after the message was parked on the DLQ.
type Consumer struct {
	cfg     *ConsumerConfig
	handler MessageHandler
	reader  messageReader
	dlq     messageWriter
	log     *logger.Logger
	metrics *clientMetrics
}

func NewConsumer(handler MessageHandler, log *logger.Logger, opts ...ConsumerOption) (*Consumer, error) {
	cfg := defaultConsumerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka: brokers are required")
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    handler.Topic(),
		GroupID:  cfg.GroupID,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	var dlq messageWriter
	if cfg.DLQTopic != "" {
		dlq = &kafka.Writer{Addr: kafka.TCP(cfg.Brokers...), Balancer: &kafka.LeastBytes{}, AllowAutoTopicCreation: true}
	}
	return newConsumer(cfg, handler, r, dlq, log), nil
}

func defaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		GroupID:    "finbeta",
		Workers:    1,
		RetryMax:   2,
		BackoffMin: 100 * time.Millisecond,
		BackoffMax: 2 * time.Second,
		MinBytes:   1,
		MaxBytes:   1 << 20,
	}
}

func newConsumer(cfg *ConsumerConfig, h MessageHandler, r messageReader, dlq messageWriter, log *logger.Logger) *Consumer {
	return &Consumer{cfg: cfg, handler: h, reader: r, dlq: dlq, log: log, metrics: sharedMetrics()}
}

// Run consumes until ctx is cancelled, then drains in-flight work and
// closes the reader.
func (c *Consumer) Run(ctx context.Context) error {
	topic := c.handler.Topic()
	jobs := make(chan kafka.Message, c.cfg.Workers)
	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range jobs {
				c.process(ctx, m)
			}
		}()
	}
	c.log.Info("kafka consumer started", logger.String("topic", topic), logger.Int("workers", c.cfg.Workers))

	var runErr error
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
				runErr = fmt.Errorf("kafka fetch %s: %w", topic, err)
			}
			break
		}
		select {
		case jobs <- m:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	close(jobs)
	wg.Wait()
	if err := c.reader.Close(); err != nil {
		c.log.Warn("kafka reader close", logger.Error(err))
	}
	if c.dlq != nil {
		_ = c.dlq.Close()
	}
	c.log.Info("kafka consumer stopped", logger.String("topic", topic))
	return runErr
}

func (c *Consumer) process(ctx context.Context, m kafka.Message) {
	start := time.Now()
	topic := c.handler.Topic()
	hctx := ctx
	if id := headerValue(m, "trace_id"); id != "" {
		hctx = context.WithValue(ctx, CtxTraceID, id)
	}

	var err error
	for attempt := 0; attempt <= c.cfg.RetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoffWithJitter(c.cfg.BackoffMin, c.cfg.BackoffMax, attempt)):
			case <-ctx.Done():
				return
			}
		}
		if err = c.safeHandle(hctx, m); err == nil {
			break
		}
		c.log.Warn("kafka handler failed",
			logger.String("topic", topic), logger.Int("attempt", attempt+1), logger.Error(err))
	}

	result := "ok"
	if err != nil {
		result = "failed"
		if c.dlq == nil {
			c.metrics.observeHandle(topic, result, time.Since(start))
			c.log.Error("kafka message dropped without commit", logger.String("topic", topic), logger.Error(err))
			return
		}
		result = "dlq"
		if derr := c.dlq.WriteMessages(ctx, kafka.Message{
			Topic:   c.cfg.DLQTopic,
			Key:     m.Key,
			Value:   m.Value,
			Headers: append(m.Headers, kafka.Header{Key: "error", Value: []byte(err.Error())}),
		}); derr != nil {
			c.log.Error("kafka dlq write failed", logger.String("topic", c.cfg.DLQTopic), logger.Error(derr))
			c.metrics.observeHandle(topic, "failed", time.Since(start))
			return
		}
	}
	c.metrics.observeHandle(topic, result, time.Since(start))

	cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.reader.CommitMessages(cctx, m); err != nil {
		c.log.Error("kafka commit failed", logger.String("topic", topic), logger.Int64("offset", m.Offset), logger.Error(err))
	}
}

func (c *Consumer) safeHandle(ctx context.Context, m kafka.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return c.handler.Handle(ctx, m.Key, m.Value)
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func backoffWithJitter(min, max time.Duration, attempt int) time.Duration {
	if min <= 0 {
		min = 50 * time.Millisecond
	}
	if max < min {
		max = min
	}
	d := min << uint(attempt-1)
	if d > max || d <= 0 {
		d = max
	}
	// up to 50% jitter
	return d - time.Duration(rand.Int63n(int64(d)/2+1))
}
