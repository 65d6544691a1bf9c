package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"FinBeta/internal/domain/models"
	domrepo "FinBeta/internal/domain/repository"
	pkgkafka "FinBeta/pkg/kafka"
	"FinBeta/pkg/logger"
)

// KafkaEstimateHandler answers estimation requests read from Kafka. Every
// decodable message gets exactly one reply; estimation failures are part of
// the reply, only publish failures are returned for retry.
type KafkaEstimateHandler struct {
	topic     string
	uc        *EstimateUseCase
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	validate  *validator.Validate
	log       *logger.Logger
}

var _ pkgkafka.MessageHandler = (*KafkaEstimateHandler)(nil)

func NewKafkaEstimateHandler(topic string, uc *EstimateUseCase, publisher domrepo.Publisher, metrics domrepo.Metrics, log *logger.Logger) *KafkaEstimateHandler {
	return &KafkaEstimateHandler{
		topic:     topic,
		uc:        uc,
		publisher: publisher,
		metrics:   metrics,
		validate:  validator.New(),
		log:       log,
	}
}

func (h *KafkaEstimateHandler) Topic() string { return h.topic }

func (h *KafkaEstimateHandler) Handle(ctx context.Context, key, value []byte) error {
	var msg models.EstimateMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return fmt.Errorf("decode estimate message: %w", err)
	}
	if msg.RequestID == "" {
		msg.RequestID = string(key)
	}
	if msg.RequestID == "" {
		msg.RequestID = pkgkafka.TraceID(ctx)
	}

	reply := models.EstimateReply{RequestID: msg.RequestID}
	req, err := h.request(&msg.CAPMRequest)
	if err == nil {
		var res models.CAPMResult
		if res, err = h.uc.Estimate(ctx, req); err == nil {
			reply.Result = &res
		}
	}
	if err != nil {
		reply.Error = replyError(err)
	}

	if err := h.publisher.Publish(ctx, reply); err != nil {
		h.metrics.RecordError("reply_publish")
		return fmt.Errorf("publish reply %s: %w", msg.RequestID, err)
	}
	h.log.Debug("capm reply published", logger.String("request_id", msg.RequestID), logger.Bool("ok", reply.Error == nil))
	return nil
}

func (h *KafkaEstimateHandler) request(r *models.CAPMRequest) (models.EstimateRequest, error) {
	if err := defaults.Set(r); err != nil {
		return models.EstimateRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := h.validate.Struct(r); err != nil {
		return models.EstimateRequest{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return BuildRequest(*r)
}

func replyError(err error) *models.ReplyError {
	kind := models.KindOf(err)
	switch {
	case kind != "":
	case errors.Is(err, ErrInvalidRequest):
		kind = models.KindInvalidRequest
	default:
		kind = models.KindInternal
	}
	return &models.ReplyError{Kind: kind, Message: err.Error()}
}
