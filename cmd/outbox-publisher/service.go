package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/registry"
)

const (
	defaultBatchSize      = 50
	defaultPollMs         = 500
	defaultPublishTimeout = 15 * time.Second
	defaultMaxAttempts    = 10
	maxBackoff            = 10 * time.Second
	jitterWindow          = 250 * time.Millisecond
)

type dbClient interface {
	Ping(context.Context) error
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type pubSubClient interface {
	Ping(context.Context) error
	Publisher(name string) *gcppubsub.Publisher
}

type outboxRepository interface {
	FetchUnpublishedForPublish(tx *gorm.DB, limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublishedTx(tx *gorm.DB, id uuid.UUID) error
	MarkFailedTx(tx *gorm.DB, id uuid.UUID, err error) error
	MarkTerminalTx(tx *gorm.DB, id uuid.UUID, err error, terminalAttempts int) error
}

type dlqRepository interface {
	InsertTx(tx *gorm.DB, entry models.OutboxDLQ) error
}

type registryResolver interface {
	Resolve(models.OutboxEvent) (*registry.ResolvedEvent, error)
}

type publisherFactory func(topic string) publisher

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// orderingResumer is implemented by publishers that pause an ordering key
// after a failed publish.
type orderingResumer interface {
	ResumePublish(key string)
}

type stopper interface {
	Stop()
}

type ServiceParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               dbClient
	PubSub           pubSubClient
	Repository       outboxRepository
	Registry         registryResolver
	PublisherFactory publisherFactory
	DLQRepository    dlqRepository
}

// Service drains the order outbox into Pub/Sub. Each batch is published
// concurrently and then settled row by row inside the claiming transaction.
type Service struct {
	logg         *logger.Logger
	db           dbClient
	repo         outboxRepository
	pubsub       pubSubClient
	registry     registryResolver
	dlq          dlqRepository
	newPublisher publisherFactory
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration

	mu         sync.Mutex
	publishers map[string]publisher
}

func NewService(params ServiceParams) (*Service, error) {
	switch {
	case params.Config == nil:
		return nil, errors.New("config is required")
	case params.Logger == nil:
		return nil, errors.New("logger is required")
	case params.DB == nil:
		return nil, errors.New("database client is required")
	case params.PubSub == nil:
		return nil, errors.New("pubsub client is required")
	case params.Repository == nil:
		return nil, errors.New("outbox repository is required")
	case params.Registry == nil:
		return nil, errors.New("event registry is required")
	case params.DLQRepository == nil:
		return nil, errors.New("dlq repository is required")
	}

	factory := params.PublisherFactory
	if factory == nil {
		factory = func(topic string) publisher {
			p := params.PubSub.Publisher(topic)
			if p == nil {
				return nil
			}
			p.EnableMessageOrdering = true
			return &gcpPublisher{Publisher: p}
		}
	}

	cfg := params.Config.Outbox
	return &Service{
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		pubsub:       params.PubSub,
		registry:     params.Registry,
		dlq:          params.DLQRepository,
		newPublisher: factory,
		batchSize:    positiveOr(cfg.BatchSize, defaultBatchSize),
		maxAttempts:  positiveOr(cfg.MaxAttempts, defaultMaxAttempts),
		pollInterval: time.Duration(positiveOr(cfg.PollIntervalMS, defaultPollMs)) * time.Millisecond,
		publishers:   map[string]publisher{},
	}, nil
}

func positiveOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

// Run polls the outbox until ctx ends. A failed batch backs off
// exponentially up to maxBackoff; an empty poll waits one interval.
func (s *Service) Run(ctx context.Context) error {
	defer s.stopPublishers()

	for name, ping := range map[string]func(context.Context) error{"database": s.db.Ping, "pubsub": s.pubsub.Ping} {
		if err := ping(ctx); err != nil {
			s.logg.Error(ctx, name+" ping failed", err)
			return fmt.Errorf("%s ping failed: %w", name, err)
		}
	}

	backoff := s.pollInterval
	for ctx.Err() == nil {
		processed, err := s.processBatch(ctx)
		var wait time.Duration
		switch {
		case err != nil:
			s.logg.Error(ctx, "outbox batch failed", err)
			backoff = nextBackoff(backoff, s.pollInterval, maxBackoff)
			wait = withJitter(backoff)
		case processed:
			backoff = s.pollInterval
			continue
		default:
			backoff = s.pollInterval
			wait = withJitter(s.pollInterval)
		}
		if err := sleep(ctx, wait); err != nil {
			break
		}
	}
	s.logg.Info(ctx, "outbox publisher stopping")
	return ctx.Err()
}

// inflight is one claimed row between publish and settle.
type inflight struct {
	event    models.OutboxEvent
	resolved *registry.ResolvedEvent
	pub      publisher
	result   publishResult
	fields   map[string]any
	err      error
}

func (s *Service) processBatch(ctx context.Context) (bool, error) {
	processed := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedForPublish(tx, s.batchSize, s.maxAttempts)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		processed = true

		publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
		defer cancel()

		batch := make([]*inflight, 0, len(events))
		for _, event := range events {
			batch = append(batch, s.dispatch(publishCtx, event))
		}
		for _, item := range batch {
			if err := s.settle(ctx, publishCtx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	return processed, err
}

// dispatch resolves the row and hands it to the topic publisher without
// waiting for the broker.
func (s *Service) dispatch(ctx context.Context, event models.OutboxEvent) *inflight {
	item := &inflight{event: event}
	resolved, err := s.registry.Resolve(event)
	if err != nil {
		item.err = err
		item.fields = s.eventFields(event, outbox.PayloadEnvelope{}, "")
		return item
	}
	item.resolved = resolved
	item.fields = s.eventFields(event, resolved.Envelope, resolved.Descriptor.Topic)

	item.pub = s.publisherFor(resolved.Descriptor.Topic)
	if item.pub == nil {
		item.err = registry.NewNonRetryableError(fmt.Errorf("publisher not configured for topic %s", resolved.Descriptor.Topic))
		return item
	}
	item.result = item.pub.Publish(ctx, orderMessage(event, resolved.Envelope))
	if item.result == nil {
		item.err = registry.NewNonRetryableError(fmt.Errorf("publisher returned nil for topic %s", resolved.Descriptor.Topic))
	}
	return item
}

func orderMessage(event models.OutboxEvent, envelope outbox.PayloadEnvelope) *gcppubsub.Message {
	return &gcppubsub.Message{
		Data:        event.Payload,
		OrderingKey: event.AggregateID,
		Attributes: map[string]string{
			"event_id":       envelope.EventID,
			"event_type":     string(event.EventType),
			"aggregate_type": string(event.AggregateType),
			"order_number":   event.AggregateID,
			"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		},
	}
}

// settle waits for the broker ack and records the row's outcome.
func (s *Service) settle(ctx, publishCtx context.Context, tx *gorm.DB, item *inflight) error {
	event := item.event
	switch {
	case item.resolved == nil:
		return s.deadLetter(ctx, tx, item, enums.OutboxDLQReasonUnroutable, item.err)
	case item.err != nil:
		return s.deadLetter(ctx, tx, item, enums.OutboxDLQReasonNonRetryable, item.err)
	}

	_, err := item.result.Get(publishCtx)
	if err == nil {
		if markErr := s.repo.MarkPublishedTx(tx, event.ID); markErr != nil {
			return fmt.Errorf("mark published %s: %w", event.ID, markErr)
		}
		s.logg.Info(s.logg.WithFields(ctx, item.fields), "outbox event published")
		return nil
	}

	if r, ok := item.pub.(orderingResumer); ok {
		r.ResumePublish(event.AggregateID)
	}
	var nonRetry registry.NonRetryableError
	if errors.As(err, &nonRetry) {
		return s.deadLetter(ctx, tx, item, enums.OutboxDLQReasonNonRetryable, err)
	}

	attempt := event.AttemptCount + 1
	item.fields["attempt_count"] = attempt
	if attempt >= s.maxAttempts {
		return s.deadLetter(ctx, tx, item, enums.OutboxDLQReasonMaxAttempts, fmt.Errorf("max publish attempts reached: %w", err))
	}

	s.logg.Warn(s.logg.WithField(s.logg.WithFields(ctx, item.fields), "error", err.Error()), "outbox publish failed")
	if markErr := s.repo.MarkFailedTx(tx, event.ID, err); markErr != nil {
		return fmt.Errorf("mark failure %s: %w", event.ID, markErr)
	}
	return nil
}

func (s *Service) deadLetter(ctx context.Context, tx *gorm.DB, item *inflight, reason enums.OutboxDLQErrorReason, cause error) error {
	event := item.event
	item.fields["error_reason"] = reason
	s.logg.Warn(s.logg.WithField(s.logg.WithFields(ctx, item.fields), "error", cause.Error()), "outbox event dead-lettered")

	msg := cause.Error()
	entry := models.OutboxDLQ{
		EventID:       event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		ErrorReason:   reason,
		ErrorMessage:  &msg,
		AttemptCount:  event.AttemptCount,
		FailedAt:      time.Now().UTC(),
	}
	if err := s.dlq.InsertTx(tx, entry); err != nil {
		return fmt.Errorf("insert dlq %s: %w", event.ID, err)
	}
	if err := s.repo.MarkTerminalTx(tx, event.ID, cause, s.maxAttempts); err != nil {
		return fmt.Errorf("mark terminal %s: %w", event.ID, err)
	}
	return nil
}

// publisherFor reuses one publisher per topic for the life of the service.
func (s *Service) publisherFor(topic string) publisher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.publishers[topic]; ok {
		return p
	}
	p := s.newPublisher(topic)
	if p != nil {
		s.publishers[topic] = p
	}
	return p
}

func (s *Service) stopPublishers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for topic, p := range s.publishers {
		if st, ok := p.(stopper); ok {
			st.Stop()
		}
		delete(s.publishers, topic)
	}
}

func (s *Service) eventFields(event models.OutboxEvent, envelope outbox.PayloadEnvelope, topic string) map[string]any {
	fields := map[string]any{
		"outbox_id":     event.ID.String(),
		"event_type":    event.EventType,
		"order_number":  event.AggregateID,
		"attempt_count": event.AttemptCount,
	}
	if envelope.EventID != "" {
		fields["event_id"] = envelope.EventID
	}
	if topic != "" {
		fields["topic"] = topic
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, ceiling time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	return min(current*2, ceiling)
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return d + rand.N(jitterWindow)
}

// gcpPublisher adapts *pubsub.Publisher to the publisher interface.
type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}
