package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

type pinger interface {
	Ping(context.Context) error
}

type runner interface {
	Run(ctx context.Context) error
}

type ServiceParams struct {
	Logger               *logger.Logger
	DB                   pinger
	Redis                pinger
	PubSub               pinger
	NotificationConsumer runner
}

// Service hosts the order notification consumer once every dependency it
// writes through answers a ping.
type Service struct {
	logg                 *logger.Logger
	deps                 []namedPinger
	notificationConsumer runner
}

type namedPinger struct {
	name string
	pinger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Redis == nil {
		return nil, errors.New("redis client is required")
	}
	if params.PubSub == nil {
		return nil, errors.New("pubsub client is required")
	}
	if params.NotificationConsumer == nil {
		return nil, errors.New("notification consumer is required")
	}

	return &Service{
		logg: params.Logger,
		deps: []namedPinger{
			{name: "database", pinger: params.DB},
			{name: "redis", pinger: params.Redis},
			{name: "pubsub", pinger: params.PubSub},
		},
		notificationConsumer: params.NotificationConsumer,
	}, nil
}

func (s *Service) ensureReadiness(ctx context.Context) error {
	for _, dep := range s.deps {
		if err := dep.Ping(ctx); err != nil {
			s.logg.Error(ctx, fmt.Sprintf("%s ping failed", dep.name), err)
			return fmt.Errorf("%s ping failed: %w", dep.name, err)
		}
	}
	s.logg.Info(ctx, "all worker dependencies are ready")
	return nil
}

// Run blocks until the consumer stops. A canceled context is a clean stop.
func (s *Service) Run(ctx context.Context) error {
	if err := s.ensureReadiness(ctx); err != nil {
		return err
	}

	err := s.notificationConsumer.Run(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		s.logg.Info(ctx, "notification consumer stopped")
		return ctx.Err()
	default:
		s.logg.Error(ctx, "notification consumer stopped unexpectedly", err)
		return err
	}
}
