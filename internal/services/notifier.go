package services

import (
  "context"

  "github.com/google/uuid"

  redisclient "github.com/chefboard/chefboard-backend/internal/clients/redis"
  "github.com/chefboard/chefboard-backend/internal/logger"
  "github.com/chefboard/chefboard-backend/internal/sse"
)

// Notifier pushes an event onto a user's SSE channel, both locally and over
// the Redis bus when one is configured.
type Notifier interface {
  NotifyUser(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any)
}

type notifier struct {
  log *logger.Logger
  hub *sse.SSEHub
  bus redisclient.SSEBus
}

func NewNotifier(log *logger.Logger, hub *sse.SSEHub, bus redisclient.SSEBus) Notifier {
  return &notifier{
    log: log.With("service", "Notifier"),
    hub: hub,
    bus: bus,
  }
}

func (n *notifier) NotifyUser(ctx context.Context, userID uuid.UUID, event sse.SSEEvent, data any) {
  msg := sse.SSEMessage{
    Channel: sse.UserChannel(userID),
    Event:   event,
    Data:    data,
  }
  n.hub.Broadcast(msg)
  if n.bus != nil {
    if err := n.bus.Publish(ctx, msg); err != nil {
      n.log.Warn("Failed to publish SSE message to bus", "error", err)
    }
  }
}
