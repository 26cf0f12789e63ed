package sse

import (
  "testing"

  "github.com/google/uuid"

  "github.com/chefboard/chefboard-backend/internal/logger"
)

func newTestHub(t *testing.T) *SSEHub {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger init failed: %v", err)
  }
  return NewSSEHub(log)
}

func TestBroadcast_DeliversToSubscribedChannel(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, UserChannel(client.UserID))

  hub.Broadcast(SSEMessage{
    Channel: UserChannel(client.UserID),
    Event:   SSEEventTemperatureViolation,
    Data:    map[string]string{"unit": "walk-in"},
  })

  select {
  case msg := <-client.Outbound:
    if msg.Event != SSEEventTemperatureViolation {
      t.Fatalf("unexpected event: %q", msg.Event)
    }
  default:
    t.Fatalf("expected a message on the outbound channel")
  }
}

func TestBroadcast_SkipsOtherChannels(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, "kitchen")

  hub.Broadcast(SSEMessage{Channel: "office", Event: SSEEventUserNameChanged})

  select {
  case msg := <-client.Outbound:
    t.Fatalf("unexpected delivery: %+v", msg)
  default:
  }
}

func TestBroadcast_EmptyChannelIsDropped(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, "")

  if len(client.Channels) != 0 {
    t.Fatalf("blank channel should not subscribe, got %v", client.Channels)
  }
  hub.Broadcast(SSEMessage{Channel: "", Event: SSEEventUserNameChanged})
}

func TestBroadcast_FullBufferDoesNotBlock(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, "kitchen")

  // One more than the outbound buffer; the overflow message is dropped.
  for i := 0; i < cap(client.Outbound)+1; i++ {
    hub.Broadcast(SSEMessage{Channel: "kitchen", Event: SSEEventRecipeImportProgress})
  }
  if got := len(client.Outbound); got != cap(client.Outbound) {
    t.Fatalf("expected a full buffer, got %d", got)
  }
}

func TestRemoveClient_UnsubscribesEverywhere(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, "kitchen")
  hub.AddChannel(client, UserChannel(client.UserID))

  hub.RemoveClient(client)

  hub.Broadcast(SSEMessage{Channel: "kitchen", Event: SSEEventUserNameChanged})
  select {
  case msg := <-client.Outbound:
    t.Fatalf("unexpected delivery after removal: %+v", msg)
  default:
  }
  if len(client.Channels) != 0 {
    t.Fatalf("expected channel set cleared, got %v", client.Channels)
  }
}

func TestRemoveChannel_KeepsOtherSubscriptions(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, "kitchen")
  hub.AddChannel(client, "office")

  hub.RemoveChannel(client, "kitchen")

  hub.Broadcast(SSEMessage{Channel: "kitchen", Event: SSEEventUserNameChanged})
  hub.Broadcast(SSEMessage{Channel: "office", Event: SSEEventUserNameChanged})

  if got := len(client.Outbound); got != 1 {
    t.Fatalf("expected exactly one delivery, got %d", got)
  }
}

func TestCloseClient_ClosesOutbound(t *testing.T) {
  hub := newTestHub(t)
  client := hub.NewSSEClient(uuid.New())
  hub.AddChannel(client, "kitchen")

  hub.CloseClient(client)

  if _, open := <-client.Outbound; open {
    t.Fatalf("expected outbound channel to be closed")
  }
}
