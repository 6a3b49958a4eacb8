package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	redispkg "github.com/stocktrail/stocktrail-backend/pkg/redis"
)

// bridgeTransport is the slice of the Redis client the bridge needs.
type bridgeTransport interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (*redis.PubSub, error)
}

// Bridge replicates hub events across instances through a Redis channel.
// Each instance tags outgoing envelopes with its own ID and ignores them
// on the way back in.
type Bridge struct {
	transport  bridgeTransport
	channel    string
	instanceID string
	logg       *logger.Logger
}

type bridgeEnvelope struct {
	Origin string   `json:"origin"`
	Groups []string `json:"groups"`
	Event  Event    `json:"event"`
}

// NewBridge builds a bridge publishing on the named channel.
func NewBridge(client *redispkg.Client, channel string, logg *logger.Logger) *Bridge {
	return &Bridge{
		transport:  client,
		channel:    channel,
		instanceID: uuid.NewString(),
		logg:       logg,
	}
}

// Forward publishes the event for other instances without blocking the
// caller. Failures are logged and dropped; local delivery already happened.
func (b *Bridge) Forward(ctx context.Context, groups []string, event Event) {
	if b == nil || b.transport == nil {
		return
	}

	payload, err := json.Marshal(bridgeEnvelope{
		Origin: b.instanceID,
		Groups: groups,
		Event:  event,
	})
	if err != nil {
		b.logg.Error(ctx, "marshal bridge envelope", err)
		return
	}

	// the movement is already committed, so outlive the request context
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := b.transport.Publish(ctx, b.channel, payload); err != nil {
			b.logg.Error(ctx, "publish bridge envelope", err)
		}
	}()
}

// Run subscribes to the bridge channel and replays remote events into the
// local hub until the context is canceled.
func (b *Bridge) Run(ctx context.Context, hub *Hub) error {
	if b == nil || b.transport == nil {
		return nil
	}

	sub, err := b.transport.Subscribe(ctx, b.channel)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Close() }()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var envelope bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				b.logg.Error(ctx, "decode bridge envelope", err)
				continue
			}
			if envelope.Origin == b.instanceID {
				continue
			}
			hub.Publish(ctx, envelope.Groups, envelope.Event)
		}
	}
}
