package realtime

import (
	"context"
	"encoding/json"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	pubsubpkg "github.com/stocktrail/stocktrail-backend/pkg/pubsub"
)

// Sink forwards stock events to the external Pub/Sub topic for downstream
// consumers. Like all fan-out, failures are logged and dropped.
type Sink struct {
	publisher *pubsub.Publisher
	logg      *logger.Logger
}

// NewSink builds a sink over the configured stock events publisher.
func NewSink(client *pubsubpkg.Client, logg *logger.Logger) *Sink {
	if client == nil {
		return nil
	}
	return &Sink{
		publisher: client.StockEventsPublisher(),
		logg:      logg,
	}
}

// Forward publishes the event and checks the server ack in the background.
func (s *Sink) Forward(ctx context.Context, event Event) {
	if s == nil || s.publisher == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logg.Error(ctx, "marshal sink event", err)
		return
	}

	result := s.publisher.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{"type": string(event.Type)},
	})
	go func() {
		if _, err := result.Get(context.WithoutCancel(ctx)); err != nil {
			s.logg.Error(ctx, "publish stock event", err)
		}
	}()
}
