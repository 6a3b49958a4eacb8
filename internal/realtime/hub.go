package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
)

const defaultSubscriberBuffer = 32

// Subscriber is one live listener. Events are delivered on the channel;
// a subscriber that stops draining gets events dropped, never a blocked hub.
type Subscriber struct {
	ID     string
	Groups []string
	Events chan Event
}

// Hub owns the named-group subscriber registry and fans committed events out
// to every member of the targeted groups.
type Hub struct {
	mu      sync.RWMutex
	groups  map[string]map[string]*Subscriber
	buffer  int
	metrics *metrics.MovementMetrics
	logg    *logger.Logger
}

// NewHub builds a hub whose subscriber channels hold up to buffer events.
func NewHub(buffer int, m *metrics.MovementMetrics, logg *logger.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		groups:  make(map[string]map[string]*Subscriber),
		buffer:  buffer,
		metrics: m,
		logg:    logg,
	}
}

// Join registers a subscriber in every named group and returns it. Unknown
// group names simply create the group.
func (h *Hub) Join(groups []string) *Subscriber {
	sub := &Subscriber{
		ID:     uuid.NewString(),
		Groups: append([]string{}, groups...),
		Events: make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, name := range sub.Groups {
		if h.groups[name] == nil {
			h.groups[name] = make(map[string]*Subscriber)
		}
		h.groups[name][sub.ID] = sub
	}
	return sub
}

// Leave removes the subscriber from all of its groups and closes its channel.
func (h *Hub) Leave(sub *Subscriber) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	removed := false
	for _, name := range sub.Groups {
		members, ok := h.groups[name]
		if !ok {
			continue
		}
		if _, ok := members[sub.ID]; ok {
			delete(members, sub.ID)
			removed = true
		}
		if len(members) == 0 {
			delete(h.groups, name)
		}
	}
	if removed {
		close(sub.Events)
	}
}

// Publish delivers the event to every subscriber of the targeted groups,
// at most once per subscriber. Full channels are skipped and counted.
// Delivery happens under the read lock so Leave cannot close a channel
// mid-send.
func (h *Hub) Publish(ctx context.Context, groups []string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, name := range groups {
		for id, sub := range h.groups[name] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			select {
			case sub.Events <- event:
				h.metrics.IncDelivered(string(event.Type))
			default:
				h.metrics.IncSkipped(string(event.Type))
				if h.logg != nil {
					h.logg.Warn(ctx, "dropping event for slow subscriber "+id)
				}
			}
		}
	}
}

// GroupSize reports the number of subscribers in a group.
func (h *Hub) GroupSize(name string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[name])
}

// SubscriberCount reports the number of distinct subscribers across groups.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, members := range h.groups {
		for id := range members {
			seen[id] = struct{}{}
		}
	}
	return len(seen)
}
