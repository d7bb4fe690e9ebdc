package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-lms-api/internal/observability"
)

// Domain event types.
const (
	AssignmentCreated = "assignment.created"
	AssignmentUpdated = "assignment.updated"
	AssignmentDeleted = "assignment.deleted"
	ChapterCreated    = "chapter.created"
	ChapterCompleted  = "chapter.completed"
	SubmissionCreated = "submission.created"
	SubmissionGraded  = "submission.graded"
	GradeCreated      = "grade.created"
)

// Event describes a change to LMS data that other components may react to.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Grade      string    `json:"grade,omitempty"`
	EntityID   uint      `json:"entity_id,omitempty"`
	ActorID    uint      `json:"actor_id,omitempty"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Handler reacts to a delivered event.
type Handler func(ctx context.Context, event Event)

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Bus delivers events to in-process handlers and fans them out over Redis pub/sub
// and NATS so other instances can react. Either transport may be nil.
type Bus struct {
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	nodeID      string

	mu       sync.RWMutex
	handlers []Handler

	seenMu    sync.Mutex
	seen      map[string]struct{}
	seenOrder []string
}

// seenCapacity bounds how many remote event IDs are remembered for deduplication.
const seenCapacity = 4096

// NewBus constructs an event bus on the given channel name.
func NewBus(redisClient *redis.Client, natsConn *nats.Conn, channel string, logger zerolog.Logger) *Bus {
	return &Bus{
		redis:       redisClient,
		redisStream: channel,
		nats:        natsConn,
		natsSubject: strings.ReplaceAll(channel, ":", "."),
		logger:      logger.With().Str("component", "event_bus").Logger(),
		nodeID:      uuid.NewString(),
		seen:        make(map[string]struct{}),
	}
}

// Subscribe registers a handler for every event, local or remote.
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Publish dispatches the event locally and then to the configured transports.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	if event.Type == "" {
		return errors.New("event type is required")
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	event.Source = b.nodeID

	observability.DomainEventsPublished().WithLabelValues(event.Type).Inc()
	b.dispatch(ctx, event)

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if b.redis != nil && b.redisStream != "" {
		if err := b.redis.Publish(ctx, b.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if b.nats != nil && b.natsSubject != "" {
		if err := b.nats.Publish(b.natsSubject+"."+event.Type, payload); err != nil {
			return err
		}
	}

	return nil
}

// Start consumes events published by other instances until ctx is cancelled.
// Both transports are consumed when configured; an event arriving on both is
// dispatched once.
func (b *Bus) Start(ctx context.Context) {
	if b.redis != nil && b.redisStream != "" {
		go b.consumeRedis(ctx)
	}
	if b.nats != nil && b.natsSubject != "" {
		b.consumeNATS(ctx)
	}
}

func (b *Bus) consumeRedis(ctx context.Context) {
	pubsub := b.redis.Subscribe(ctx, b.redisStream)
	defer func() { _ = pubsub.Close() }()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			b.logger.Error().Err(err).Msg("event redis subscription closed")
			return
		}
		b.handlePayload(ctx, []byte(msg.Payload))
	}
}

func (b *Bus) consumeNATS(ctx context.Context) {
	sub, err := b.nats.Subscribe(b.natsSubject+".>", func(msg *nats.Msg) {
		b.handlePayload(ctx, msg.Data)
	})
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to subscribe to nats event subject")
		return
	}

	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			b.logger.Warn().Err(err).Msg("failed to drain event nats subscription")
		}
	}()
}

func (b *Bus) handlePayload(ctx context.Context, payload []byte) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		b.logger.Warn().Err(err).Msg("invalid event payload")
		return
	}

	if event.Source == b.nodeID || !b.markSeen(event.ID) {
		return
	}

	b.dispatch(ctx, event)
}

// markSeen reports whether id is new, evicting the oldest remembered id once
// the window is full. Events without an id are never deduplicated.
func (b *Bus) markSeen(id string) bool {
	if id == "" {
		return true
	}

	b.seenMu.Lock()
	defer b.seenMu.Unlock()

	if _, ok := b.seen[id]; ok {
		return false
	}
	if len(b.seenOrder) >= seenCapacity {
		delete(b.seen, b.seenOrder[0])
		b.seenOrder = b.seenOrder[1:]
	}
	b.seen[id] = struct{}{}
	b.seenOrder = append(b.seenOrder, id)
	return true
}

func (b *Bus) dispatch(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
}
