package pubsub

import (
	"context"
	"fmt"
	"sync"

	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// TaskEventChannel represents a subscription channel
type TaskEventChannel struct {
	ID     string
	Filter *TaskEventFilter
	Events chan *domain.TaskEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// TaskEventFilter filters task progress events
type TaskEventFilter struct {
	TaskID string // Filter by task ID
	Shop   string // Filter by shop domain
}

// TaskPubSub manages bulk-task progress subscriptions
type TaskPubSub struct {
	mu       sync.RWMutex
	channels map[string]*TaskEventChannel
	logger   zerolog.Logger
	nextID   int64
	idMu     sync.Mutex
}

// NewTaskPubSub creates a new task progress pub/sub system
func NewTaskPubSub(logger zerolog.Logger) *TaskPubSub {
	return &TaskPubSub{
		channels: make(map[string]*TaskEventChannel),
		logger:   logger,
	}
}

// Subscribe creates a new subscription channel
func (ps *TaskPubSub) Subscribe(ctx context.Context, filter *TaskEventFilter) *TaskEventChannel {
	ps.idMu.Lock()
	id := ps.generateID()
	ps.idMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)

	channel := &TaskEventChannel{
		ID:     id,
		Filter: filter,
		Events: make(chan *domain.TaskEvent, 10), // Buffered channel
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[id] = channel
	ps.mu.Unlock()

	ps.logger.Info().
		Str("channelId", id).
		Interface("filter", filter).
		Msg("Task subscription created")

	// Cleanup when context is cancelled
	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(id)
	}()

	return channel
}

// Unsubscribe removes a subscription channel
func (ps *TaskPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Info().
		Str("channelId", channelID).
		Msg("Task subscription removed")
}

// Publish broadcasts a task event to all matching subscribers
func (ps *TaskPubSub) Publish(event *domain.TaskEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	publishedCount := 0
	for _, channel := range ps.channels {
		// Check if event matches filter
		if ps.matchesFilter(event, channel.Filter) {
			select {
			case channel.Events <- event:
				publishedCount++
			case <-channel.ctx.Done():
				// Channel is closed, skip
			default:
				// Channel buffer full, skip (non-blocking)
				ps.logger.Warn().
					Str("channelId", channel.ID).
					Msg("Channel buffer full, dropping event")
			}
		}
	}

	if publishedCount > 0 {
		ps.logger.Debug().
			Str("taskId", event.TaskID).
			Str("shop", event.Shop).
			Int("subscribers", publishedCount).
			Msg("Published task event to subscribers")
	}
}

// matchesFilter checks if an event matches the subscription filter
func (ps *TaskPubSub) matchesFilter(event *domain.TaskEvent, filter *TaskEventFilter) bool {
	if filter == nil {
		return true // No filter, match all
	}

	if filter.TaskID != "" && event.TaskID != filter.TaskID {
		return false
	}

	if filter.Shop != "" && event.Shop != filter.Shop {
		return false
	}

	return true
}

// generateID generates a unique channel ID
func (ps *TaskPubSub) generateID() string {
	ps.nextID++
	return fmt.Sprintf("channel-%d", ps.nextID)
}

// GetStats returns pub/sub statistics
func (ps *TaskPubSub) GetStats() map[string]interface{} {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return map[string]interface{}{
		"active_subscriptions": len(ps.channels),
	}
}
