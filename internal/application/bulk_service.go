package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	"contentboost-shopify-layer/internal/infrastructure/pubsub"
	"contentboost-shopify-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBulkItems = 100

// BulkService runs durable bulk optimization tasks. Tasks are persisted
// before they are queued, so a crash leaves an inspectable record; a single
// background worker drains the queue sequentially to keep AI and Shopify
// rate limits manageable.
type BulkService struct {
	tasks    ports.TaskRepository
	catalog  *CatalogService
	optimize *OptimizeService
	pubsub   *pubsub.TaskPubSub
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	queue chan string
}

// NewBulkService creates a new bulk service.
func NewBulkService(
	tasks ports.TaskRepository,
	catalog *CatalogService,
	optimize *OptimizeService,
	ps *pubsub.TaskPubSub,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *BulkService {
	return &BulkService{
		tasks:    tasks,
		catalog:  catalog,
		optimize: optimize,
		pubsub:   ps,
		metrics:  m,
		logger:   logger,
		queue:    make(chan string, 64),
	}
}

// Start launches the background worker. It runs until ctx is cancelled.
func (s *BulkService) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case taskID := <-s.queue:
				s.run(ctx, taskID)
			}
		}
	}()
}

// Enqueue validates and persists a new bulk task, then hands it to the
// worker. The returned task is in the queued state.
func (s *BulkService) Enqueue(ctx context.Context, shop string, taskType domain.TaskType, provider string, itemIDs []int64) (*domain.Task, error) {
	switch taskType {
	case domain.TaskOptimizeTitle, domain.TaskOptimizeDescription, domain.TaskOptimizeImageAlt:
	default:
		return nil, fmt.Errorf("%w: unknown task type %q", domain.ErrValidation, taskType)
	}
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: item_ids is required", domain.ErrValidation)
	}
	if len(itemIDs) > maxBulkItems {
		return nil, fmt.Errorf("%w: at most %d items per task", domain.ErrValidation, maxBulkItems)
	}
	if _, err := s.optimize.providers.Get(provider); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	task := &domain.Task{
		ID:        uuid.New().String(),
		Shop:      shop,
		Type:      taskType,
		Provider:  provider,
		ItemIDs:   itemIDs,
		State:     domain.TaskQueued,
		CreatedAt: time.Now(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.metrics.TasksByState.WithLabelValues(string(domain.TaskQueued)).Inc()

	select {
	case s.queue <- task.ID:
	default:
		// Queue full. The task stays persisted as queued; it will not run
		// until the service restarts and requeues pending tasks.
		s.logger.Warn().Str("task_id", task.ID).Msg("Bulk queue full, task deferred")
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("shop", shop).
		Str("type", string(taskType)).
		Int("items", len(itemIDs)).
		Msg("Bulk task enqueued")

	return task, nil
}

// RequeuePending pushes tasks left queued or running by a previous process
// back onto the queue. Called once at startup.
func (s *BulkService) RequeuePending(ctx context.Context, shops []string) {
	for _, shop := range shops {
		tasks, err := s.tasks.ListByShop(ctx, shop)
		if err != nil {
			s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to list tasks for requeue")
			continue
		}
		for _, task := range tasks {
			if task.State != domain.TaskQueued && task.State != domain.TaskRunning {
				continue
			}
			select {
			case s.queue <- task.ID:
				s.logger.Info().Str("task_id", task.ID).Msg("Requeued pending bulk task")
			default:
				return
			}
		}
	}
}

// GetTask returns a task by ID, scoped to the shop.
func (s *BulkService) GetTask(ctx context.Context, shop, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task == nil || task.Shop != shop {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, taskID)
	}
	return task, nil
}

// ListTasks returns all tasks for a shop.
func (s *BulkService) ListTasks(ctx context.Context, shop string) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByShop(ctx, shop)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Subscribe returns a progress event channel for a task.
func (s *BulkService) Subscribe(ctx context.Context, shop, taskID string) *pubsub.TaskEventChannel {
	return s.pubsub.Subscribe(ctx, &pubsub.TaskEventFilter{TaskID: taskID, Shop: shop})
}

func (s *BulkService) transition(ctx context.Context, task *domain.Task, from, to domain.TaskState) {
	task.State = to
	if err := s.tasks.Update(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("task_id", task.ID).Msg("Failed to persist task state")
	}
	s.metrics.TasksByState.WithLabelValues(string(from)).Dec()
	s.metrics.TasksByState.WithLabelValues(string(to)).Inc()
}

// run executes one task to completion. Item failures are counted, not fatal;
// the task only fails outright when the shop's credential is gone.
func (s *BulkService) run(ctx context.Context, taskID string) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil || task == nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("Failed to load queued task")
		return
	}
	if task.State != domain.TaskQueued && task.State != domain.TaskRunning {
		return
	}

	task.StartedAt = time.Now()
	task.Processed = 0
	task.Failures = 0
	s.transition(ctx, task, task.State, domain.TaskRunning)
	s.publish(task, 0, "")

	for _, itemID := range task.ItemIDs {
		if ctx.Err() != nil {
			return
		}

		if err := s.processItem(ctx, task, itemID); err != nil {
			var reinstall *domain.ReinstallRequiredError
			if errors.As(err, &reinstall) {
				task.Error = fmt.Sprintf("shop credential revoked after %d items", task.Processed)
				task.CompletedAt = time.Now()
				s.transition(ctx, task, domain.TaskRunning, domain.TaskFailed)
				s.publish(task, itemID, task.Error)
				return
			}
			task.Failures++
			s.logger.Warn().Err(err).
				Str("task_id", task.ID).
				Int64("item_id", itemID).
				Msg("Bulk item failed")
		}

		task.Processed++
		if err := s.tasks.Update(ctx, task); err != nil {
			s.logger.Error().Err(err).Str("task_id", task.ID).Msg("Failed to persist task progress")
		}
		s.publish(task, itemID, "")
	}

	task.CompletedAt = time.Now()
	s.transition(ctx, task, domain.TaskRunning, domain.TaskCompleted)
	s.publish(task, 0, "")

	s.logger.Info().
		Str("task_id", task.ID).
		Int("processed", task.Processed).
		Int("failures", task.Failures).
		Dur("duration", task.CompletedAt.Sub(task.StartedAt)).
		Msg("Bulk task completed")
}

// processItem optimizes one catalog item. Title and description rewrites are
// applied back to Shopify; alt-text generation is suggestion-only because the
// image update endpoint is per-image and left to the interactive flow.
func (s *BulkService) processItem(ctx context.Context, task *domain.Task, itemID int64) error {
	product, err := s.catalog.GetProduct(ctx, task.Shop, itemID)
	if err != nil {
		return err
	}
	content := ContentFromProduct(product)

	switch task.Type {
	case domain.TaskOptimizeTitle:
		result, err := s.optimize.OptimizeTitle(ctx, task.Provider, content)
		if err != nil {
			return err
		}
		if result.After.TotalScore < result.Before.TotalScore {
			return fmt.Errorf("generated title scored lower (%d < %d), skipping",
				result.After.TotalScore, result.Before.TotalScore)
		}
		_, err = s.catalog.UpdateProduct(ctx, task.Shop, itemID, ContentUpdate{Title: &result.Generated})
		return err

	case domain.TaskOptimizeDescription:
		result, err := s.optimize.OptimizeDescription(ctx, task.Provider, content)
		if err != nil {
			return err
		}
		if result.After.TotalScore < result.Before.TotalScore {
			return fmt.Errorf("generated description scored lower (%d < %d), skipping",
				result.After.TotalScore, result.Before.TotalScore)
		}
		_, err = s.catalog.UpdateProduct(ctx, task.Shop, itemID, ContentUpdate{BodyHTML: &result.Generated})
		return err

	case domain.TaskOptimizeImageAlt:
		_, err := s.optimize.OptimizeImageAlt(ctx, task.Provider, content)
		return err

	default:
		return fmt.Errorf("unknown task type %q", task.Type)
	}
}

func (s *BulkService) publish(task *domain.Task, itemID int64, message string) {
	s.pubsub.Publish(&domain.TaskEvent{
		TaskID:    task.ID,
		Shop:      task.Shop,
		State:     task.State,
		Processed: task.Processed,
		Total:     len(task.ItemIDs),
		ItemID:    itemID,
		Message:   message,
	})
}
