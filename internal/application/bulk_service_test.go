package application

import (
	"context"
	"testing"
	"time"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	"contentboost-shopify-layer/internal/infrastructure/pubsub"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBulkFixture() (*BulkService, *fakeTaskRepo) {
	taskRepo := newFakeTaskRepo()
	optimize := newOptimizeService(&stubAIProvider{name: "openai", response: "generated"})
	bulk := NewBulkService(
		taskRepo,
		nil, // the catalog is only touched by the worker, not by Enqueue
		optimize,
		pubsub.NewTaskPubSub(zerolog.Nop()),
		metrics.New(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
	return bulk, taskRepo
}

func TestEnqueue_Validation(t *testing.T) {
	bulk, _ := newBulkFixture()
	ctx := context.Background()

	_, err := bulk.Enqueue(ctx, "demo.myshopify.com", "banner", "openai", []int64{1})
	assert.ErrorIs(t, err, domain.ErrValidation, "unknown task type")

	_, err = bulk.Enqueue(ctx, "demo.myshopify.com", domain.TaskOptimizeTitle, "openai", nil)
	assert.ErrorIs(t, err, domain.ErrValidation, "empty item list")

	tooMany := make([]int64, 101)
	_, err = bulk.Enqueue(ctx, "demo.myshopify.com", domain.TaskOptimizeTitle, "openai", tooMany)
	assert.ErrorIs(t, err, domain.ErrValidation, "too many items")

	_, err = bulk.Enqueue(ctx, "demo.myshopify.com", domain.TaskOptimizeTitle, "mistral", []int64{1})
	assert.ErrorIs(t, err, domain.ErrValidation, "unknown provider")
}

func TestEnqueue_PersistsQueuedTask(t *testing.T) {
	bulk, taskRepo := newBulkFixture()
	ctx := context.Background()

	task, err := bulk.Enqueue(ctx, "demo.myshopify.com", domain.TaskOptimizeTitle, "openai", []int64{10, 20})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskQueued, task.State)
	assert.WithinDuration(t, time.Now(), task.CreatedAt, time.Minute)

	stored, err := taskRepo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []int64{10, 20}, stored.ItemIDs)
	assert.Equal(t, "openai", stored.Provider)
}

func TestGetTask_ScopedToShop(t *testing.T) {
	bulk, _ := newBulkFixture()
	ctx := context.Background()

	task, err := bulk.Enqueue(ctx, "demo.myshopify.com", domain.TaskOptimizeTitle, "openai", []int64{1})
	require.NoError(t, err)

	got, err := bulk.GetTask(ctx, "demo.myshopify.com", task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Another shop cannot read the task.
	_, err = bulk.GetTask(ctx, "other.myshopify.com", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = bulk.GetTask(ctx, "demo.myshopify.com", "no-such-task")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTasks(t *testing.T) {
	bulk, _ := newBulkFixture()
	ctx := context.Background()

	_, err := bulk.Enqueue(ctx, "a.myshopify.com", domain.TaskOptimizeTitle, "openai", []int64{1})
	require.NoError(t, err)
	_, err = bulk.Enqueue(ctx, "a.myshopify.com", domain.TaskOptimizeDescription, "openai", []int64{2})
	require.NoError(t, err)
	_, err = bulk.Enqueue(ctx, "b.myshopify.com", domain.TaskOptimizeTitle, "openai", []int64{3})
	require.NoError(t, err)

	tasks, err := bulk.ListTasks(ctx, "a.myshopify.com")
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestSubscribe_ReceivesProgress(t *testing.T) {
	bulk, _ := newBulkFixture()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task, err := bulk.Enqueue(ctx, "demo.myshopify.com", domain.TaskOptimizeTitle, "openai", []int64{1})
	require.NoError(t, err)

	channel := bulk.Subscribe(ctx, "demo.myshopify.com", task.ID)
	bulk.publish(task, 1, "")

	select {
	case event := <-channel.Events:
		assert.Equal(t, task.ID, event.TaskID)
		assert.Equal(t, int64(1), event.ItemID)
	case <-time.After(time.Second):
		t.Fatal("expected a task event")
	}
}
