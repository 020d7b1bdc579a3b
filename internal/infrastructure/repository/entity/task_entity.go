package entity

import (
	"time"

	"contentboost-shopify-layer/internal/domain"
)

// MongoTaskDoc represents a bulk optimization task in MongoDB. Task IDs are
// UUIDs generated by the application, so they are stored as-is in _id.
type MongoTaskDoc struct {
	ID          string           `bson:"_id"`
	Shop        string           `bson:"shop"`
	Type        domain.TaskType  `bson:"type"`
	Provider    string           `bson:"provider"`
	ItemIDs     []int64          `bson:"itemIds"`
	State       domain.TaskState `bson:"state"`
	Processed   int              `bson:"processed"`
	Failures    int              `bson:"failures"`
	Error       string           `bson:"error,omitempty"`
	CreatedAt   time.Time        `bson:"createdAt"`
	StartedAt   time.Time        `bson:"startedAt,omitempty"`
	CompletedAt time.Time        `bson:"completedAt,omitempty"`
}

// ToDomain converts the MongoDB document to a domain entity.
func (d *MongoTaskDoc) ToDomain() *domain.Task {
	return &domain.Task{
		ID:          d.ID,
		Shop:        d.Shop,
		Type:        d.Type,
		Provider:    d.Provider,
		ItemIDs:     d.ItemIDs,
		State:       d.State,
		Processed:   d.Processed,
		Failures:    d.Failures,
		Error:       d.Error,
		CreatedAt:   d.CreatedAt,
		StartedAt:   d.StartedAt,
		CompletedAt: d.CompletedAt,
	}
}

// MongoTaskDocFromDomain converts a domain entity to a MongoDB document.
func MongoTaskDocFromDomain(task *domain.Task) *MongoTaskDoc {
	return &MongoTaskDoc{
		ID:          task.ID,
		Shop:        task.Shop,
		Type:        task.Type,
		Provider:    task.Provider,
		ItemIDs:     task.ItemIDs,
		State:       task.State,
		Processed:   task.Processed,
		Failures:    task.Failures,
		Error:       task.Error,
		CreatedAt:   task.CreatedAt,
		StartedAt:   task.StartedAt,
		CompletedAt: task.CompletedAt,
	}
}
