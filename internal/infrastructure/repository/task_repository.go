package repository

import (
	"context"
	"fmt"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/repository/entity"
	"contentboost-shopify-layer/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository implements TaskRepository using MongoDB
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoTaskRepository creates a new MongoDB task repository
func NewMongoTaskRepository(db *mongo.Database) ports.TaskRepository {
	return &MongoTaskRepository{
		collection: db.Collection("optimization_tasks"),
	}
}

// Create inserts a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	doc := entity.MongoTaskDocFromDomain(task)

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// Update replaces the stored task state
func (r *MongoTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	doc := entity.MongoTaskDocFromDomain(task)

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task not found: %s", task.ID)
	}

	return nil
}

// GetByID retrieves a task by its ID
func (r *MongoTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var doc entity.MongoTaskDoc

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return doc.ToDomain(), nil
}

// ListByShop retrieves all tasks for a shop, newest first
func (r *MongoTaskRepository) ListByShop(ctx context.Context, shopDomain string) ([]*domain.Task, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"shop": shopDomain}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*domain.Task
	for cursor.Next(ctx) {
		var doc entity.MongoTaskDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return tasks, nil
}
