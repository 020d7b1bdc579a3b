package domain

import "time"

// TaskState is the lifecycle state of a bulk optimization task.
type TaskState string

const (
	TaskQueued    TaskState = "queued"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
)

// TaskType identifies which content field a bulk task rewrites.
type TaskType string

const (
	TaskOptimizeTitle       TaskType = "title"
	TaskOptimizeDescription TaskType = "description"
	TaskOptimizeImageAlt    TaskType = "image_alt"
)

// Task is a durable bulk optimization job over a set of catalog items.
type Task struct {
	ID          string    `json:"id" bson:"_id"`
	Shop        string    `json:"shop" bson:"shop"`
	Type        TaskType  `json:"type" bson:"type"`
	Provider    string    `json:"provider" bson:"provider"`
	ItemIDs     []int64   `json:"item_ids" bson:"item_ids"`
	State       TaskState `json:"state" bson:"state"`
	Processed   int       `json:"processed" bson:"processed"`
	Failures    int       `json:"failures" bson:"failures"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	StartedAt   time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// TaskEvent is a progress notification published while a task runs.
type TaskEvent struct {
	TaskID    string    `json:"task_id"`
	Shop      string    `json:"shop"`
	State     TaskState `json:"state"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	ItemID    int64     `json:"item_id,omitempty"`
	Message   string    `json:"message,omitempty"`
}
