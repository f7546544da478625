package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is a member of the status enum. This is the only
// validation applied to caller-supplied status values: the store accepts
// either direction, so a completed task can be reopened through the raw
// status endpoint.
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether p is a member of the priority enum.
func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// MaxAttachments is the number of document slots on a task. Slots for
// attachments that were not supplied or failed to upload hold nil.
const MaxAttachments = 3

// Task is the core aggregate. Every task is owned by exactly one assignee;
// updates never change ownership.
type Task struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description" bson:"description"`
	Status      TaskStatus   `json:"status" bson:"status"`
	Priority    TaskPriority `json:"priority" bson:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty" bson:"due_date,omitempty"`
	AssigneeID  string       `json:"assigned_to" bson:"assigned_to"`
	// Assignee is populated on reads from the user directory, never persisted
	// with the task document.
	Assignee    *User      `json:"assignee,omitempty" bson:"-"`
	Attachments []*string  `json:"attached_documents" bson:"attached_documents"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}
