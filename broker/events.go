package broker

type EventType string

const (
	// Standardized event types in format: <resource>.<action>
	TaskCreated       EventType = "task.created"
	TaskUpdated       EventType = "task.updated"
	TaskDeleted       EventType = "task.deleted"
	TaskStatusChanged EventType = "task.status_changed"

	AssignmentCreated   EventType = "assignment.created"
	AssignmentUpdated   EventType = "assignment.updated"
	AssignmentCompleted EventType = "assignment.completed"
	AssignmentCancelled EventType = "assignment.cancelled"

	UserCreated EventType = "user.created"
)
