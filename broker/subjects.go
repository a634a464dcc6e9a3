package broker

// NATS subjects, one stream of events per entity
const (
	TaskEventsSubject       = "staffdesk.events.task"
	AssignmentEventsSubject = "staffdesk.events.assignment"
	UserEventsSubject       = "staffdesk.events.user"
)

// SubjectForEntity maps an outbox entity name to its broker subject
func SubjectForEntity(entity string) string {
	switch entity {
	case "task":
		return TaskEventsSubject
	case "assignment":
		return AssignmentEventsSubject
	case "user":
		return UserEventsSubject
	default:
		return TaskEventsSubject
	}
}
