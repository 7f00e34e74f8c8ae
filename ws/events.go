package ws

// EventType identifies the kind of status change being broadcast.
type EventType string

const (
	EventApplicationStatus EventType = "APPLICATION_STATUS"
	EventProjectStatus     EventType = "PROJECT_STATUS"
	EventTaskStatus        EventType = "TASK_STATUS"
)

// StatusUpdate is the payload fanned out to subscriber rooms. UserID holds
// the subject identifier for the personal room: the numeric user id for
// application events, the intern id for project and task events.
type StatusUpdate struct {
	Type   EventType `json:"type"`
	ID     uint      `json:"id"`
	Status string    `json:"status"`
	UserID string    `json:"userId,omitempty"`
}

// Publisher delivers a status update to its subscriber rooms. Delivery is
// at-most-once per room and never blocks the caller; all state is also
// retrievable over the REST API, so a missed event is recoverable by pull.
type Publisher interface {
	Publish(update StatusUpdate)
}

// Room names.
const (
	RoomAdmins    = "role:ADMIN"
	RoomEmployees = "role:EMPLOYEE"
	RoomMentors   = "role:MENTOR"
	RoomInterns   = "role:INTERN"
)

func UserRoom(userID string) string     { return "user:" + userID }
func InternRoom(internID string) string { return "intern:" + internID }
func MentorRoom(empID string) string    { return "mentor:" + empID }

// Channels resolves the fixed routing table for an update. The table is not
// configurable.
func Channels(update StatusUpdate) []string {
	var rooms []string
	switch update.Type {
	case EventApplicationStatus:
		rooms = append(rooms, RoomAdmins, RoomEmployees)
		if update.UserID != "" {
			rooms = append(rooms, UserRoom(update.UserID))
		}
	case EventProjectStatus:
		rooms = append(rooms, RoomAdmins, RoomMentors)
		if update.UserID != "" {
			rooms = append(rooms, InternRoom(update.UserID))
		}
	case EventTaskStatus:
		rooms = append(rooms, RoomMentors, RoomAdmins)
		if update.UserID != "" {
			rooms = append(rooms, InternRoom(update.UserID))
		}
	}
	return rooms
}
