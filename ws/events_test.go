package ws

import (
	"reflect"
	"testing"
)

func TestChannelsRoutingTable(t *testing.T) {
	tests := []struct {
		name   string
		update StatusUpdate
		want   []string
	}{
		{
			name:   "application status reaches admins, employees and the applicant",
			update: StatusUpdate{Type: EventApplicationStatus, ID: 7, Status: "APPROVED", UserID: "42"},
			want:   []string{RoomAdmins, RoomEmployees, "user:42"},
		},
		{
			name:   "application status without a linked user skips the personal room",
			update: StatusUpdate{Type: EventApplicationStatus, ID: 7, Status: "REJECTED"},
			want:   []string{RoomAdmins, RoomEmployees},
		},
		{
			name:   "project status reaches admins, mentors and the intern",
			update: StatusUpdate{Type: EventProjectStatus, ID: 3, Status: "APPROVED", UserID: "IOCL-000123"},
			want:   []string{RoomAdmins, RoomMentors, "intern:IOCL-000123"},
		},
		{
			name:   "task status reaches mentors, admins and the intern",
			update: StatusUpdate{Type: EventTaskStatus, ID: 9, Status: "IN_PROGRESS", UserID: "IOCL-000123"},
			want:   []string{RoomMentors, RoomAdmins, "intern:IOCL-000123"},
		},
		{
			name:   "unknown event type routes nowhere",
			update: StatusUpdate{Type: EventType("SOMETHING_ELSE"), ID: 1},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Channels(tt.update)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Channels(%+v) = %v, want %v", tt.update, got, tt.want)
			}
		})
	}
}

func TestPublishWithoutSubscribersIsSafe(t *testing.T) {
	hub := NewHub()
	hub.Publish(StatusUpdate{Type: EventProjectStatus, ID: 1, Status: "APPROVED", UserID: "IOCL-000001"})

	if size := hub.RoomSize(RoomAdmins); size != 0 {
		t.Errorf("room size = %d, want 0", size)
	}
}
