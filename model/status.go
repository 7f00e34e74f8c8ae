package model

// Role names as stored in the roles table.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
	RoleMentor   = "MENTOR"
	RoleIntern   = "INTERN"
)

type InternStatus string

const (
	InternSubmitted   InternStatus = "SUBMITTED"
	InternUnderReview InternStatus = "UNDER_REVIEW"
	InternApproved    InternStatus = "APPROVED"
	InternRejected    InternStatus = "REJECTED"
	InternActive      InternStatus = "ACTIVE"
	InternCompleted   InternStatus = "COMPLETED"
)

type ApplicationStatus string

const (
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationApproved    ApplicationStatus = "APPROVED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
)

type ProjectStatus string

const (
	ProjectSubmitted   ProjectStatus = "SUBMITTED"
	ProjectUnderReview ProjectStatus = "UNDER_REVIEW"
	ProjectApproved    ProjectStatus = "APPROVED"
	ProjectRejected    ProjectStatus = "REJECTED"
)

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

type Availability string

const (
	MentorAvailable   Availability = "AVAILABLE"
	MentorBusy        Availability = "BUSY"
	MentorUnavailable Availability = "UNAVAILABLE"
)

type MeetingType string

const (
	MeetingWeeklyReview      MeetingType = "WEEKLY_REVIEW"
	MeetingProjectDiscussion MeetingType = "PROJECT_DISCUSSION"
	MeetingFeedbackSession   MeetingType = "FEEDBACK_SESSION"
)

type MeetingStatus string

const (
	MeetingScheduled MeetingStatus = "SCHEDULED"
	MeetingCompleted MeetingStatus = "COMPLETED"
	MeetingCancelled MeetingStatus = "CANCELLED"
)

// applicationTransitions lists the legal next states per application status.
// Reviewers may skip UNDER_REVIEW and decide directly from SUBMITTED.
// APPROVED and REJECTED are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationSubmitted:   {ApplicationUnderReview, ApplicationApproved, ApplicationRejected},
	ApplicationUnderReview: {ApplicationApproved, ApplicationRejected},
	ApplicationApproved:    {},
	ApplicationRejected:    {},
}

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectSubmitted:   {ProjectUnderReview, ProjectApproved, ProjectRejected},
	ProjectUnderReview: {ProjectApproved, ProjectRejected},
	ProjectApproved:    {},
	ProjectRejected:    {},
}

var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskPending:    {TaskInProgress, TaskCompleted},
	TaskInProgress: {TaskPending, TaskCompleted},
	TaskCompleted:  {},
}

func (s ApplicationStatus) Valid() bool {
	_, ok := applicationTransitions[s]
	return ok
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the application has reached a final decision.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

func (s ProjectStatus) Valid() bool {
	_, ok := projectTransitions[s]
	return ok
}

func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	for _, allowed := range projectTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ProjectStatus) Terminal() bool {
	return s == ProjectApproved || s == ProjectRejected
}

func (s TaskStatus) Valid() bool {
	_, ok := taskTransitions[s]
	return ok
}

func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range taskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (p TaskPriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

func (a Availability) Valid() bool {
	return a == MentorAvailable || a == MentorBusy || a == MentorUnavailable
}
