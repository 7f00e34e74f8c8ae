package model

import (
	"time"

	"gorm.io/gorm"
)

type Role struct {
	gorm.Model
	RoleName string `json:"role_name" gorm:"unique"`
	Users    []User `gorm:"foreignKey:RoleID"`
}

type User struct {
	gorm.Model
	Username   string `gorm:"unique" json:"username"`
	Password   string `json:"-"`
	Name       string `json:"name"`
	Email      string `gorm:"unique" json:"email"`
	Phone      string `json:"phone"`
	EmpID      string `json:"emp_id"`
	Department string `json:"department"`
	RoleID     uint   `json:"role_id"`
	Role       Role   `gorm:"foreignKey:RoleID"`

	IsFirstLogin bool `json:"is_first_login" gorm:"default:true"`

	DeviceTokens []DeviceToken `gorm:"foreignKey:UserID"`
}

type Intern struct {
	gorm.Model
	InternID   string `gorm:"unique" json:"intern_id"`
	UserID     *uint  `json:"user_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Institute  string `json:"institute"`
	Course     string `json:"course"`
	Semester   string `json:"semester"`
	RollNumber string `json:"roll_number"`
	Department string `json:"department"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Address   string    `json:"address"`

	Status InternStatus `json:"status" gorm:"default:SUBMITTED"`

	ReferredBy      string `json:"referred_by"`
	ReferredByEmpID string `json:"referred_by_emp_id"`

	// Logical paths returned by the upload handler, keyed by document name.
	Documents string `json:"documents" gorm:"type:text"`

	Assignments  []Assignment  `gorm:"foreignKey:InternID"`
	Applications []Application `gorm:"foreignKey:InternID"`
	Tasks        []Task        `gorm:"foreignKey:InternID"`
	Projects     []Project     `gorm:"foreignKey:InternID"`
	Feedback     []Feedback    `gorm:"foreignKey:InternID"`
	Meetings     []Meeting     `gorm:"foreignKey:InternID"`
}

type Mentor struct {
	gorm.Model
	EmpID      string `gorm:"unique" json:"emp_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Experience string `json:"experience"`

	MaxCapacity    int          `json:"max_capacity" gorm:"default:3"`
	CurrentInterns int          `json:"current_interns" gorm:"default:0"`
	Availability   Availability `json:"availability" gorm:"default:AVAILABLE"`

	Assignments []Assignment `gorm:"foreignKey:MentorID"`
	Tasks       []Task       `gorm:"foreignKey:MentorID"`
	Projects    []Project    `gorm:"foreignKey:MentorID"`
	Feedback    []Feedback   `gorm:"foreignKey:MentorID"`
	Meetings    []Meeting    `gorm:"foreignKey:MentorID"`
}

type Assignment struct {
	gorm.Model
	InternID   uint      `json:"intern_id"`
	MentorID   uint      `json:"mentor_id"`
	Department string    `json:"department"`
	AssignedAt time.Time `json:"assigned_at" gorm:"autoCreateTime"`
	IsActive   bool      `json:"is_active" gorm:"default:true"`

	Intern Intern `gorm:"foreignKey:InternID"`
	Mentor Mentor `gorm:"foreignKey:MentorID"`
}

type Application struct {
	gorm.Model
	InternID uint              `gorm:"unique" json:"intern_id"`
	Status   ApplicationStatus `json:"status" gorm:"default:SUBMITTED"`

	ReviewedBy  *uint  `json:"reviewed_by"`
	ReviewNotes string `json:"review_notes"`

	Intern   Intern `gorm:"foreignKey:InternID"`
	Reviewer *User  `gorm:"foreignKey:ReviewedBy"`
}

type Task struct {
	gorm.Model
	InternID    uint         `json:"intern_id"`
	MentorID    uint         `json:"mentor_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     time.Time    `json:"due_date"`
	Status      TaskStatus   `json:"status" gorm:"default:PENDING"`
	Priority    TaskPriority `json:"priority" gorm:"default:MEDIUM"`

	Intern Intern `gorm:"foreignKey:InternID"`
	Mentor Mentor `gorm:"foreignKey:MentorID"`
}

type Project struct {
	gorm.Model
	InternID    uint          `json:"intern_id"`
	MentorID    uint          `json:"mentor_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	FileURL     string        `json:"file_url"`
	Status      ProjectStatus `json:"status" gorm:"default:SUBMITTED"`
	Feedback    string        `json:"feedback"`
	Grade       string        `json:"grade"`
	SubmittedAt time.Time     `json:"submitted_at" gorm:"autoCreateTime"`
	ReviewedAt  *time.Time    `json:"reviewed_at"`

	Intern Intern `gorm:"foreignKey:InternID"`
	Mentor Mentor `gorm:"foreignKey:MentorID"`
}

type Feedback struct {
	gorm.Model
	InternID uint `json:"intern_id"`
	MentorID uint `json:"mentor_id"`

	Rating        int    `json:"rating"`
	Communication int    `json:"communication"`
	Technical     int    `json:"technical"`
	Teamwork      int    `json:"teamwork"`
	Initiative    int    `json:"initiative"`
	Comments      string `json:"comments"`

	Intern Intern `gorm:"foreignKey:InternID"`
	Mentor Mentor `gorm:"foreignKey:MentorID"`
}

type Meeting struct {
	gorm.Model
	InternID uint          `json:"intern_id"`
	MentorID uint          `json:"mentor_id"`
	Title    string        `json:"title"`
	Date     time.Time     `json:"date"`
	Time     string        `json:"time"`
	Type     MeetingType   `json:"type"`
	Status   MeetingStatus `json:"status" gorm:"default:SCHEDULED"`
	Agenda   string        `json:"agenda"`
	Notes    string        `json:"notes"`

	Intern Intern `gorm:"foreignKey:InternID"`
	Mentor Mentor `gorm:"foreignKey:MentorID"`
}

type DeviceToken struct {
	gorm.Model
	UserID uint   `json:"user_id"`
	Token  string `gorm:"unique" json:"token"`
}
