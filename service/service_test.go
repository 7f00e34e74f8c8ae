package service

import (
	"sync"
	"testing"
	"time"

	"internportal/model"
	"internportal/ws"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database migrated with the full schema. The
// pool is pinned to one connection so every session sees the same memory DB.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&model.Role{}, &model.User{}, &model.Intern{}, &model.Mentor{},
		&model.Assignment{}, &model.Application{}, &model.Task{},
		&model.Project{}, &model.Feedback{}, &model.Meeting{},
		&model.DeviceToken{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakePublisher records every update it is handed.
type fakePublisher struct {
	mu      sync.Mutex
	updates []ws.StatusUpdate
}

func (p *fakePublisher) Publish(update ws.StatusUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, update)
}

func (p *fakePublisher) all() []ws.StatusUpdate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ws.StatusUpdate(nil), p.updates...)
}

func seedIntern(t *testing.T, db *gorm.DB, internID string, status model.InternStatus) *model.Intern {
	t.Helper()
	intern := &model.Intern{
		InternID:   internID,
		Name:       "Test Intern " + internID,
		Email:      internID + "@example.com",
		Institute:  "Test Institute",
		Department: "IT",
		StartDate:  time.Now(),
		EndDate:    time.Now().AddDate(0, 2, 0),
		Status:     status,
	}
	if err := db.Create(intern).Error; err != nil {
		t.Fatalf("seed intern: %v", err)
	}
	return intern
}

func seedMentor(t *testing.T, db *gorm.DB, empID string, maxCapacity int) *model.Mentor {
	t.Helper()
	mentor := &model.Mentor{
		EmpID:        empID,
		Name:         "Test Mentor " + empID,
		Department:   "IT",
		Email:        empID + "@example.com",
		MaxCapacity:  maxCapacity,
		Availability: model.MentorAvailable,
	}
	if err := db.Create(mentor).Error; err != nil {
		t.Fatalf("seed mentor: %v", err)
	}
	return mentor
}

func getMentor(t *testing.T, db *gorm.DB, id uint) *model.Mentor {
	t.Helper()
	var mentor model.Mentor
	if err := db.First(&mentor, id).Error; err != nil {
		t.Fatalf("reload mentor: %v", err)
	}
	return &mentor
}

func getIntern(t *testing.T, db *gorm.DB, id uint) *model.Intern {
	t.Helper()
	var intern model.Intern
	if err := db.First(&intern, id).Error; err != nil {
		t.Fatalf("reload intern: %v", err)
	}
	return &intern
}

func wantCode(t *testing.T, err error, code Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !Is(err, code) {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}
