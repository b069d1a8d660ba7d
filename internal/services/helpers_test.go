package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/solayof/school-inventory-backend/internal/domain"
	"github.com/solayof/school-inventory-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Single connection so PRAGMA state applies to every statement.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedWorld creates one category, one available item, and one collector.
func seedWorld(t *testing.T, db *gorm.DB) (item *domain.Item, col *domain.Collector) {
	t.Helper()
	ctx := context.Background()
	cat, err := repo.CreateCategory(ctx, db, "Laboratory", "")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	item, err = repo.CreateItem(ctx, db, "Microscope", "optical", "SN-001", cat.ID)
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}
	col, err = repo.CreateCollector(ctx, db, "Ada Lovelace", "room 4", "ada@example.com")
	if err != nil {
		t.Fatalf("seed collector: %v", err)
	}
	return item, col
}

func day(s string) time.Time {
	v, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return v
}

// pinClock fixes the package clock for the duration of a test.
func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

// ----- Fake mailer -----

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent    []sentMail
	failFor map[string]error // keyed by recipient; nil entry means succeed
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if err, ok := m.failFor[to]; ok && err != nil {
		return err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}
