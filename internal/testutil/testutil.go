// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"councilboard/internal/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenTestDB returns a migrated sqlite database living in the test's temp dir.
// A single connection serialises writers the way row locks would in postgres.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), db.Config())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return conn
}

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
