package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"councilboard/internal/identity"
	"councilboard/internal/models"
	"councilboard/internal/repository"
	"councilboard/internal/testutil"
	"councilboard/internal/utils"

	"gorm.io/gorm"
)

// recordingNotifier 记录所有通知，供测试断言
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
	sent chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{sent: make(chan struct{}, 64)}
}

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.mu.Lock()
	n.msgs = append(n.msgs, text)
	n.mu.Unlock()
	n.sent <- struct{}{}
	return nil
}

func (n *recordingNotifier) wait(t *testing.T) {
	t.Helper()
	select {
	case <-n.sent:
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for notification")
	}
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

type testEnv struct {
	db       *gorm.DB
	store    *repository.GormStore
	clock    *testutil.FakeClock
	notifier *recordingNotifier
	feedback *FeedbackService
	ledger   *VoteLedger
	issues   *IssueService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := testutil.OpenTestDB(t)
	clock := testutil.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	cache, err := utils.NewTTLCache(64, clock)
	if err != nil {
		t.Fatalf("NewTTLCache failed: %v", err)
	}

	store := repository.NewGormStore(conn)
	ledger := NewVoteLedger(store)
	notifier := newRecordingNotifier()
	hasher := identity.NewHasher("test-pepper")
	return &testEnv{
		db:       conn,
		store:    store,
		clock:    clock,
		notifier: notifier,
		ledger:   ledger,
		feedback: NewFeedbackService(store, hasher, ledger,
			NewRateLimiter(cache, clock, 5, time.Minute), notifier),
		issues: NewIssueService(conn, hasher,
			NewRateLimiter(cache, clock, DefaultIssueLimit, DefaultIssueWindow), notifier),
	}
}

func seedIssue(t *testing.T, conn *gorm.DB) *models.Issue {
	t.Helper()
	issue := models.Issue{Title: "Better cafeteria food", Description: "Please add vegetarian options."}
	if err := conn.Create(&issue).Error; err != nil {
		t.Fatalf("Failed to seed issue: %v", err)
	}
	return &issue
}

func seedAnnouncement(t *testing.T, conn *gorm.DB) *models.Announcement {
	t.Helper()
	a := models.Announcement{Title: "Spring elections", Text: "Voting opens Monday."}
	if err := conn.Create(&a).Error; err != nil {
		t.Fatalf("Failed to seed announcement: %v", err)
	}
	return &a
}
