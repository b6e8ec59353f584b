package services

import (
	"context"
	"testing"

	"councilboard/internal/models"
)

func TestReconcileCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issue := seedIssue(t, env.db)
	a := seedAnnouncement(t, env.db)

	env.feedback.CastOrRetractUpvote(ctx, models.KindIssue, issue.ID, "alice")
	env.feedback.CastOrRetractUpvote(ctx, models.KindIssue, issue.ID, "bob")

	r := NewReconciler(env.db)
	if n, err := r.ReconcileCounters(ctx); err != nil || n != 0 {
		t.Fatalf("Expected nothing to repair, got n=%d err=%v", n, err)
	}

	// 模拟计数器漂移
	env.db.Model(&models.Issue{}).Where("id = ?", issue.ID).UpdateColumn("upvotes", 7)
	env.db.Model(&models.Announcement{}).Where("id = ?", a.ID).UpdateColumn("upvotes", 3)

	n, err := r.ReconcileCounters(ctx)
	if err != nil {
		t.Fatalf("ReconcileCounters failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 repaired rows, got %d", n)
	}

	var got models.Issue
	env.db.First(&got, issue.ID)
	if got.Upvotes != 2 {
		t.Errorf("Expected issue counter 2, got %d", got.Upvotes)
	}
	var ann models.Announcement
	env.db.First(&ann, a.ID)
	if ann.Upvotes != 0 {
		t.Errorf("Expected announcement counter 0, got %d", ann.Upvotes)
	}
}
