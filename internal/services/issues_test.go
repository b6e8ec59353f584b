package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"councilboard/internal/models"

	"gorm.io/gorm"
)

func TestCreateIssueValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		title, description string
	}{
		{"abc", "long enough description"},
		{strings.Repeat("t", 51), "long enough description"},
		{"Valid title", "short"},
		{"      ", "long enough description"},
	}
	for _, c := range cases {
		if _, err := env.issues.Create(ctx, c.title, c.description, ""); !errors.Is(err, ErrValidation) {
			t.Errorf("Create(%q, %q): expected ErrValidation, got %v", c.title, c.description, err)
		}
	}

	issue, err := env.issues.Create(ctx, "  Longer breaks  ", "Ten minutes is not enough.", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if issue.Title != "Longer breaks" || issue.Upvotes != 0 || issue.Archived {
		t.Errorf("Unexpected issue %+v", issue)
	}
	env.notifier.wait(t)
}

func TestListIssues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, _ := env.issues.Create(ctx, "First issue", "Some description here", "")
	b, _ := env.issues.Create(ctx, "Second issue", "Some description here", "")
	c, _ := env.issues.Create(ctx, "Third issue", "Some description here", "")

	env.feedback.CastOrRetractUpvote(ctx, "issue", b.ID, "alice")
	env.feedback.CastOrRetractUpvote(ctx, "issue", b.ID, "bob")
	env.feedback.CastOrRetractUpvote(ctx, "issue", a.ID, "alice")
	env.issues.SetArchived(ctx, c.ID, true)

	top, err := env.issues.List(ctx, SortTop, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(top) != 2 || top[0].ID != b.ID || top[1].ID != a.ID {
		t.Errorf("Unexpected top order: %+v", top)
	}

	all, _ := env.issues.List(ctx, SortNew, true)
	if len(all) != 3 {
		t.Errorf("Expected archived issue to be included, got %d", len(all))
	}
}

func TestGetIssueWithComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	issue := seedIssue(t, env.db)

	env.feedback.PostComment(ctx, CommentInput{Kind: "issue", TargetID: issue.ID, Text: "one"})
	env.feedback.PostComment(ctx, CommentInput{Kind: "issue", TargetID: issue.ID, Text: "two"})

	got, err := env.issues.Get(ctx, issue.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Comments) != 2 || got.Comments[0].Text != "one" {
		t.Errorf("Unexpected comments: %+v", got.Comments)
	}

	if _, err := env.issues.Get(ctx, 999); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}
	if err := env.issues.SetArchived(ctx, 999, true); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound on archive, got %v", err)
	}
}

func TestCreateIssueKeepsTextAsSubmitted(t *testing.T) {
	env := newTestEnv(t)

	issue, err := env.issues.Create(context.Background(), "Fix <stdio.h> lab", "  Compiler says a<b is invalid  ", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if issue.Title != "Fix <stdio.h> lab" || issue.Description != "Compiler says a<b is invalid" {
		t.Errorf("Expected text kept verbatim, got %q / %q", issue.Title, issue.Description)
	}
	env.notifier.wait(t)
}

func TestCreateIssueRateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < DefaultIssueLimit; i++ {
		if _, err := env.issues.Create(ctx, "Water fountain", "The fountain on floor 2 is broken.", "alice"); err != nil {
			t.Fatalf("Issue %d failed: %v", i+1, err)
		}
	}
	if _, err := env.issues.Create(ctx, "Water fountain", "The fountain on floor 2 is broken.", " alice "); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}

	var count int64
	env.db.Model(&models.Issue{}).Count(&count)
	if count != DefaultIssueLimit {
		t.Errorf("Expected %d stored issues, got %d", DefaultIssueLimit, count)
	}

	// 其他人、匿名提交不受影响
	if _, err := env.issues.Create(ctx, "Water fountain", "The fountain on floor 2 is broken.", "bob"); err != nil {
		t.Errorf("Expected bob to be admitted, got %v", err)
	}
	if _, err := env.issues.Create(ctx, "Water fountain", "The fountain on floor 2 is broken.", ""); err != nil {
		t.Errorf("Expected anonymous submission to be admitted, got %v", err)
	}

	// 评论窗口与创建窗口互不影响
	if _, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindIssue, TargetID: 1, Username: "alice", Text: "+1"}); err != nil {
		t.Errorf("Expected comment to be admitted, got %v", err)
	}

	env.clock.Advance(DefaultIssueWindow + time.Second)
	if _, err := env.issues.Create(ctx, "Water fountain", "The fountain on floor 2 is broken.", "alice"); err != nil {
		t.Errorf("Expected admit after window, got %v", err)
	}
}

func TestSetArchivedSurfacesStoreErrors(t *testing.T) {
	env := newTestEnv(t)

	// 只让查询失败，UPDATE 正常执行且命中 0 行
	boom := errors.New("boom")
	err := env.db.Callback().Query().Before("gorm:query").Register("test:fail_query", func(tx *gorm.DB) {
		tx.AddError(boom)
	})
	if err != nil {
		t.Fatalf("Register callback failed: %v", err)
	}

	err = env.issues.SetArchived(context.Background(), 999, true)
	if !errors.Is(err, boom) {
		t.Fatalf("Expected store error to surface, got %v", err)
	}
	if errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Store failure must not be reported as not found")
	}
}
