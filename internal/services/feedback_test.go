package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"councilboard/internal/identity"
	"councilboard/internal/models"
)

func TestUpvoteScenario(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)
	ctx := context.Background()

	steps := []struct {
		user    string
		upvotes int
	}{
		{"alice", 1}, {"alice", 0}, {"bob", 1}, {"alice", 2}, {"  bob ", 1},
	}
	for i, s := range steps {
		res, err := env.feedback.CastOrRetractUpvote(ctx, models.KindIssue, issue.ID, s.user)
		if err != nil {
			t.Fatalf("Step %d (%q): %v", i+1, s.user, err)
		}
		if res.Upvotes != s.upvotes {
			t.Errorf("Step %d (%q): expected %d upvotes, got %d", i+1, s.user, s.upvotes, res.Upvotes)
		}
	}

	var votes []models.Vote
	env.db.Find(&votes)
	for _, v := range votes {
		if v.Identity == "alice" || strings.Contains(v.Identity, "alice") || len(v.Identity) != 64 {
			t.Errorf("Stored identity leaks the username or has the wrong form: %q", v.Identity)
		}
	}
}

func TestUpvoteRequiresUsername(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)

	_, err := env.feedback.CastOrRetractUpvote(context.Background(), models.KindIssue, issue.ID, "   ")
	if !errors.Is(err, identity.ErrMissingIdentity) || !errors.Is(err, ErrValidation) {
		t.Errorf("Expected missing identity error, got %v", err)
	}
	if _, err := env.feedback.CastOrRetractUpvote(context.Background(), "poll", 1, "alice"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Expected ErrInvalidTarget, got %v", err)
	}
}

func TestPostCommentRateLimited(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)
	ctx := context.Background()

	in := CommentInput{Kind: models.KindIssue, TargetID: issue.ID, Username: "alice", Text: "me too"}
	for i := 0; i < 5; i++ {
		if _, err := env.feedback.PostComment(ctx, in); err != nil {
			t.Fatalf("Comment %d failed: %v", i+1, err)
		}
	}
	if _, err := env.feedback.PostComment(ctx, in); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Expected ErrRateLimited, got %v", err)
	}

	comments, err := env.feedback.ListComments(ctx, models.KindIssue, issue.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 5 {
		t.Errorf("Expected 5 stored comments, got %d", len(comments))
	}

	// 其他用户不受影响
	other := in
	other.Username = "bob"
	if _, err := env.feedback.PostComment(ctx, other); err != nil {
		t.Errorf("Expected bob to be admitted, got %v", err)
	}

	env.clock.Advance(time.Minute + time.Second)
	if _, err := env.feedback.PostComment(ctx, in); err != nil {
		t.Errorf("Expected admit after window, got %v", err)
	}
}

func TestPostCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)
	ctx := context.Background()

	cases := []string{"", "   ", "\n\t", strings.Repeat("x", MaxCommentLength+1)}
	for _, text := range cases {
		_, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindIssue, TargetID: issue.ID, Text: text})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Text of length %d: expected ErrValidation, got %v", len(text), err)
		}
	}

	var count int64
	env.db.Model(&models.Comment{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no comment rows, got %d", count)
	}

	if _, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindIssue, TargetID: 999, Text: "hi"}); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}
	if _, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindComment, TargetID: 1, Text: "hi"}); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Expected comments on comments to be rejected, got %v", err)
	}
}

func TestPostCommentKeepsTextAsSubmitted(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)
	ctx := context.Background()

	texts := []string{
		"if a<b then the heater is broken",
		"<please fix the wifi>",
		"use <stdio.h> in lab",
		"<b>agreed</b> & it's urgent",
	}
	for _, text := range texts {
		c, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindIssue, TargetID: issue.ID, Text: "  " + text + "\n"})
		if err != nil {
			t.Fatalf("PostComment(%q) failed: %v", text, err)
		}
		if c.Text != text {
			t.Errorf("Expected %q to be stored verbatim, got %q", text, c.Text)
		}
	}

	comments, _ := env.feedback.ListComments(ctx, models.KindIssue, issue.ID)
	if len(comments) != len(texts) || comments[2].Text != "use <stdio.h> in lab" {
		t.Errorf("Unexpected stored comments %+v", comments)
	}
}

func TestPostCommentArchivedIssue(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)
	ctx := context.Background()

	if err := env.issues.SetArchived(ctx, issue.ID, true); err != nil {
		t.Fatalf("SetArchived failed: %v", err)
	}
	_, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindIssue, TargetID: issue.ID, Text: "late"})
	if !errors.Is(err, ErrTargetArchived) {
		t.Errorf("Expected ErrTargetArchived, got %v", err)
	}
}

func TestAnnouncementCommentsNotRateLimited(t *testing.T) {
	env := newTestEnv(t)
	a := seedAnnouncement(t, env.db)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_, err := env.feedback.PostComment(ctx, CommentInput{Kind: models.KindAnnouncement, TargetID: a.ID, Username: "alice", Text: "thanks"})
		if err != nil {
			t.Fatalf("Comment %d failed: %v", i+1, err)
		}
	}
}

func TestCommentsListedInOrder(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		env.feedback.PostComment(ctx, CommentInput{Kind: models.KindIssue, TargetID: issue.ID, Text: text})
	}

	comments, _ := env.feedback.ListComments(ctx, models.KindIssue, issue.ID)
	if len(comments) != 3 || comments[0].Text != "first" || comments[2].Text != "third" {
		t.Errorf("Unexpected comment order: %+v", comments)
	}
}

func TestIssueCommentNotifies(t *testing.T) {
	env := newTestEnv(t)
	issue := seedIssue(t, env.db)

	_, err := env.feedback.PostComment(context.Background(), CommentInput{
		Kind: models.KindIssue, TargetID: issue.ID, Text: "we will look into it", Official: true,
	})
	if err != nil {
		t.Fatalf("PostComment failed: %v", err)
	}
	env.notifier.wait(t)

	msgs := env.notifier.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "student council") {
		t.Errorf("Unexpected notifications: %v", msgs)
	}
}
