package services

import (
	"context"
	"errors"
	"testing"

	"councilboard/internal/models"
	"councilboard/internal/testutil"
)

func TestCouncilMembers(t *testing.T) {
	svc := NewCouncilService(testutil.OpenTestDB(t))
	ctx := context.Background()

	m := &models.CouncilMember{Login: " JDoe ", FirstName: "Jane", LastName: "Doe", Role: "President"}
	if err := svc.Add(ctx, m); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if m.Login != "jdoe" {
		t.Errorf("Expected normalised login, got %q", m.Login)
	}

	if err := svc.Add(ctx, &models.CouncilMember{Login: "jdoe"}); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate login, got %v", err)
	}
	if err := svc.Add(ctx, &models.CouncilMember{Login: ""}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation on empty login, got %v", err)
	}

	got, err := svc.Get(ctx, "JDOE")
	if err != nil || got.FirstName != "Jane" {
		t.Fatalf("Get failed: %+v %v", got, err)
	}

	list, _ := svc.List(ctx)
	if len(list) != 1 {
		t.Errorf("Expected 1 member, got %d", len(list))
	}

	if err := svc.Remove(ctx, "jdoe"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, "jdoe"); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound, got %v", err)
	}
}
