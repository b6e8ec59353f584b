package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"councilboard/internal/identity"
	"councilboard/internal/models"
	"councilboard/internal/repository"

	log "github.com/sirupsen/logrus"
)

const MaxCommentLength = 5000

// CommentInput is a request to post a comment on a target.
type CommentInput struct {
	Kind     models.TargetKind
	TargetID uint
	Username string // optional; only used for rate limiting
	Text     string
	Official bool
}

// FeedbackService orchestrates upvotes and comments on votable targets.
type FeedbackService struct {
	store    repository.TargetStore
	hasher   *identity.Hasher
	ledger   *VoteLedger
	limiter  *RateLimiter
	notifier Notifier
}

func NewFeedbackService(store repository.TargetStore, hasher *identity.Hasher, ledger *VoteLedger, limiter *RateLimiter, notifier Notifier) *FeedbackService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &FeedbackService{
		store:    store,
		hasher:   hasher,
		ledger:   ledger,
		limiter:  limiter,
		notifier: notifier,
	}
}

// CastOrRetractUpvote toggles username's upvote on the target.
func (s *FeedbackService) CastOrRetractUpvote(ctx context.Context, kind models.TargetKind, id uint, username string) (VoteResult, error) {
	if spec, ok := models.LookupTarget(kind); !ok || !spec.Votable {
		return VoteResult{}, ErrInvalidTarget
	}

	ident, err := s.hasher.Hash(username)
	if err != nil {
		return VoteResult{}, missingIdentity()
	}

	return s.ledger.Toggle(ctx, kind, id, ident)
}

// PostComment validates, rate limits and stores a comment.
func (s *FeedbackService) PostComment(ctx context.Context, in CommentInput) (*models.Comment, error) {
	spec, ok := models.LookupTarget(in.Kind)
	if !ok || !spec.Commentable {
		return nil, ErrInvalidTarget
	}

	// 原样保存，只去掉首尾空白；转义交给输出端
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid("text", "comment text is required")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, invalid("text", fmt.Sprintf("comment must be at most %d characters", MaxCommentLength))
	}

	target, err := s.store.GetTarget(ctx, in.Kind, in.TargetID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if target.Archived {
		return nil, ErrTargetArchived
	}

	if spec.RateLimited && strings.TrimSpace(in.Username) != "" {
		ident, err := s.hasher.Hash(in.Username)
		if err != nil {
			return nil, missingIdentity()
		}
		if err := s.limiter.Admit(ident, in.Kind, in.TargetID); err != nil {
			log.WithFields(log.Fields{"kind": in.Kind, "id": in.TargetID}).Info("Comment rate limited")
			return nil, err
		}
	}

	comment := models.Comment{
		TargetType: in.Kind,
		TargetID:   in.TargetID,
		Text:       text,
		Official:   in.Official,
	}
	if err := s.store.CreateComment(ctx, &comment); err != nil {
		return nil, mapStoreError(err)
	}

	if in.Kind == models.KindIssue {
		title := "💬 New comment"
		if in.Official {
			title = "📣 New student council comment"
		}
		notifyAsync(s.notifier, fmt.Sprintf("%s on issue #%d:\n%s", title, in.TargetID, truncate(text, 300)))
	}

	return &comment, nil
}

// ListComments returns the target's comments, oldest first.
func (s *FeedbackService) ListComments(ctx context.Context, kind models.TargetKind, id uint) ([]models.Comment, error) {
	spec, ok := models.LookupTarget(kind)
	if !ok || !spec.Commentable {
		return nil, ErrInvalidTarget
	}
	if _, err := s.store.GetTarget(ctx, kind, id); err != nil {
		return nil, mapStoreError(err)
	}

	comments, err := s.store.ListComments(ctx, kind, id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return comments, nil
}
