// Package repository is the storage collaborator of the voting and commenting core.
package repository

import (
	"context"
	"errors"
	"fmt"

	"councilboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrVoteExists  = errors.New("vote already exists")
	ErrUnknownKind = errors.New("unknown target kind")
)

// TargetStore is everything the voting/commenting core needs from storage.
type TargetStore interface {
	GetTarget(ctx context.Context, kind models.TargetKind, id uint) (*models.Target, error)
	EnsureIdentity(ctx context.Context, identity string) error
	// CreateVote returns ErrVoteExists when the unique (target, identity) index rejects the row.
	CreateVote(ctx context.Context, kind models.TargetKind, id uint, identity string) error
	DeleteVote(ctx context.Context, kind models.TargetKind, id uint, identity string) (int64, error)
	// IncrementCounter applies upvotes = upvotes + delta and returns the new value.
	IncrementCounter(ctx context.Context, kind models.TargetKind, id uint, delta int) (int, error)
	CountVotes(ctx context.Context, kind models.TargetKind, id uint) (int64, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, kind models.TargetKind, id uint) ([]models.Comment, error)
	// Transaction runs fn against a store bound to a single database transaction.
	Transaction(ctx context.Context, fn func(store TargetStore) error) error
}

// GormStore implements TargetStore on gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func tableFor(kind models.TargetKind) (models.TargetSpec, error) {
	spec, ok := models.LookupTarget(kind)
	if !ok {
		return models.TargetSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return spec, nil
}

func (s *GormStore) GetTarget(ctx context.Context, kind models.TargetKind, id uint) (*models.Target, error) {
	spec, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	cols := "id, upvotes"
	if spec.Archivable {
		cols += ", archived"
	}

	var row struct {
		ID       uint
		Upvotes  int
		Archived bool
	}
	res := s.db.WithContext(ctx).Table(spec.Table).Select(cols).Where("id = ?", id).Limit(1).Scan(&row)
	if res.Error != nil {
		return nil, fmt.Errorf("get %s %d: %w", kind, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return &models.Target{Kind: kind, ID: row.ID, Upvotes: row.Upvotes, Archived: row.Archived}, nil
}

func (s *GormStore) EnsureIdentity(ctx context.Context, identity string) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Identity{Hash: identity}).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("ensure identity: %w", err)
	}
	return nil
}

func (s *GormStore) CreateVote(ctx context.Context, kind models.TargetKind, id uint, identity string) error {
	vote := models.Vote{TargetType: kind, TargetID: id, Identity: identity}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrVoteExists
		}
		return fmt.Errorf("create vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVoteExists
	}
	return nil
}

func (s *GormStore) DeleteVote(ctx context.Context, kind models.TargetKind, id uint, identity string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND identity = ?", kind, id, identity).
		Delete(&models.Vote{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete vote: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) IncrementCounter(ctx context.Context, kind models.TargetKind, id uint, delta int) (int, error) {
	spec, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	tx := s.db.WithContext(ctx)
	res := tx.Table(spec.Table).Where("id = ?", id).
		UpdateColumn("upvotes", gorm.Expr("upvotes + ?", delta))
	if res.Error != nil {
		return 0, fmt.Errorf("update %s counter: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	var upvotes int
	if err := tx.Table(spec.Table).Select("upvotes").Where("id = ?", id).Row().Scan(&upvotes); err != nil {
		return 0, fmt.Errorf("read %s counter: %w", kind, err)
	}
	return upvotes, nil
}

func (s *GormStore) CountVotes(ctx context.Context, kind models.TargetKind, id uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ?", kind, id).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *GormStore) ListComments(ctx context.Context, kind models.TargetKind, id uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", kind, id).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(store TargetStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
