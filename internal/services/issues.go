package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"councilboard/internal/identity"
	"councilboard/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// 议题标题与描述长度限制
const (
	IssueTitleMin       = 5
	IssueTitleMax       = 50
	IssueDescriptionMin = 10
	IssueDescriptionMax = 5000
)

const (
	SortTop = "top"
	SortNew = "new"
)

// 提交议题默认限流：每人每分钟 2 条
const (
	DefaultIssueLimit  = 2
	DefaultIssueWindow = time.Minute
)

// creationWindowID 是“创建议题”窗口在限流器里的 id，真实议题 id 从 1 开始
const creationWindowID = 0

type IssueService struct {
	db       *gorm.DB
	hasher   *identity.Hasher
	limiter  *RateLimiter
	notifier Notifier
}

// NewIssueService builds the service. A nil limiter disables the creation throttle.
func NewIssueService(db *gorm.DB, hasher *identity.Hasher, limiter *RateLimiter, notifier Notifier) *IssueService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &IssueService{db: db, hasher: hasher, limiter: limiter, notifier: notifier}
}

// Create 匿名提交议题。username 可选，提供时按身份限流
func (s *IssueService) Create(ctx context.Context, title, description, username string) (*models.Issue, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(title); n < IssueTitleMin || n > IssueTitleMax {
		return nil, invalid("title", fmt.Sprintf("title must be %d-%d characters long", IssueTitleMin, IssueTitleMax))
	}
	if n := utf8.RuneCountInString(description); n < IssueDescriptionMin || n > IssueDescriptionMax {
		return nil, invalid("description", fmt.Sprintf("description must be %d-%d characters long", IssueDescriptionMin, IssueDescriptionMax))
	}

	if s.limiter != nil && strings.TrimSpace(username) != "" {
		ident, err := s.hasher.Hash(username)
		if err != nil {
			return nil, missingIdentity()
		}
		if err := s.limiter.Admit(ident, models.KindIssue, creationWindowID); err != nil {
			log.Info("Issue creation rate limited")
			return nil, err
		}
	}

	issue := models.Issue{Title: title, Description: description}
	if err := s.db.WithContext(ctx).Create(&issue).Error; err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	log.WithField("issue_id", issue.ID).Info("Issue created")
	notifyAsync(s.notifier, fmt.Sprintf("📝 New issue #%d: %s", issue.ID, issue.Title))

	return &issue, nil
}

// List 按热度或时间排序，默认不含已归档议题
func (s *IssueService) List(ctx context.Context, sort string, includeArchived bool) ([]models.Issue, error) {
	query := s.db.WithContext(ctx)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	switch sort {
	case SortNew:
		query = query.Order("created_at DESC, id DESC")
	default:
		query = query.Order("upvotes DESC, created_at DESC, id DESC")
	}

	var issues []models.Issue
	if err := query.Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// Get 返回议题及其评论（按时间正序）
func (s *IssueService) Get(ctx context.Context, id uint) (*models.Issue, error) {
	var issue models.Issue
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&issue, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return &issue, nil
}

// SetArchived archives or restores an issue.
func (s *IssueService) SetArchived(ctx context.Context, id uint, archived bool) error {
	res := s.db.WithContext(ctx).Model(&models.Issue{}).Where("id = ?", id).Update("archived", archived)
	if res.Error != nil {
		return fmt.Errorf("archive issue: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// 值未变化时 RowsAffected 也可能为 0，再确认一次是否存在
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Issue{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("archive issue: %w", err)
		}
		if count == 0 {
			return ErrTargetNotFound
		}
	}
	return nil
}
