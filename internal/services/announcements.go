package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"councilboard/internal/models"

	"gorm.io/gorm"
)

const (
	AnnouncementTitleMax = 100
	AnnouncementTextMax  = 10000
)

type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

func (s *AnnouncementService) Create(ctx context.Context, title, text string) (*models.Announcement, error) {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" || utf8.RuneCountInString(title) > AnnouncementTitleMax {
		return nil, invalid("title", fmt.Sprintf("title must be 1-%d characters long", AnnouncementTitleMax))
	}
	if text == "" || utf8.RuneCountInString(text) > AnnouncementTextMax {
		return nil, invalid("text", fmt.Sprintf("text must be 1-%d characters long", AnnouncementTextMax))
	}

	a := models.Announcement{Title: title, Text: text}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	return &a, nil
}

// List returns announcements, newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	var list []models.Announcement
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return list, nil
}

func (s *AnnouncementService) Get(ctx context.Context, id uint) (*models.Announcement, error) {
	var a models.Announcement
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get announcement: %w", err)
	}
	return &a, nil
}
