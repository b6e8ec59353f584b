package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"councilboard/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CouncilService 管理学生会成员资料
type CouncilService struct {
	db *gorm.DB
}

func NewCouncilService(db *gorm.DB) *CouncilService {
	return &CouncilService{db: db}
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

func (s *CouncilService) List(ctx context.Context) ([]models.CouncilMember, error) {
	var members []models.CouncilMember
	if err := s.db.WithContext(ctx).Order("login ASC").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list council members: %w", err)
	}
	return members, nil
}

func (s *CouncilService) Get(ctx context.Context, login string) (*models.CouncilMember, error) {
	var m models.CouncilMember
	err := s.db.WithContext(ctx).Where("login = ?", normalizeLogin(login)).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTargetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get council member: %w", err)
	}
	return &m, nil
}

// Add 新增成员，login 重复时返回 ErrConflict
func (s *CouncilService) Add(ctx context.Context, m *models.CouncilMember) error {
	m.Login = normalizeLogin(m.Login)
	if m.Login == "" {
		return invalid("login", "login is required")
	}
	if len(m.Login) > 64 {
		return invalid("login", "login must be at most 64 characters")
	}
	if m.Email != "" && !strings.Contains(m.Email, "@") {
		return invalid("email", "email is invalid")
	}

	err := s.db.WithContext(ctx).Create(m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: council member %q already exists", ErrConflict, m.Login)
	}
	if err != nil {
		return fmt.Errorf("add council member: %w", err)
	}

	log.WithField("login", m.Login).Info("Council member added")
	return nil
}

func (s *CouncilService) Remove(ctx context.Context, login string) error {
	res := s.db.WithContext(ctx).Where("login = ?", normalizeLogin(login)).Delete(&models.CouncilMember{})
	if res.Error != nil {
		return fmt.Errorf("remove council member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTargetNotFound
	}
	log.WithField("login", login).Info("Council member removed")
	return nil
}
