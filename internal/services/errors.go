package services

import (
	"errors"
	"fmt"

	"councilboard/internal/identity"
)

// 通用错误，handler 通过 errors.Is 映射为 HTTP 状态码
var (
	// ErrValidation：缺少必填字段或字段不合法
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTarget：未注册的目标类型，或该类型不支持此操作
	ErrInvalidTarget = errors.New("invalid target kind")
	// ErrTargetNotFound：目标 id 不存在
	ErrTargetNotFound = errors.New("target not found")
	// ErrConflict：并发冲突或唯一约束冲突
	ErrConflict = errors.New("conflict, please retry")
	// ErrRateLimited：评论过于频繁
	ErrRateLimited = errors.New("you tried to post too many comments, please try again later")
	// ErrTargetArchived：已归档的议题不能再评论
	ErrTargetArchived = errors.New("archived issues cannot be commented")
)

// ValidationError carries the offending field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// missingIdentity matches both ErrValidation and identity.ErrMissingIdentity.
func missingIdentity() error {
	return fmt.Errorf("%w: %w", ErrValidation, identity.ErrMissingIdentity)
}
