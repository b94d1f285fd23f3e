package service

import (
	"errors"
	"fmt"
)

// 错误定义
var (
	// ErrNumberExhausted 工单号重试5次仍冲突
	ErrNumberExhausted = errors.New("could not allocate job card number")
	// ErrInvalidCredentials 登录凭证错误（不区分账号不存在和密码错误）
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrUserDisabled 账号被停用
	ErrUserDisabled = errors.New("user is disabled")
)

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 校验失败，携带逐字段错误列表
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s %s", e.Fields[0].Field, e.Fields[0].Message)
}

// NewValidationError 构造单字段校验错误
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
