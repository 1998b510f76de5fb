package apperr

import (
	"errors"
	"fmt"

	"github.com/rotisserie/eris"
)

type Kind string

const (
	Kind_ConfigurationError     Kind = "configuration_error"      // 設定不一致，操作中止
	Kind_InvalidTransition      Kind = "invalid_transition"       // 非法狀態轉換，狀態不變
	Kind_DataIntegrityViolation Kind = "data_integrity_violation" // 資料完整性錯誤 (重複入座、派彩總額不符)
	Kind_StructureNotApplicable Kind = "structure_not_applicable" // 派彩結構不適用 (人數不足)
	Kind_NotFound               Kind = "not_found"
	Kind_Restricted             Kind = "restricted" // 仍被引用，不可刪除
)

var (
	ErrConfiguration          = &Error{Kind: Kind_ConfigurationError}
	ErrInvalidTransition      = &Error{Kind: Kind_InvalidTransition}
	ErrDataIntegrity          = &Error{Kind: Kind_DataIntegrityViolation}
	ErrStructureNotApplicable = &Error{Kind: Kind_StructureNotApplicable}
	ErrNotFound               = &Error{Kind: Kind_NotFound}
	ErrRestricted             = &Error{Kind: Kind_Restricted}
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can test against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func Wrap(kind Kind, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Err:     eris.Wrap(err, message),
	}
}

func Configuration(format string, args ...interface{}) *Error {
	return New(Kind_ConfigurationError, format, args...)
}

func InvalidTransition(format string, args ...interface{}) *Error {
	return New(Kind_InvalidTransition, format, args...)
}

func DataIntegrity(format string, args ...interface{}) *Error {
	return New(Kind_DataIntegrityViolation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(Kind_NotFound, format, args...)
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
