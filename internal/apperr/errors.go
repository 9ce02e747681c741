// Package apperr описывает виды ошибок ядра. Вид сохраняется при оборачивании,
// чтобы транспортный слой мог отличить "нет данных" от "ошибки".
package apperr

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthorized    Kind = "unauthorized"
	KindNotFound        Kind = "not_found"
	KindInvalidArgument Kind = "invalid_argument"
	KindConflict        Kind = "conflict"
	KindUnavailable     Kind = "unavailable"
	KindCanceled        Kind = "canceled"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	prefix := ""
	if e.Op != "" {
		prefix = e.Op + ": "
	}

	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s%s: %v", prefix, e.Message, e.Err)
	case e.Message != "":
		return prefix + e.Message
	case e.Err != nil:
		return prefix + e.Err.Error()
	default:
		return prefix + string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func Unauthorized(op, message string) *Error {
	return newError(KindUnauthorized, op, message, nil)
}

func NotFound(op, message string) *Error {
	return newError(KindNotFound, op, message, nil)
}

func InvalidArgument(op, message string) *Error {
	return newError(KindInvalidArgument, op, message, nil)
}

func Conflict(op, message string, err error) *Error {
	return newError(KindConflict, op, message, err)
}

func Unavailable(op, message string, err error) *Error {
	return newError(KindUnavailable, op, message, err)
}

// Canceled - контекст вызывающего завершился раньше операции. Хранилище при этом исправно.
func Canceled(op string, err error) *Error {
	return newError(KindCanceled, op, "request canceled", err)
}

func Internal(op, message string, err error) *Error {
	return newError(KindInternal, op, message, err)
}

// Wrap добавляет операцию к ошибке, сохраняя ее вид. Ошибки без вида становятся Internal.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return newError(KindOf(err), op, "", err)
}

// KindOf возвращает вид ближайшей *Error в цепочке
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
