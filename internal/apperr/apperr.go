package apperr

import (
	"errors"
	"fmt"
)

// Kind — закрытый набор причин отказа. Обработчики и ретраи
// смотрят только на Kind, не на текст.
type Kind int

const (
	KindInvalidInput Kind = iota
	KindNotFound
	KindInsufficientStock
	KindConflict
	KindTimeout
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindConflict:
		return "conflict"
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	}
	return "unknown"
}

type Error struct {
	Kind  Kind
	Msg   string
	Cause error

	// MaxFeasibleQty заполняется только для KindInsufficientStock,
	// когда достижимое количество посчитано. -1 == не посчитано.
	MaxFeasibleQty int64
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Msg + ": " + e.Cause.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), MaxFeasibleQty: -1}
}

func Invalid(format string, args ...any) *Error {
	return newError(KindInvalidInput, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, format, args...)
}

func Insufficient(format string, args ...any) *Error {
	return newError(KindInsufficientStock, format, args...)
}

// InsufficientMax — нехватка с подсказкой, сколько максимум можно.
func InsufficientMax(maxQty int64, format string, args ...any) *Error {
	e := newError(KindInsufficientStock, format, args...)
	e.MaxFeasibleQty = maxQty
	return e
}

func Conflict(format string, args ...any) *Error {
	return newError(KindConflict, format, args...)
}

func Timeout(format string, args ...any) *Error {
	return newError(KindTimeout, format, args...)
}

func Unavailable(format string, args ...any) *Error {
	return newError(KindUnavailable, format, args...)
}

// Wrap сохраняет исходную ошибку как Cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := newError(kind, format, args...)
	e.Cause = cause
	return e
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

func IsInvalidInput(err error) bool      { return Is(err, KindInvalidInput) }
func IsNotFound(err error) bool          { return Is(err, KindNotFound) }
func IsInsufficientStock(err error) bool { return Is(err, KindInsufficientStock) }
func IsConflict(err error) bool          { return Is(err, KindConflict) }

// MaxFeasible возвращает подсказку из ошибки нехватки, если она есть.
func MaxFeasible(err error) (int64, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindInsufficientStock && e.MaxFeasibleQty >= 0 {
		return e.MaxFeasibleQty, true
	}
	return 0, false
}
