// Package apperr provides the error type shared by every package of the tool.
// Failures carry a Code so the shell can tell an unreadable dataset apart from
// a failed render without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a failure category.
type Code string

func (c Code) String() string { return string(c) }

const (
	CodeUnknownProvider Code = "UNKNOWN_PROVIDER"
	CodeUnknownRegion   Code = "UNKNOWN_REGION"
	CodeUnreadableFile  Code = "UNREADABLE_FILE"
	CodeRenderFailed    Code = "RENDER_FAILED"
	CodeExportFailed    Code = "EXPORT_FAILED"
	CodeCellDirectory   Code = "CELL_DIRECTORY"
	CodeInvalidConfig   Code = "INVALID_CONFIG"
)

// AppError is the structured error returned across package boundaries.
//
//	return apperr.New(apperr.CodeUnreadableFile, "dataset not found").WithDetail(path)
//	return apperr.Wrap(err, apperr.CodeRenderFailed, "write heatmap")
type AppError struct {
	Code    Code
	Message string
	// Detail carries context such as the offending path or column.
	Detail string
	Cause  error
}

// Error formats as "[<code>] <message>: <detail>: <cause>", omitting empty parts.
func (e *AppError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, apperr.New(apperr.CodeUnreadableFile, "")) matches any
// unreadable-file failure.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of e with Detail set. Safe on nil.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of e with Cause set. Safe on nil.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches err as the cause of a new AppError. Returns nil if err is nil.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) Code {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsCode reports whether err's chain contains an AppError with code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
