// Package dberr maps validation and driver errors onto a small set of sentinel
// errors so callers can react with errors.Is regardless of the SQL backend.
package dberr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrForeignKey          = errors.New("foreign key constraint violation")
	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrDatabaseQuery       = errors.New("database query failed")
)

// Error carries the operation and entity that failed next to the classified cause
type Error struct {
	Op     string
	Entity string
	Kind   error
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Entity, e.Kind)
	}
	return fmt.Sprintf("failed to %s %s: %v: %v", e.Op, e.Entity, e.Kind, e.Cause)
}

// Unwrap exposes both the sentinel and the original error to errors.Is/As
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Classify wraps err with the sentinel matching its cause. A nil err stays nil.
func Classify(op, entity string, err error) error {
	if err == nil {
		return nil
	}

	return &Error{
		Op:     op,
		Entity: entity,
		Kind:   kindOf(err),
		Cause:  err,
	}
}

func kindOf(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return ErrConstraintViolation
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "foreign key"):
		return ErrForeignKey
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return ErrUniqueViolation
	case strings.Contains(msg, "not null constraint"), strings.Contains(msg, "violates not-null"),
		strings.Contains(msg, "check constraint"), strings.Contains(msg, "value too long"):
		return ErrConstraintViolation
	}

	return ErrDatabaseQuery
}

// Transaction wraps the error returned by a failed transaction
func Transaction(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrTransactionFailed, err)
}
