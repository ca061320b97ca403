package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrForbidden is returned when a user tries to mutate content they do
// not own.
var ErrForbidden = errors.New("forbidden")

// isUniqueViolation reports whether err is a unique-constraint failure.
// Checked by the reaction toggle to detect the concurrent-toggle race.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
