package services

import (
	"errors"

	apperrors "ghostpayroll/internal/errors"
)

// ErrResultNotFound is returned when no stored analysis matches
var ErrResultNotFound = errors.New("analysis result not found")

// ErrorText renders err for users. AppErrors lose their type prefix.
func ErrorText(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Message + ": " + appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
