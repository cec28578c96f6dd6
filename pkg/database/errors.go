package database

import (
	"errors"

	"social-monkeys/pkg/apperror"

	"gorm.io/gorm"
)

// TranslateError maps a store error onto the apperror kinds. what names the
// document involved ("post", "like") and ends up in the message.
func TranslateError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict("%s already exists", what)
	case apperror.Classified(err):
		return err
	default:
		return apperror.StoreUnavailable(what, err)
	}
}
