package service

import (
	"errors"
	"fmt"

	"go-stock-pos/pkg/validator"

	"gorm.io/gorm"
)

// Error classes surfaced to handlers. Wrap them with a message via fmt.Errorf("%w: ...").
// Anything not matching one of these is a storage failure.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(entity string) error {
	return fmt.Errorf("%w: %s not found", ErrNotFound, entity)
}

func conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// validate runs struct tag validation and reports the first failure.
func validate(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return validationError("%s", errs[0].Error())
	}
	return nil
}

// translate maps a record-not-found from the store onto ErrNotFound for the named entity.
func translate(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}
	return err
}
