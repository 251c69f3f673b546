package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func duplicateSlot(err error) error {
	if isUniqueViolation(err) {
		return httperr.Conflict("slot_already_exists", err.Error())
	}
	return err
}

// translate turns driver errors into business errors where the caller can act
// on them; everything else is returned untouched.
func translate(err error, notFoundCode string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httperr.NotFound(notFoundCode)
	}
	return duplicateSlot(err)
}
