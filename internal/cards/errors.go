package cards

import (
	"errors"

	"gorm.io/gorm"

	"github.com/jyl33/cardscanner-backend/pkg/db"
)

func isDuplicateCert(err error) bool {
	return db.IsUniqueViolation(err, "uq_cards_cert_number")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
