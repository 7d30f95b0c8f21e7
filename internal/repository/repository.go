package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// deleteByID hard-deletes one row and reports gorm.ErrRecordNotFound when nothing matched.
func deleteByID(db *gorm.DB, value interface{}, id uuid.UUID) error {
	res := db.Delete(value, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
