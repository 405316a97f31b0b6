package services

import (
	"github.com/Govind-619/QuickBite/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NextSequence increments the named counter and returns its new value. Run it
// inside the transaction that uses the value so a rollback gives it back.
func NextSequence(tx *gorm.DB, name string) (int64, error) {
	seed := models.Sequence{Name: name, Value: 0}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	if err := tx.Model(&models.Sequence{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + 1")).Error; err != nil {
		return 0, err
	}

	var seq models.Sequence
	if err := tx.Where("name = ?", name).First(&seq).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}
