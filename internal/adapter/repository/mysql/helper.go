package mysql

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE. The sqlite dialect drops the clause,
// which is fine there since sqlite serializes writers.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}

func upsert(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.OnConflict{UpdateAll: true})
}

func notFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

type statusCount struct {
	Status string
	N      uint64
}
