package service

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds SELECT ... FOR UPDATE so concurrent mutations of the same
// row serialize inside their transactions. SQLite (the test dialect) has no
// FOR UPDATE; its single-writer transactions already give the guarantee.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
