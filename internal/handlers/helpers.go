package handlers

import (
	"fmt"

	"gorm.io/gorm"
)

// incrementCounter bumps a denormalized counter column by one.
func incrementCounter(tx *gorm.DB, model interface{}, id, column string) error {
	return tx.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s + 1", column))).Error
}

// decrementCounter lowers a counter column, clamped at zero. The CASE
// form works on both postgres and the sqlite test driver.
func decrementCounter(tx *gorm.DB, model interface{}, id, column string) error {
	expr := fmt.Sprintf("CASE WHEN %s > 0 THEN %s - 1 ELSE 0 END", column, column)
	return tx.Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(expr)).Error
}
