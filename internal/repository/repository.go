package repository

import (
	"strings"

	"gorm.io/gorm"
)

// conn returns tx when a transaction is in flight, otherwise the base handle.
func conn(tx, db *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// like builds an ILIKE pattern that matches s anywhere.
func like(s string) string {
	return "%" + strings.TrimSpace(s) + "%"
}

// applyBool narrows q by a "true"/"false" query parameter; anything else is
// ignored.
func applyBool(q *gorm.DB, column, v string) *gorm.DB {
	switch v {
	case "true":
		return q.Where(column+" = ?", true)
	case "false":
		return q.Where(column+" = ?", false)
	default:
		return q
	}
}
