package database

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// ReadTx runs fn inside a read-only transaction. The connection is returned
// to the pool on every exit path, including panics inside fn.
func ReadTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn, &sql.TxOptions{ReadOnly: true})
}

// WriteTx runs fn inside a read-write transaction, committing when fn returns
// nil and rolling back otherwise.
func WriteTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}
