package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		public_key TEXT NOT NULL UNIQUE,
		encrypted_private_key TEXT,
		type TEXT NOT NULL DEFAULT 'GENERATED',
		network TEXT NOT NULL DEFAULT 'devnet',
		currency TEXT NOT NULL,
		balance REAL NOT NULL DEFAULT 0,
		original_amount REAL NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(user_id, currency, type)
	);`)
}

func createTransactionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		signature TEXT NOT NULL UNIQUE,
		wallet_public_key TEXT NOT NULL,
		user_id TEXT NOT NULL,
		from_address TEXT,
		to_address TEXT,
		amount REAL NOT NULL DEFAULT 0,
		fee REAL NOT NULL DEFAULT 0,
		block_time INTEGER,
		status TEXT NOT NULL,
		type TEXT NOT NULL,
		timestamp DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAccountTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		number TEXT,
		type TEXT,
		nickname TEXT,
		status TEXT DEFAULT 'active',
		rib TEXT NOT NULL UNIQUE,
		is_default BOOLEAN DEFAULT false,
		balance REAL NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
