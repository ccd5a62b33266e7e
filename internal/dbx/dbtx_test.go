package dbx

import "database/sql"

// Compile-time checks that both handle types satisfy DBTX.
var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
