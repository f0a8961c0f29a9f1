package db

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// SQLiteDriverName is the database/sql driver used for sqlite connections.
// It is go-sqlite3 with lower() replaced by a Unicode-aware version; the
// built-in one only folds ASCII, which breaks case-insensitive search over
// Cyrillic names.
const SQLiteDriverName = "sqlite3_silant"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
}

// unicodeLower folds text values and passes NULL and other types through.
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		// go-sqlite3 hands NULL over as a nil slice.
		if s == nil {
			return nil
		}
		return strings.ToLower(string(s))
	default:
		return v
	}
}
