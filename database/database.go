package database

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the SQLite database at path, creating the file if it
// does not exist yet.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("could not open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to database %s: %w", path, err)
	}
	return db, nil
}

// QuoteIdent quotes a table or column name so that names taken from
// file headers cannot break out of the identifier position.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func DropTable(e sqlx.Execer, name string) error {
	if _, err := e.Exec("DROP TABLE IF EXISTS " + QuoteIdent(name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", name, err)
	}
	return nil
}

func TableExists(db *sqlx.DB, name string) (bool, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("failed to check for table %s: %w", name, err)
	}
	return count > 0, nil
}

func RowCount(db *sqlx.DB, name string) (int64, error) {
	var count int64
	if err := db.Get(&count, "SELECT COUNT(*) FROM "+QuoteIdent(name)); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", name, err)
	}
	return count, nil
}

// TableColumns returns the column names of a table in declaration
// order.
func TableColumns(db *sqlx.DB, name string) ([]string, error) {
	rows, err := db.Queryx("PRAGMA table_info(" + QuoteIdent(name) + ")")
	if err != nil {
		return nil, fmt.Errorf("failed to read table info for %s: %w", name, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			colName    string
			colType    string
			notNull    int
			defaultVal interface{}
			pk         int
		)
		if err := rows.Scan(&cid, &colName, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan table info for %s: %w", name, err)
		}
		cols = append(cols, colName)
	}
	return cols, rows.Err()
}
