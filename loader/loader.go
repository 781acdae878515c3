package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"vendorstats/database"
)

// Recognized extensions and their field delimiters. Dispatch is a
// suffix match on the lowercased file name, so "report.csv.bak" is not
// picked up.
var delimiters = map[string]rune{
	".csv": ',',
	".tsv": '\t',
}

// Column affinities inferred from the data rows.
const (
	colInteger = "INTEGER"
	colReal    = "REAL"
	colText    = "TEXT"
)

// LoadAll loads every recognized delimited-text file in dir into a
// table named after the file (extension stripped). A failure on any
// file aborts the whole run; there is no skip-and-continue.
func LoadAll(db *sqlx.DB, dir string, logger zerolog.Logger) error {
	start := time.Now()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("could not read data directory %s: %w", dir, err)
	}

	files := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		delim, ok := delimiters[ext]
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		table := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))

		rows, err := LoadFile(db, path, table, delim)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		logger.Info().
			Str("file", entry.Name()).
			Str("table", table).
			Int("rows", rows).
			Msg("ingested file")
		files++
	}

	logger.Info().
		Int("files", files).
		Float64("minutes", time.Since(start).Minutes()).
		Msg("ingestion complete")
	return nil
}

// LoadFile parses one delimited-text file and writes it into table,
// replacing any prior table of that name. The first record is the
// header and becomes the column list, order preserved; no index column
// is added. Returns the number of data rows written.
func LoadFile(db *sqlx.DB, path, table string, delim rune) (rows int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer f.Close()

	// Strip a UTF-8 BOM if present; spreadsheet exports often carry one.
	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.Comma = delim
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return 0, fmt.Errorf("file %s is empty", path)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	// The whole file is held in memory; a record with the wrong field
	// count is a fatal parse error, not skipped.
	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	types := inferColumnTypes(len(header), records)

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction for %s: %w", table, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if err = database.DropTable(tx, table); err != nil {
		return 0, err
	}

	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = database.QuoteIdent(name) + " " + types[i]
	}
	createStmt := fmt.Sprintf("CREATE TABLE %s (%s)", database.QuoteIdent(table), strings.Join(cols, ", "))
	if _, err = tx.Exec(createStmt); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	placeholders := strings.Repeat("?,", len(header)-1) + "?"
	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s VALUES (%s)", database.QuoteIdent(table), placeholders))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, record := range records {
		args := make([]interface{}, len(record))
		for i, val := range record {
			args[i] = coerce(val, types[i])
		}
		if _, err = stmt.Exec(args...); err != nil {
			return rows, fmt.Errorf("failed to insert row into %s: %w", table, err)
		}
		rows++
	}
	return rows, nil
}

// inferColumnTypes picks an affinity per column: INTEGER when every
// non-empty value parses as an integer, REAL when every non-empty value
// parses as a float, TEXT otherwise (including all-empty columns).
func inferColumnTypes(numCols int, records [][]string) []string {
	allInt := make([]bool, numCols)
	allReal := make([]bool, numCols)
	seen := make([]bool, numCols)
	for i := 0; i < numCols; i++ {
		allInt[i] = true
		allReal[i] = true
	}

	for _, record := range records {
		for i, val := range record {
			if i >= numCols || val == "" {
				continue
			}
			seen[i] = true
			if allInt[i] {
				if _, err := strconv.ParseInt(val, 10, 64); err != nil {
					allInt[i] = false
				}
			}
			if allReal[i] {
				if _, err := strconv.ParseFloat(val, 64); err != nil {
					allReal[i] = false
				}
			}
		}
	}

	types := make([]string, numCols)
	for i := 0; i < numCols; i++ {
		switch {
		case seen[i] && allInt[i]:
			types[i] = colInteger
		case seen[i] && allReal[i]:
			types[i] = colReal
		default:
			types[i] = colText
		}
	}
	return types
}

// coerce converts one field to the Go value matching the column
// affinity. Empty fields in numeric columns become NULL.
func coerce(val, colType string) interface{} {
	switch colType {
	case colInteger:
		if val == "" {
			return nil
		}
		num, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return val
		}
		return num
	case colReal:
		if val == "" {
			return nil
		}
		num, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return val
		}
		return num
	default:
		return val
	}
}
