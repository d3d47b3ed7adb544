// This file implements JSONL loading for startup. Malformed lines and
// records violating constraints are skipped; unknown fields are ignored.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/cadence/pkg/types"
)

// columnKind is the JSON type a column accepts. Values of another type reject
// the record instead of reaching the table.
type columnKind int

const (
	kindText columnKind = iota
	kindInteger
	kindBool
	kindDate
	kindList
)

// column maps a JSON field to a SQLite column. A missing field takes fallback;
// a nil fallback leaves the column NULL, so NOT NULL columns reject the record.
type column struct {
	name     string
	kind     columnKind
	fallback any
}

// jsonlTableMapping maps JSONL files to their SQLite tables. The ordinal
// column is filled from the line position.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []column
}{
	{companiesJSONL, "companies", []column{
		{name: "company_id"},
		{name: "name"},
		{name: "location", fallback: ""},
		{name: "linkedin_profile", fallback: ""},
		{name: "emails", kind: kindList},
		{name: "phone_numbers", kind: kindList},
		{name: "comments", fallback: ""},
		{name: "communication_periodicity", kind: kindInteger},
	}},
	{methodsJSONL, "communication_methods", []column{
		{name: "method_id"},
		{name: "name"},
		{name: "description", fallback: ""},
		{name: "sequence", kind: kindInteger},
		{name: "mandatory", kind: kindBool, fallback: false},
	}},
	{communicationsJSONL, "communications", []column{
		{name: "communication_id"},
		{name: "company_id"},
		{name: "method_id"},
		{name: "date", kind: kindDate},
		{name: "notes", fallback: ""},
	}},
}

// loadAllJSONL reads each JSONL file from dataDir and inserts its records into
// the corresponding table. Loading is transactional: all files load or the
// database stays empty.
func loadAllJSONL(db *sql.DB, dataDir string, logger *zap.Logger) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, malformed, err := readJSONL(filepath.Join(dataDir, mapping.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if malformed > 0 {
			logger.Warn("skipped malformed JSONL lines", zap.String("file", mapping.file), zap.Int("count", malformed))
		}
		if len(records) == 0 {
			continue
		}

		loaded, err := insertRecords(tx, mapping.table, mapping.columns, records)
		if err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
		if rejected := len(records) - loaded; rejected > 0 {
			logger.Warn("skipped invalid records", zap.String("file", mapping.file), zap.Int("count", rejected))
		}
		logger.Debug("loaded JSONL", zap.String("file", mapping.file), zap.Int("records", loaded))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into table and returns how many
// were accepted. Records with mistyped fields, duplicate ids, or values that
// fail a CHECK constraint are skipped.
func insertRecords(tx *sql.Tx, table string, columns []column, records []json.RawMessage) (int, error) {
	names := make([]string, 0, len(columns)+1)
	names = append(names, "ordinal")
	for _, c := range columns {
		names = append(names, c.name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), placeholders)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	loaded := 0
	for i, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}
		args, ok := recordArgs(i, columns, obj)
		if !ok {
			continue
		}
		if _, err := stmt.Exec(args...); err != nil {
			continue
		}
		loaded++
	}
	return loaded, nil
}

// recordArgs converts a decoded record into insert arguments, ordinal first.
// It reports false when a present field has the wrong JSON type.
func recordArgs(ordinal int, columns []column, obj map[string]any) ([]any, bool) {
	args := make([]any, 0, len(columns)+1)
	args = append(args, ordinal)
	for _, col := range columns {
		val, present := obj[col.name]
		if !present || val == nil {
			args = append(args, col.fallback)
			continue
		}
		v, ok := convertValue(col.kind, val)
		if !ok {
			return nil, false
		}
		args = append(args, v)
	}
	return args, true
}

// convertValue checks val against kind and returns the value to bind.
func convertValue(kind columnKind, val any) (any, bool) {
	switch kind {
	case kindInteger:
		f, ok := val.(float64)
		if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
			return nil, false
		}
		return int64(f), true
	case kindBool:
		b, ok := val.(bool)
		return b, ok
	case kindDate:
		s, ok := val.(string)
		if !ok {
			return nil, false
		}
		d, err := types.ParseDate(s)
		if err != nil {
			return nil, false
		}
		return d.Format(types.DateLayout), true
	case kindList:
		items, ok := val.([]any)
		if !ok {
			return nil, false
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return nil, false
			}
		}
		b, err := json.Marshal(items)
		if err != nil {
			return nil, false
		}
		return string(b), true
	default:
		s, ok := val.(string)
		return s, ok
	}
}
