package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"tgrid/internal/grid"
)

// tableRecord is one database row held in memory. The key snapshot is
// taken at load time so an UPDATE always addresses the row the user
// loaded, even after key columns were edited.
type tableRecord struct {
	values []any
	key    []any
}

type columnMeta struct {
	Name string
	Type string
}

// tableSource loads a table's rows into memory and serves them as grid
// items, writing committed edits back through parameterized UPDATEs.
type tableSource struct {
	db     *sql.DB
	dbType DatabaseType
	table  string

	columns []columnMeta
	keyIdx  []int
	items   []any
	subs    []func(grid.ChangeKind)
}

// NewTableSource introspects the table's columns and primary key and
// performs the initial load. A table without a detectable key is served
// read-only.
func NewTableSource(db *sql.DB, dbType DatabaseType, table string) (*tableSource, error) {
	s := &tableSource{db: db, dbType: dbType, table: table}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	keys, err := s.primaryKeyColumns()
	if err != nil {
		return nil, err
	}
	for _, name := range keys {
		for i, col := range s.columns {
			if col.Name == name {
				s.keyIdx = append(s.keyIdx, i)
			}
		}
	}
	// Re-snapshot keys now that the key columns are known.
	for _, it := range s.items {
		rec := it.(*tableRecord)
		rec.key = s.keyValues(rec.values)
	}
	return s, nil
}

// Items implements grid.Source.
func (s *tableSource) Items() []any { return s.items }

// Subscribe implements grid.Notifier.
func (s *tableSource) Subscribe(fn func(grid.ChangeKind)) {
	s.subs = append(s.subs, fn)
}

// Editable reports whether edits can be written back.
func (s *tableSource) Editable() bool { return len(s.keyIdx) > 0 }

// Table returns the backing table name.
func (s *tableSource) Table() string { return s.table }

// Reload rescans the table and replaces the in-memory items.
func (s *tableSource) Reload() error {
	query := fmt.Sprintf("SELECT * FROM %s", quoteIdent(s.dbType, s.table))
	rows, err := s.db.Query(query)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", s.table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return err
	}
	columns := make([]columnMeta, len(names))
	for i, name := range names {
		columns[i] = columnMeta{Name: name, Type: strings.ToLower(types[i].DatabaseTypeName())}
	}

	var items []any
	for rows.Next() {
		values := make([]any, len(names))
		ptrs := make([]any, len(names))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		rec := &tableRecord{values: values}
		rec.key = s.keyValues(values)
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.columns = columns
	s.items = items
	s.notify(grid.ChangeReset)
	return nil
}

// Update writes one cell back to the database, addressing the row by
// its key snapshot, then applies the value in memory and refreshes the
// snapshot.
func (s *tableSource) Update(rec *tableRecord, colIdx int, value any) error {
	if !s.Editable() {
		return fmt.Errorf("table %s has no primary key and is read-only", s.table)
	}
	if colIdx < 0 || colIdx >= len(s.columns) {
		return fmt.Errorf("column index %d out of range", colIdx)
	}

	var sb strings.Builder
	args := make([]any, 0, 1+len(s.keyIdx))
	fmt.Fprintf(&sb, "UPDATE %s SET %s = %s WHERE ",
		quoteIdent(s.dbType, s.table),
		quoteIdent(s.dbType, s.columns[colIdx].Name),
		placeholder(s.dbType, 1))
	args = append(args, value)
	for i, keyIdx := range s.keyIdx {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "%s = %s", quoteIdent(s.dbType, s.columns[keyIdx].Name), placeholder(s.dbType, i+2))
		args = append(args, rec.key[i])
	}

	result, err := s.db.Exec(sb.String(), args...)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("row no longer exists")
	}

	rec.values[colIdx] = value
	rec.key = s.keyValues(rec.values)
	return nil
}

// GridColumns derives the grid column set from the table's result-set
// metadata. Every column sorts and filters; editing requires a key.
func (s *tableSource) GridColumns() []*grid.Column {
	editable := s.Editable()
	cols := make([]*grid.Column, len(s.columns))
	for i, meta := range s.columns {
		idx := i
		colType := meta.Type
		cols[i] = &grid.Column{
			ID:         meta.Name,
			Title:      meta.Name,
			Sizing:     grid.SizingAuto,
			MinWidth:   3,
			Sortable:   true,
			Filterable: true,
			Editable:   editable,
			Getter: func(item any) (any, error) {
				rec, ok := item.(*tableRecord)
				if !ok || idx >= len(rec.values) {
					return nil, fmt.Errorf("malformed record")
				}
				return rec.values[idx], nil
			},
			Validate: func(value any) error {
				return validateForType(colType, value)
			},
		}
		if editable {
			cols[i].Setter = func(item any, value any) error {
				rec, ok := item.(*tableRecord)
				if !ok {
					return fmt.Errorf("malformed record")
				}
				coerced, err := coerceForType(colType, value)
				if err != nil {
					return err
				}
				return s.Update(rec, idx, coerced)
			}
		}
	}
	return cols
}

func (s *tableSource) keyValues(values []any) []any {
	if len(s.keyIdx) == 0 {
		return nil
	}
	key := make([]any, len(s.keyIdx))
	for i, idx := range s.keyIdx {
		key[i] = values[idx]
	}
	return key
}

// primaryKeyColumns looks up the table's primary key column names.
func (s *tableSource) primaryKeyColumns() ([]string, error) {
	switch s.dbType {
	case SQLite:
		rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.dbType, s.table)))
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var keys []string
		for rows.Next() {
			var cid int
			var name, colType string
			var notNull, pk int
			var dflt any
			if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
				return nil, err
			}
			if pk > 0 {
				keys = append(keys, name)
			}
		}
		return keys, rows.Err()

	case PostgreSQL:
		query := `SELECT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
			  ON tc.constraint_name = kcu.constraint_name
			WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_name = $1
			ORDER BY kcu.ordinal_position`
		return s.scanKeyNames(query, s.table)

	case MySQL:
		query := `SELECT column_name FROM information_schema.key_column_usage
			WHERE table_name = ? AND constraint_name = 'PRIMARY'
			ORDER BY ordinal_position`
		return s.scanKeyNames(query, s.table)
	}
	return nil, nil
}

func (s *tableSource) scanKeyNames(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}

func (s *tableSource) notify(kind grid.ChangeKind) {
	for _, fn := range s.subs {
		fn(kind)
	}
}

// validateForType vets a pending edit against the column's database
// type before the setter runs. nil (explicit null) always passes; the
// database enforces NOT NULL itself.
func validateForType(colType string, value any) error {
	text, ok := value.(string)
	if !ok || value == nil {
		return nil
	}
	switch {
	case isIntegerType(colType):
		if _, err := strconv.ParseInt(text, 10, 64); err != nil {
			return fmt.Errorf("%q is not an integer", text)
		}
	case isFloatType(colType):
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return fmt.Errorf("%q is not a number", text)
		}
	case isBoolType(colType):
		if _, err := strconv.ParseBool(text); err != nil {
			return fmt.Errorf("%q is not a boolean", text)
		}
	}
	return nil
}

// coerceForType converts the editor's string into the value the driver
// should receive.
func coerceForType(colType string, value any) (any, error) {
	text, ok := value.(string)
	if !ok {
		return value, nil
	}
	switch {
	case isIntegerType(colType):
		return strconv.ParseInt(text, 10, 64)
	case isFloatType(colType):
		return strconv.ParseFloat(text, 64)
	case isBoolType(colType):
		return strconv.ParseBool(text)
	}
	return text, nil
}

func isIntegerType(t string) bool {
	return strings.Contains(t, "int") || t == "serial" || t == "bigserial"
}

func isFloatType(t string) bool {
	return strings.Contains(t, "float") || strings.Contains(t, "double") ||
		strings.Contains(t, "real") || strings.Contains(t, "decimal") ||
		strings.Contains(t, "numeric")
}

func isBoolType(t string) bool {
	return strings.Contains(t, "bool")
}

// UpdatePreview renders the UPDATE statement a commit would execute,
// shown in the command palette while a cell is being edited.
func (s *tableSource) UpdatePreview(rec *tableRecord, colIdx int, value string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s = %s",
		quoteIdent(s.dbType, s.table),
		quoteIdent(s.dbType, s.columns[colIdx].Name),
		previewLiteral(value))
	for i, idx := range s.keyIdx {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = %s",
			quoteIdent(s.dbType, s.columns[idx].Name),
			previewLiteral(fmt.Sprintf("%v", rec.key[i])))
	}
	return b.String()
}

// previewLiteral renders a value for display in a statement preview.
// Numbers stay bare, everything else is single-quoted.
func previewLiteral(v string) string {
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
