package main

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"tgrid/internal/grid"
)

func setupTestDB(t *testing.T) *sql.DB {
	tmpFile, err := os.CreateTemp("", "tgrid-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	db, err := sql.Open("sqlite3", tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	testData := []struct {
		id   int
		name string
		age  any
	}{
		{1, "Alice", 30},
		{2, "Bob", 25},
		{3, "Charlie", nil},
	}
	for _, row := range testData {
		_, err = db.Exec("INSERT INTO users (id, name, age) VALUES (?, ?, ?)",
			row.id, row.name, row.age)
		if err != nil {
			t.Fatalf("Failed to insert test data: %v", err)
		}
	}

	return db
}

func TestNewTableSourceLoadsRowsAndKey(t *testing.T) {
	db := setupTestDB(t)
	source, err := NewTableSource(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}

	if len(source.Items()) != 3 {
		t.Errorf("loaded %d rows, want 3", len(source.Items()))
	}
	if !source.Editable() {
		t.Error("table with a primary key should be editable")
	}
	if len(source.columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(source.columns))
	}
	if source.columns[0].Name != "id" || source.columns[1].Name != "name" {
		t.Errorf("unexpected column order: %v", source.columns)
	}

	rec := source.Items()[0].(*tableRecord)
	if len(rec.key) != 1 {
		t.Fatalf("key snapshot has %d values, want 1", len(rec.key))
	}
}

func TestUpdateWritesThroughKeySnapshot(t *testing.T) {
	db := setupTestDB(t)
	source, err := NewTableSource(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}

	rec := source.Items()[1].(*tableRecord)
	if err := source.Update(rec, 1, "Robert"); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	var name string
	if err := db.QueryRow("SELECT name FROM users WHERE id = 2").Scan(&name); err != nil {
		t.Fatalf("readback failed: %v", err)
	}
	if name != "Robert" {
		t.Errorf("name = %q, want Robert", name)
	}
	if rec.values[1] != "Robert" {
		t.Errorf("in-memory value = %v, want Robert", rec.values[1])
	}
}

func TestUpdateKeyColumnRefreshesSnapshot(t *testing.T) {
	db := setupTestDB(t)
	source, err := NewTableSource(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}

	rec := source.Items()[0].(*tableRecord)
	if err := source.Update(rec, 0, int64(100)); err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	// A second edit must address the row by its new key.
	if err := source.Update(rec, 2, int64(31)); err != nil {
		t.Fatalf("second Update() error: %v", err)
	}
	var age int
	if err := db.QueryRow("SELECT age FROM users WHERE id = 100").Scan(&age); err != nil {
		t.Fatalf("readback failed: %v", err)
	}
	if age != 31 {
		t.Errorf("age = %d, want 31", age)
	}
}

func TestUpdateVanishedRow(t *testing.T) {
	db := setupTestDB(t)
	source, err := NewTableSource(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}

	rec := source.Items()[2].(*tableRecord)
	if _, err := db.Exec("DELETE FROM users WHERE id = 3"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if err := source.Update(rec, 1, "Ghost"); err == nil {
		t.Error("expected error updating a deleted row")
	}
}

func TestKeylessTableIsReadOnly(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Exec("CREATE TABLE log (message TEXT)"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO log VALUES ('hello')"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	source, err := NewTableSource(db, SQLite, "log")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}
	if source.Editable() {
		t.Error("keyless table should be read-only")
	}
	for _, col := range source.GridColumns() {
		if col.Editable {
			t.Errorf("column %s should not be editable", col.ID)
		}
		if col.Setter != nil {
			t.Errorf("column %s should have no setter", col.ID)
		}
	}
}

func TestReloadNotifiesSubscribers(t *testing.T) {
	db := setupTestDB(t)
	source, err := NewTableSource(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}

	var got []grid.ChangeKind
	source.Subscribe(func(kind grid.ChangeKind) { got = append(got, kind) })

	if _, err := db.Exec("INSERT INTO users (id, name, age) VALUES (4, 'Dana', 40)"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := source.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if len(source.Items()) != 4 {
		t.Errorf("reloaded %d rows, want 4", len(source.Items()))
	}
	if len(got) != 1 || got[0] != grid.ChangeReset {
		t.Errorf("notifications = %v, want one ChangeReset", got)
	}
}

func TestValidateForType(t *testing.T) {
	tests := []struct {
		name    string
		colType string
		value   any
		wantErr bool
	}{
		{"integer ok", "integer", "42", false},
		{"integer bad", "integer", "forty", true},
		{"float ok", "numeric", "3.14", false},
		{"float bad", "real", "pi", true},
		{"bool ok", "boolean", "true", false},
		{"bool bad", "boolean", "yes", true},
		{"text passes anything", "text", "whatever", false},
		{"null passes typed column", "integer", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateForType(tt.colType, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateForType(%q, %v) error = %v, wantErr %v", tt.colType, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestCoerceForType(t *testing.T) {
	tests := []struct {
		name     string
		colType  string
		value    any
		expected any
	}{
		{"integer", "bigint", "42", int64(42)},
		{"float", "double precision", "2.5", 2.5},
		{"bool", "boolean", "true", true},
		{"text untouched", "varchar", "hello", "hello"},
		{"non-string untouched", "integer", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceForType(tt.colType, tt.value)
			if err != nil {
				t.Fatalf("coerceForType() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("coerceForType(%q, %v) = %v (%T), want %v (%T)", tt.colType, tt.value, got, got, tt.expected, tt.expected)
			}
		})
	}
}

func TestUpdatePreview(t *testing.T) {
	db := setupTestDB(t)
	source, err := NewTableSource(db, SQLite, "users")
	if err != nil {
		t.Fatalf("NewTableSource() error: %v", err)
	}

	rec := source.Items()[0].(*tableRecord)
	preview := source.UpdatePreview(rec, 1, "Alicia")
	if !strings.HasPrefix(preview, `UPDATE "users" SET "name" = 'Alicia'`) {
		t.Errorf("unexpected preview prefix: %q", preview)
	}
	if !strings.Contains(preview, `WHERE "id" = 1`) {
		t.Errorf("preview missing key clause: %q", preview)
	}
}

func TestPreviewLiteral(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"hello", "'hello'"},
		{"it's", "'it''s'"},
	}

	for _, tt := range tests {
		if got := previewLiteral(tt.in); got != tt.expected {
			t.Errorf("previewLiteral(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
