package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/internal/logger"
)

// Persistable rows describe their own table. Columns come from struct tags:
//
//	column:"name"        column name (defaults to the lower cased field name)
//	dbtype:"REAL"        column type; fields without one are not stored
//	primary:"true"       part of the primary key
//	index:"true"         gets its own index
type Persistable interface {
	TableName() string
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type column struct {
	name    string
	dbType  string
	primary bool
	index   bool
	field   int
}

func columnsOf(obj any) []column {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	var cols []column
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		name := field.Tag.Get("column")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		cols = append(cols, column{
			name:    name,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			index:   field.Tag.Get("index") == "true",
			field:   i,
		})
	}
	return cols
}

// createTable creates the table and its indexes if they do not exist yet.
func createTable(ctx context.Context, db execer, obj Persistable) error {
	table := obj.TableName()
	cols := columnsOf(obj)

	var defs, primaryKeys []string
	for _, c := range cols {
		defs = append(defs, fmt.Sprintf("%s %s", c.name, c.dbType))
		if c.primary {
			primaryKeys = append(primaryKeys, c.name)
		}
	}
	if len(primaryKeys) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
	logger.Debug("Creating table with SQL", query)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}

	for _, c := range cols {
		if !c.index {
			continue
		}
		query := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", table, c.name, table, c.name)
		if _, err := db.ExecContext(ctx, query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// insert writes obj as a new row.
func insert(ctx context.Context, db execer, obj Persistable) error {
	table := obj.TableName()
	value := reflect.Indirect(reflect.ValueOf(obj))

	var names, placeholders []string
	var args []any
	for _, c := range columnsOf(obj) {
		names = append(names, c.name)
		placeholders = append(placeholders, "?")
		args = append(args, value.Field(c.field).Interface())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(names, ", "), strings.Join(placeholders, ", "))
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

// selectQuery returns the SELECT for obj's columns and a fresh set of scan
// destinations pointing into dst.
func selectQuery(dst Persistable, where string) (string, []any) {
	value := reflect.Indirect(reflect.ValueOf(dst))
	var names []string
	var dests []any
	for _, c := range columnsOf(dst) {
		names = append(names, c.name)
		dests = append(dests, value.Field(c.field).Addr().Interface())
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names, ", "), dst.TableName())
	if where != "" {
		query += " WHERE " + where
	}
	return query, dests
}

// findAll scans every row of T's table, in the given order.
func findAll[T any, PT interface {
	*T
	Persistable
}](ctx context.Context, db *sql.DB, orderBy string) ([]T, error) {
	var sample T
	query, _ := selectQuery(PT(&sample), "")
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", PT(&sample).TableName(), err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var row T
		_, dests := selectQuery(PT(&row), "")
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", PT(&row).TableName(), err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", PT(&sample).TableName(), err)
	}
	return out, nil
}
