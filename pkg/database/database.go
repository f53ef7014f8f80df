/*
Copyright 2025 Strata Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package database is the SQL boundary the bindings resolver exposes.
// It carries its own small error taxonomy, parallel to but separate
// from the object-storage one: SQL failures never flow through the
// storage classification cascade.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// Session is a handle on one database.
type Session struct {
	db *sql.DB
}

// Open connects to the database described by the DSN and verifies the
// connection.
func Open(dsn string) (*Session, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &Session{db: db}, nil
}

// Close closes the underlying pool.
func (s *Session) Close() error {
	return s.db.Close()
}

// Prepare builds a statement for the given query. Bind arguments are
// attached afterwards with Bind.
func (s *Session) Prepare(ctx context.Context, query string) (*Statement, error) {
	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, classifySQL(err)
	}
	return &Statement{stmt: stmt, query: query}, nil
}

// Exec runs a multi-statement script, splitting on semicolons. Used
// for migrations and test fixtures.
func (s *Session) Exec(ctx context.Context, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return classifySQL(err)
		}
	}
	return nil
}

// Batch runs the given statements inside one transaction; either all
// of them apply or none do.
func (s *Session) Batch(ctx context.Context, stmts []*Statement) ([]Result, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classifySQL(err)
	}

	results := make([]Result, 0, len(stmts))
	for _, st := range stmts {
		res, err := tx.StmtContext(ctx, st.stmt).ExecContext(ctx, st.args...)
		if err != nil {
			_ = tx.Rollback()
			return nil, classifySQL(err)
		}
		results = append(results, resultOf(res))
	}
	if err := tx.Commit(); err != nil {
		return nil, classifySQL(err)
	}
	return results, nil
}

// Statement is a prepared query with bound arguments.
type Statement struct {
	stmt  *sql.Stmt
	query string
	args  []any
}

// Close releases the prepared statement.
func (st *Statement) Close() error {
	return st.stmt.Close()
}

// Bind replaces the statement's arguments and returns it for chaining.
func (st *Statement) Bind(args ...any) *Statement {
	st.args = args
	return st
}

// Result reports the effect of a write statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

func resultOf(res sql.Result) Result {
	out := Result{}
	// Both are driver-optional; a driver that cannot report them is not
	// an error.
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out
}

// Run executes a write statement.
func (st *Statement) Run(ctx context.Context) (Result, error) {
	res, err := st.stmt.ExecContext(ctx, st.args...)
	if err != nil {
		return Result{}, classifySQL(err)
	}
	return resultOf(res), nil
}

// All returns every result row as a column-name map.
func (st *Statement) All(ctx context.Context) ([]map[string]any, error) {
	rows, err := st.stmt.QueryContext(ctx, st.args...)
	if err != nil {
		return nil, classifySQL(err)
	}
	defer rows.Close()
	return scanAll(rows)
}

// First returns the first result row, reporting absence explicitly the
// same way the storage facade does.
func (st *Statement) First(ctx context.Context) (map[string]any, bool, error) {
	rows, err := st.All(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// Raw returns result rows as positional value slices, without column
// names.
func (st *Statement) Raw(ctx context.Context) ([][]any, error) {
	rows, err := st.stmt.QueryContext(ctx, st.args...)
	if err != nil {
		return nil, classifySQL(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classifySQL(err)
	}
	var out [][]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classifySQL(err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQL(err)
	}
	return out, nil
}

func scanAll(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, classifySQL(err)
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, classifySQL(err)
		}
		row := make(map[string]any, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classifySQL(err)
	}
	return out, nil
}
