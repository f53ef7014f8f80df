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

package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// SQL adapter errors
var (
	// ErrSyntax indicates the statement could not be parsed
	ErrSyntax = errors.New("sql syntax error")

	// ErrConstraint indicates a unique, foreign-key, or check constraint
	// was violated
	ErrConstraint = errors.New("sql constraint violation")

	// ErrNoSuchColumn indicates the statement references an unknown column
	ErrNoSuchColumn = errors.New("no such column")

	// ErrNoSuchTable indicates the statement references an unknown table
	ErrNoSuchTable = errors.New("no such table")
)

// MySQL server error numbers this adapter distinguishes.
const (
	mysqlErrSyntax          = 1064
	mysqlErrDupEntry        = 1062
	mysqlErrBadNull         = 1048
	mysqlErrRowIsReferenced = 1451
	mysqlErrNoReferencedRow = 1452
	mysqlErrCheckViolated   = 3819
	mysqlErrBadField        = 1054
	mysqlErrNoSuchTable     = 1146
)

// classifySQL maps a driver error onto the adapter's taxonomy,
// preserving the driver message for diagnostics. Unknown errors pass
// through unwrapped.
func classifySQL(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case mysqlErrSyntax:
		return fmt.Errorf("%w: %v", ErrSyntax, me.Message)
	case mysqlErrDupEntry, mysqlErrBadNull, mysqlErrRowIsReferenced, mysqlErrNoReferencedRow, mysqlErrCheckViolated:
		return fmt.Errorf("%w: %v", ErrConstraint, me.Message)
	case mysqlErrBadField:
		return fmt.Errorf("%w: %v", ErrNoSuchColumn, me.Message)
	case mysqlErrNoSuchTable:
		return fmt.Errorf("%w: %v", ErrNoSuchTable, me.Message)
	}
	return err
}
