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
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifySQL verifies the mysql error-number mapping
func TestClassifySQL(t *testing.T) {
	cases := []struct {
		name   string
		number uint16
		want   error
	}{
		{"syntax", 1064, ErrSyntax},
		{"duplicate entry", 1062, ErrConstraint},
		{"null violation", 1048, ErrConstraint},
		{"row is referenced", 1451, ErrConstraint},
		{"no referenced row", 1452, ErrConstraint},
		{"check violated", 3819, ErrConstraint},
		{"unknown column", 1054, ErrNoSuchColumn},
		{"unknown table", 1146, ErrNoSuchTable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := &mysql.MySQLError{Number: tc.number, Message: "detail"}
			err := classifySQL(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want))
			assert.Contains(t, err.Error(), "detail")
		})
	}
}

// TestClassifySQLUnknownNumber verifies unmapped driver errors pass through
func TestClassifySQLUnknownNumber(t *testing.T) {
	raw := &mysql.MySQLError{Number: 1205, Message: "lock wait timeout"}
	err := classifySQL(raw)
	assert.Same(t, raw, err.(*mysql.MySQLError))
}

// TestClassifySQLNonDriverError verifies non-mysql errors pass through
func TestClassifySQLNonDriverError(t *testing.T) {
	raw := errors.New("context canceled")
	assert.Equal(t, raw, classifySQL(raw))
}
