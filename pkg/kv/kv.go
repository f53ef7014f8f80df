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

// Package kv is the key-value store boundary the bindings resolver
// wraps. Like the object-storage facade, it keeps "no value" distinct
// from "failed": Get reports presence explicitly and never returns a
// driver not-found error.
package kv

import (
	"context"
	"time"
)

// Store is a flat key-value namespace over string keys.
type Store interface {
	// Get returns the value for key. ok is false when the key does not
	// exist; err is reserved for real failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key. A zero ttl means no expiration.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns up to limit keys starting with prefix, in
	// unspecified order. limit <= 0 means no bound.
	List(ctx context.Context, prefix string, limit int) ([]string, error)
}
