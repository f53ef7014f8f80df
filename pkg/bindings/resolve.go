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

package bindings

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/org/strata/pkg/database"
	"github.com/org/strata/pkg/kv"
	"github.com/org/strata/pkg/storage"
	"github.com/org/strata/pkg/storage/s3"
)

// Env is the resolved form of a manifest: live handles for the
// storage-shaped bindings and untouched values for the rest.
type Env struct {
	Buckets   map[string]*storage.Bucket
	KV        map[string]kv.Store
	Databases map[string]*database.Session
	Plain     map[string]string
}

// Resolver turns a manifest into an Env. The dialer fields exist so
// tests can substitute fakes; zero-value fields use the real adapters.
type Resolver struct {
	log logr.Logger

	dialBucket   func(*BucketConfig) (storage.Provider, error)
	dialKV       func(context.Context, *KVConfig) (kv.Store, error)
	dialDatabase func(*DatabaseConfig) (*database.Session, error)
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(log logr.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = log
	}
}

// WithBucketDialer substitutes the provider used for bucket bindings.
func WithBucketDialer(dial func(*BucketConfig) (storage.Provider, error)) ResolverOption {
	return func(r *Resolver) {
		r.dialBucket = dial
	}
}

// WithKVDialer substitutes the store used for kv bindings.
func WithKVDialer(dial func(context.Context, *KVConfig) (kv.Store, error)) ResolverOption {
	return func(r *Resolver) {
		r.dialKV = dial
	}
}

// WithDatabaseDialer substitutes the session used for database bindings.
func WithDatabaseDialer(dial func(*DatabaseConfig) (*database.Session, error)) ResolverOption {
	return func(r *Resolver) {
		r.dialDatabase = dial
	}
}

// NewResolver creates a resolver with the real adapters wired in.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		log: logr.Discard(),
		dialBucket: func(cfg *BucketConfig) (storage.Provider, error) {
			return s3.NewClient(&storage.Config{
				Bucket:          cfg.Bucket,
				Region:          cfg.Region,
				Endpoint:        cfg.Endpoint,
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
				UsePathStyle:    cfg.UsePathStyle,
			})
		},
		dialKV: func(ctx context.Context, cfg *KVConfig) (kv.Store, error) {
			return kv.DialRedis(ctx, cfg.Addr, cfg.Password, cfg.DB)
		},
		dialDatabase: func(cfg *DatabaseConfig) (*database.Session, error) {
			return database.Open(cfg.DSN)
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve wraps each recognized binding in its typed adapter. A
// binding the resolver cannot connect fails the whole resolution: a
// partially wired environment is worse than none.
func (r *Resolver) Resolve(ctx context.Context, m *Manifest) (*Env, error) {
	env := &Env{
		Buckets:   make(map[string]*storage.Bucket),
		KV:        make(map[string]kv.Store),
		Databases: make(map[string]*database.Session),
		Plain:     make(map[string]string),
	}

	for _, b := range m.Bindings {
		switch b.Type {
		case TypeBucket:
			provider, err := r.dialBucket(b.Bucket)
			if err != nil {
				return nil, fmt.Errorf("binding %q: %w", b.Name, err)
			}
			env.Buckets[b.Name] = storage.New(provider, storage.WithLogger(r.log.WithName(b.Name)))
			r.log.V(1).Info("resolved binding", "name", b.Name, "type", b.Type)
		case TypeKV:
			store, err := r.dialKV(ctx, b.KV)
			if err != nil {
				return nil, fmt.Errorf("binding %q: %w", b.Name, err)
			}
			env.KV[b.Name] = store
			r.log.V(1).Info("resolved binding", "name", b.Name, "type", b.Type)
		case TypeDatabase:
			session, err := r.dialDatabase(b.Database)
			if err != nil {
				return nil, fmt.Errorf("binding %q: %w", b.Name, err)
			}
			env.Databases[b.Name] = session
			r.log.V(1).Info("resolved binding", "name", b.Name, "type", b.Type)
		default:
			// Unrecognized shapes pass through untouched
			env.Plain[b.Name] = b.Value
		}
	}
	return env, nil
}
